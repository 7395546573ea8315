// Package logging provides a simple leveled logging interface for the
// viewer engine.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the process
//
// The log level is configured via the LOG_LEVEL environment variable and can
// be changed at runtime with SetLevel when the settings file is reloaded.
//
// Controllers log through component-scoped loggers:
//
//	log := logging.For("transport").With(id)
//	log.Debug("range set to [%d, %d]", in, out)
package logging
