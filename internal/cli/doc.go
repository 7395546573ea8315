// Package cli implements the viewerctl command tree on cobra. Each
// subcommand builds the engine components it needs from the loaded
// settings; serve-metrics additionally watches the settings file and
// re-applies it while running.
package cli
