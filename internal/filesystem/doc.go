/*
Package filesystem opens and stats media files with retries for NFS stale
file handle errors (ESTALE).

Compare sources and probed clips often live on network mounts; a handle
that goes stale while the server swaps a file is retried with exponential
backoff. Every other error fails immediately.

	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())

Retry counts and durations are reported to the Observer set with
SetObserver, implemented by the metrics package.
*/
package filesystem
