/*
Package workers sizes worker pools for containerized environments.

runtime.NumCPU reports the host's CPU count, while GOMAXPROCS follows the
container's cgroup CPU limit. Every helper here derives its answer from
GOMAXPROCS so a pod limited to 2 CPUs on a 64-core node spawns 2 workers,
not 64.

	// Pixel compositing: one worker per CPU, at most 8.
	n := workers.ForCPU(8)

	// ffprobe batches: two workers per CPU.
	n := workers.ForIO(16)

# Bands

Bands splits an image's rows into contiguous stripes, one per worker:

	for _, b := range workers.Bands(img.Bounds().Dy(), workers.ForCPU(8)) {
		g.Go(func() error { return blendRows(b.Start, b.End) })
	}

# Environment Variable Override

VIEWER_WORKERS pins the count regardless of CPU detection. The limit passed
by the caller still applies.

	VIEWER_WORKERS=2 viewerctl diff a.png b.png
*/
package workers
