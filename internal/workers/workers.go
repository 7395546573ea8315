package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that pins the worker count.
const EnvOverride = "VIEWER_WORKERS"

// Count returns the number of workers for a task with the given
// per-CPU multiplier. It respects container CPU limits via GOMAXPROCS.
//
// The limit parameter caps the worker count; 0 means no cap.
// Can be overridden with the VIEWER_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// Band is a half-open row range [Start, End).
type Band struct {
	Start, End int
}

// Bands splits rows into at most n contiguous bands of near-equal height.
// Bands never overlap and together cover [0, rows).
func Bands(rows, n int) []Band {
	if rows <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > rows {
		n = rows
	}

	out := make([]Band, 0, n)
	base, extra := rows/n, rows%n
	start := 0
	for i := 0; i < n; i++ {
		h := base
		if i < extra {
			h++
		}
		out = append(out, Band{Start: start, End: start + h})
		start += h
	}
	return out
}
