// Package main provides viewerctl, the command-line front end of the viewer
// engine.
//
// viewerctl drives the transform, transport and compare packages without a
// UI, which makes it useful for checking fit and pan behavior on real
// content sizes, reproducing range enforcement, and producing compare
// images in scripts.
//
// # Commands
//
//   - fit: print the zoom=1 box, overflow and pan limits for a viewport and
//     content size
//   - diff: compose two images with a wipe or math mode and write the result
//   - probe: detect frame rate and frame count with ffprobe
//   - play: simulate frame-accurate playback with in/out, loop, once and
//     rate over a virtual media element
//   - config init / config show: write the defaults or print the effective
//     settings
//   - serve-metrics: serve Prometheus metrics plus probe and fit endpoints,
//     reloading the settings file when it changes
//
// # Configuration
//
// Settings come from the YAML file named by --config and VIEWER_*
// environment variables, e.g. VIEWER_TRANSFORM_PAN_AT_FIT=true or
// VIEWER_PROBE_FFPROBE_PATH=/usr/local/bin/ffprobe. Out-of-range values are
// coerced rather than rejected.
//
// # Build Requirements
//
// libvips is linked through govips for decoding HEIC and AVIF in diff;
// ffprobe must be on PATH (or configured) for probe.
//
//	go build -o viewerctl ./cmd/viewerctl
package main
