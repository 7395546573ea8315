// Package vipsload decodes still images through libvips for formats the Go
// image decoders cannot read, such as HEIC and AVIF.
//
// Init starts libvips and registers Load with media.SetFallbackDecoder.
// Only commands that decode user images import this package, so the
// transport and compositor build without cgo.
//
// govips cannot restart after Shutdown; call Init once per process.
package vipsload
