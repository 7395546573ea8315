package vipsload

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/media"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

var log = logging.For("vips")

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// vipsLogLevel maps the engine log level onto the libvips threshold.
func vipsLogLevel(level logging.LogLevel) vips.LogLevel {
	switch level {
	case logging.LevelDebug:
		return vips.LogLevelInfo
	case logging.LevelInfo:
		return vips.LogLevelWarning
	case logging.LevelWarn:
		return vips.LogLevelError
	default:
		return vips.LogLevelCritical
	}
}

func vipsLogHandler(domain string, level vips.LogLevel, msg string) {
	switch level {
	case vips.LogLevelError, vips.LogLevelCritical:
		log.Error("[%s] %s", domain, msg)
	case vips.LogLevelWarning:
		log.Warn("[%s] %s", domain, msg)
	default:
		log.Debug("[%s] %s", domain, msg)
	}
}

// Init starts libvips and registers Load as the media fallback decoder,
// so media.LoadBitmap can read HEIC, AVIF and other formats without a Go
// decoder. Safe to call more than once.
func Init() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Logging must be configured before Startup.
	vips.LoggingSettings(vipsLogHandler, vipsLogLevel(logging.GetLevel()))

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsInitialized = true
	vipsAvailable = true
	media.SetFallbackDecoder(Load)
	log.Info("libvips initialized (version: %s)", vips.Version)
	return nil
}

// Shutdown unregisters the fallback decoder and releases libvips.
func Shutdown() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		media.SetFallbackDecoder(nil)
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		log.Info("libvips shutdown complete")
	}
}

// Available returns whether libvips is initialized and available
func Available() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// Load decodes path with libvips, shrinking at decode time when the image
// exceeds the given limits, and returns it as an image.Image.
func Load(path string, maxDimension, maxPixels int) (image.Image, error) {
	if !Available() {
		return nil, fmt.Errorf("libvips not available")
	}

	ref, err := vips.LoadImageFromFile(path, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	width, height, needsConstraint := media.ConstrainSize(ref.Width(), ref.Height(), maxDimension, maxPixels)
	if needsConstraint {
		log.Debug("Vips shrinking %s from %dx%d to %dx%d",
			filepath.Base(path), ref.Width(), ref.Height(), width, height)
		if err := ref.Thumbnail(width, height, vips.InterestingNone); err != nil {
			return nil, fmt.Errorf("vips resize failed: %w", err)
		}
	}

	// PNG keeps alpha and is lossless, unlike the JPEG path used for thumbnails.
	pngBytes, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}
	return img, nil
}
