package media

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"media-viewer-core/internal/filesystem"
	"media-viewer-core/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// MaxBitmapDimension is the maximum width or height of a decoded
	// compare source. Larger images are downscaled after decode.
	MaxBitmapDimension = 8192

	// MaxBitmapPixels caps the decoded pixel count (~32MP, ~128MB as NRGBA).
	MaxBitmapPixels = 32_000_000
)

var log = logging.For("media")

// Dimensions holds image width and height
type Dimensions struct {
	Width  int
	Height int
}

// Decoder loads a bitmap the Go decoders cannot read, constrained to the
// given limits.
type Decoder func(path string, maxDimension, maxPixels int) (image.Image, error)

var (
	fallbackMu sync.RWMutex
	fallback   Decoder
)

// SetFallbackDecoder registers the decoder LoadBitmap uses for formats
// without a Go decoder (HEIC, AVIF). nil removes it.
func SetFallbackDecoder(d Decoder) {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	fallback = d
}

func fallbackDecoder() Decoder {
	fallbackMu.RLock()
	defer fallbackMu.RUnlock()
	return fallback
}

// ReadDimensions returns image dimensions without fully decoding the image
func ReadDimensions(path string) (*Dimensions, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, err
	}

	return &Dimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// ConstrainSize returns the target size for an image of width x height so
// that neither dimension exceeds maxDimension and the pixel count stays
// under maxPixels. The aspect ratio is preserved.
func ConstrainSize(width, height, maxDimension, maxPixels int) (int, int, bool) {
	if width <= 0 || height <= 0 {
		return width, height, false
	}
	if width <= maxDimension && height <= maxDimension && width*height <= maxPixels {
		return width, height, false
	}

	targetWidth, targetHeight := width, height
	if width > maxDimension || height > maxDimension {
		if width > height {
			targetWidth = maxDimension
			targetHeight = height * maxDimension / width
		} else {
			targetHeight = maxDimension
			targetWidth = width * maxDimension / height
		}
	}

	if targetPixels := targetWidth * targetHeight; targetPixels > maxPixels {
		scale := float64(maxPixels) / float64(targetPixels)
		targetWidth = int(float64(targetWidth) * scale)
		targetHeight = int(float64(targetHeight) * scale)
	}

	return max(1, targetWidth), max(1, targetHeight), true
}

// LoadBitmap decodes a still image for compositing, downscaling if it
// exceeds maxDimension or maxPixels (<= 0 selects the package defaults).
// The header is read first; formats the Go decoders cannot read go to the
// fallback decoder when one is registered.
func LoadBitmap(path string, maxDimension, maxPixels int) (image.Image, error) {
	if maxDimension <= 0 {
		maxDimension = MaxBitmapDimension
	}
	if maxPixels <= 0 {
		maxPixels = MaxBitmapPixels
	}

	dims, err := ReadDimensions(path)
	if err != nil {
		if d := fallbackDecoder(); d != nil && errors.Is(err, image.ErrFormat) {
			log.Debug("No Go decoder for %s, using fallback decoder", path)
			return d(path, maxDimension, maxPixels)
		}
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	log.Debug("Image %s dimensions: %dx%d", path, dims.Width, dims.Height)

	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if _, _, needsConstraint := ConstrainSize(dims.Width, dims.Height, maxDimension, maxPixels); !needsConstraint {
		return img, nil
	}

	// Orientation may have swapped the axes.
	b := img.Bounds()
	width, height, _ := ConstrainSize(b.Dx(), b.Dy(), maxDimension, maxPixels)
	log.Info("Constraining large image %s from %dx%d to %dx%d", path, b.Dx(), b.Dy(), width, height)
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}
