package vipsload

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/media"

	"github.com/davidbyttow/govips/v2/vips"
)

// NOTE: govips cannot restart after vips.Shutdown(), so nothing here calls
// Shutdown.

func TestVipsLogLevel(t *testing.T) {
	tests := []struct {
		level    logging.LogLevel
		expected vips.LogLevel
	}{
		{logging.LevelDebug, vips.LogLevelInfo},
		{logging.LevelInfo, vips.LogLevelWarning},
		{logging.LevelWarn, vips.LogLevelError},
		{logging.LevelError, vips.LogLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := vipsLogLevel(tt.level); got != tt.expected {
				t.Errorf("vipsLogLevel(%v) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestInitVipsIdempotency(t *testing.T) {
	if err := Init(); err != nil {
		t.Logf("libvips not available in test environment: %v", err)
		return
	}
	if err := Init(); err != nil {
		t.Errorf("Second Init() call failed: %v", err)
	}
	if !Available() {
		t.Error("After successful InitVips, IsVipsAvailable should return true")
	}
}

func TestLoadBitmapWithVipsIfAvailable(t *testing.T) {
	if !Available() {
		if err := Init(); err != nil {
			t.Skipf("libvips not available: %v", err)
		}
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vips.jpg")
	writeJPEG(t, path, 1200, 600)

	img, err := Load(path, 300, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() > 300 || b.Dy() > 300 {
		t.Errorf("Expected image within 300px, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestInitRegistersFallbackDecoder(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("libvips not available: %v", err)
	}

	// No Go decoder reads PPM, so this goes through libvips.
	path := filepath.Join(t.TempDir(), "frame.ppm")
	data := append([]byte("P6\n4 2\n255\n"), make([]byte, 4*2*3)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := media.LoadBitmap(path, 0, 0)
	if err != nil {
		t.Fatalf("LoadBitmap failed: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("Expected 4x2, got %v", img.Bounds())
	}
}

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image file: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}
