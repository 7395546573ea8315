package compare

import (
	"context"
	"image"
	"image/color"
	"math"

	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/workers"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Fallback reasons.
const (
	ReasonOversized   = "oversized"
	ReasonTimeBased   = "time-based"
	ReasonUnsupported = "unsupported"
	ReasonError       = "error"
)

// maxBlendWorkers caps the goroutines used for one composition.
const maxBlendWorkers = 8

// MathOptions bounds pixel arithmetic.
type MathOptions struct {
	// Gain multiplies the difference mode so small deltas show.
	Gain float64
	// MaxPixels is the output size above which gain and buffer subtraction
	// are skipped.
	MaxPixels int
	// TimeBased is set when either source plays over time.
	TimeBased bool
}

// Result is a computed bitmap and how it was produced.
type Result struct {
	Image *image.NRGBA
	// Applied is the mode actually computed; it differs from the request
	// when a fallback was taken.
	Applied Mode
	// Fallback names the reason for degrading, empty when none.
	Fallback string
}

// commonSize returns the size of the source with fewer pixels. The other
// source is fitted into it by fitTo, so neither is upsampled or squashed.
func commonSize(a, b image.Image) (int, int, error) {
	if a == nil || b == nil {
		return 0, 0, fault.NotReady("compose", "bitmap missing")
	}
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Empty() || bb.Empty() {
		return 0, 0, fault.NotReady("compose", "empty bitmap")
	}
	if bb.Dx()*bb.Dy() < ab.Dx()*ab.Dy() {
		return bb.Dx(), bb.Dy(), nil
	}
	return ab.Dx(), ab.Dy(), nil
}

// fitTo returns img as a zero-origin NRGBA of exactly w x h. A source of a
// different aspect ratio is scaled to fit and centered on opaque black.
func fitTo(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
			return n
		}
		return imaging.Clone(img)
	}

	fit, _ := geometry.ContainFit(
		geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())},
		geometry.Size{W: float64(w), H: float64(h)},
	)
	fw := geometry.ClampInt(int(math.Round(fit.W)), 1, w)
	fh := geometry.ClampInt(int(math.Round(fit.H)), 1, h)
	scaled := imaging.Resize(img, fw, fh, imaging.Lanczos)
	if fw == w && fh == h {
		return scaled
	}
	return imaging.PasteCenter(imaging.New(w, h, color.NRGBA{A: 255}), scaled)
}

// plan picks the computation for mode at the given output size.
func plan(mode Mode, pixels int, opts MathOptions) (applied Mode, gain float64, reason string) {
	small := opts.MaxPixels <= 0 || pixels <= opts.MaxPixels
	switch mode {
	case ModeDifference:
		if !small {
			return ModeAbsDifference, 1, ReasonOversized
		}
		g := opts.Gain
		if g < 1 {
			g = 1
		}
		return ModeDifference, g, ""
	case ModeSubtract:
		if opts.TimeBased {
			return ModeAbsDifference, 1, ReasonTimeBased
		}
		if !small {
			return ModeAbsDifference, 1, ReasonOversized
		}
	}
	return mode, 1, ""
}

type channelOp func(a, b uint8) uint8

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func opFor(mode Mode, gain float64) channelOp {
	switch mode {
	case ModeDifference:
		return func(a, b uint8) uint8 {
			v := float64(absDiff(a, b)) * gain
			if v > 255 {
				return 255
			}
			return uint8(v)
		}
	case ModeSubtract:
		return func(a, b uint8) uint8 {
			if b > a {
				return b - a
			}
			return 0
		}
	case ModeMultiply:
		return func(a, b uint8) uint8 {
			return uint8((uint32(a)*uint32(b) + 127) / 255)
		}
	case ModeScreen:
		return func(a, b uint8) uint8 {
			return 255 - uint8((uint32(255-a)*uint32(255-b)+127)/255)
		}
	case ModeAdd:
		return func(a, b uint8) uint8 {
			if s := uint16(a) + uint16(b); s < 255 {
				return uint8(s)
			}
			return 255
		}
	}
	return absDiff
}

// Compose computes a math-mode bitmap of a over b at the size of the
// smaller source. Alpha is always opaque. Rows are processed in parallel bands.
func Compose(ctx context.Context, a, b image.Image, mode Mode, opts MathOptions) (Result, error) {
	if !mode.IsMath() {
		return Result{}, fault.Unsupported("compose", string(mode))
	}
	w, h, err := commonSize(a, b)
	if err != nil {
		return Result{}, err
	}

	applied, gain, reason := plan(mode, w*h, opts)
	op := opFor(applied, gain)
	na, nb := fitTo(a, w, h), fitTo(b, w, h)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	g, ctx := errgroup.WithContext(ctx)
	for _, band := range workers.Bands(h, workers.ForCPU(maxBlendWorkers)) {
		band := band
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blendRows(out, na, nb, band.Start, band.End, op)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Image: out, Applied: applied, Fallback: reason}, nil
}

func blendRows(out, a, b *image.NRGBA, y0, y1 int, op channelOp) {
	w := out.Rect.Dx()
	for y := y0; y < y1; y++ {
		po := out.Pix[y*out.Stride : y*out.Stride+w*4]
		pa := a.Pix[y*a.Stride : y*a.Stride+w*4]
		pb := b.Pix[y*b.Stride : y*b.Stride+w*4]
		for i := 0; i < len(po); i += 4 {
			po[i] = op(pa[i], pb[i])
			po[i+1] = op(pa[i+1], pb[i+1])
			po[i+2] = op(pa[i+2], pb[i+2])
			po[i+3] = 255
		}
	}
}
