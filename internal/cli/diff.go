package cli

import (
	"fmt"
	"image"
	"strings"

	"media-viewer-core/internal/compare"
	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/media/vipsload"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newDiffCommand(a *app) *cobra.Command {
	var (
		modeName string
		wipe     float64
		output   string
		useVips  bool
	)

	cmd := &cobra.Command{
		Use:   "diff <image-a> <image-b>",
		Short: "Compose two images with a compare mode and write the result",
		Long: `diff composes image A over image B the way the compare view does and
writes the result. Modes: ` + modeList() + `.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := compare.ParseMode(modeName)
			if !ok {
				return fmt.Errorf("unknown mode %q (want one of %s)", modeName, modeList())
			}

			if useVips {
				if err := vipsload.Init(); err != nil {
					logging.Warn("libvips unavailable, using Go decoders: %v", err)
				} else {
					defer vipsload.Shutdown()
				}
			}

			imgs := make([]image.Image, 2)
			g := new(errgroup.Group)
			for i, path := range args {
				g.Go(func() error {
					still, err := compare.LoadStill(path, path)
					if err != nil {
						return fmt.Errorf("loading %s: %w", path, err)
					}
					imgs[i], err = still.Bitmap()
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var (
				out     image.Image
				applied = mode
				reason  string
			)
			if mode.IsWipe() {
				img, err := compare.ComposeWipe(imgs[0], imgs[1], mode, wipe)
				if err != nil {
					return err
				}
				out = img
			} else {
				opts := compare.OptionsFrom(a.settings.Compare)
				res, err := compare.Compose(cmd.Context(), imgs[0], imgs[1], mode, compare.MathOptions{
					Gain:      opts.Gain,
					MaxPixels: opts.MaxMathPixels,
				})
				if err != nil {
					return err
				}
				out, applied, reason = res.Image, res.Applied, res.Fallback
			}

			if err := imaging.Save(out, output); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			b := out.Bounds()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "wrote %s (%dx%d, %s)\n", output, b.Dx(), b.Dy(), applied)
			if reason != "" {
				fmt.Fprintf(w, "%s fell back to %s: %s\n", mode, applied, reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeName, "mode", "m", string(compare.ModeDifference), "compare mode")
	cmd.Flags().Float64Var(&wipe, "wipe", compare.DefaultWipePercent, "wipe position in percent for wipe modes")
	cmd.Flags().StringVarP(&output, "output", "o", "diff.png", "output image; the format follows the extension")
	cmd.Flags().BoolVar(&useVips, "vips", true, "decode formats Go cannot read (HEIC, AVIF) with libvips")
	return cmd
}

func modeList() string {
	names := make([]string, 0, len(compare.Modes()))
	for _, m := range compare.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
