package cli

import (
	"fmt"
	"time"

	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/transform"

	"github.com/spf13/cobra"
)

func newFitCommand(a *app) *cobra.Command {
	var (
		viewport string
		content  string
		zoom     float64
		dpr      float64
		panAtFit bool
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Print the fitted box, overflow and pan limits for a viewport and content size",
		Example: `  viewerctl fit --viewport 800x600 --content 1920x1080
  viewerctl fit --viewport 800x600 --content 1080x1920 --zoom 2 --pan-at-fit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vp, err := parseSize(viewport)
			if err != nil {
				return err
			}
			natural, err := parseSize(content)
			if err != nil {
				return err
			}

			opts := transform.OptionsFrom(a.settings.Transform)
			if cmd.Flags().Changed("pan-at-fit") {
				opts.PanAtFit = panAtFit
			}
			c := transform.New(surface(geometry.Viewport{Width: vp.W, Height: vp.H, DPR: dpr}, a.settings.Viewport.CacheTTL), opts)
			c.SetContent(natural, false)
			if err := c.SetZoom(zoom, nil); err != nil {
				return err
			}

			base, err := c.BaseBox()
			if err != nil {
				return err
			}
			limits, err := c.Limits()
			if err != nil {
				return err
			}
			over := geometry.Overflow(base, vp)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "viewport:   %.0fx%.0f (dpr %.2f)\n", vp.W, vp.H, max(dpr, 1))
			fmt.Fprintf(out, "content:    %.0fx%.0f\n", natural.W, natural.H)
			fmt.Fprintf(out, "base box:   %.2fx%.2f\n", base.W, base.H)
			fmt.Fprintf(out, "overflow:   %.2fx%.2f\n", over.W, over.H)
			fmt.Fprintf(out, "zoom:       %.4f\n", c.Zoom())
			fmt.Fprintf(out, "pan limits: ±%.2f x ±%.2f\n", limits.X, limits.Y)
			if one, ok := c.OneToOneZoom(); ok {
				fmt.Fprintf(out, "1:1 zoom:   %.4f\n", one)
			}
			fmt.Fprintf(out, "transform:  %s\n", c.Transform().CSS())
			return nil
		},
	}

	cmd.Flags().StringVar(&viewport, "viewport", "800x600", "viewport size WxH")
	cmd.Flags().StringVar(&content, "content", "", "natural content size WxH")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "zoom factor to evaluate")
	cmd.Flags().Float64Var(&dpr, "dpr", 1, "device pixel ratio")
	cmd.Flags().BoolVar(&panAtFit, "pan-at-fit", false, "allow panning overflowing content at zoom 1")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

// surface wraps a fixed viewport in the measurement cache a host surface
// hands to the controller.
func surface(vp geometry.Viewport, ttl time.Duration) geometry.ViewportProvider {
	return geometry.NewViewportCache(geometry.StaticViewport(vp), ttl)
}
