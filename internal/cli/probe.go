package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"media-viewer-core/internal/metrics"
	"media-viewer-core/internal/probe"
	"media-viewer-core/internal/workers"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// probeResult is one row of probe output.
type probeResult struct {
	File  string      `json:"file"`
	Info  *probe.Info `json:"info,omitempty"`
	Error string      `json:"error,omitempty"`
}

func newProbeCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Detect frame rate and frame count with ffprobe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prober := probe.New(a.settings.Probe, a.runner)
			obs := metrics.NewProbeObserver()

			results := make([]probeResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(workers.ForIO(8))
			for i, file := range args {
				g.Go(func() error {
					results[i].File = file
					start := time.Now()
					info, err := prober.Probe(ctx, file)
					elapsed := time.Now().Sub(start).Seconds()
					if err != nil {
						// One unreadable file should not hide the others.
						results[i].Error = err.Error()
						obs.ObserveProbe(probe.StatusError, elapsed)
						return nil
					}
					results[i].Info = &info
					obs.ObserveProbe(probe.StatusSuccess, elapsed)
					return nil
				})
			}
			_ = g.Wait()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tFPS\tFRAMES\tDURATION\tSIZE")
			failed := 0
			for _, r := range results {
				if r.Info == nil {
					failed++
					fmt.Fprintf(tw, "%s\terror: %s\t\t\t\n", r.File, r.Error)
					continue
				}
				fmt.Fprintf(tw, "%s\t%.3f\t%d\t%.3fs\t%dx%d\n",
					r.File, r.Info.FPS, r.Info.FrameCount, r.Info.Duration, r.Info.Width, r.Info.Height)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed == len(results) {
				return fmt.Errorf("no file could be probed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
