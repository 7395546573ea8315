package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"media-viewer-core/internal/element"
	"media-viewer-core/internal/media"
	"media-viewer-core/internal/metrics"
	"media-viewer-core/internal/probe"
	"media-viewer-core/internal/scheduler"
	"media-viewer-core/internal/signal"
	"media-viewer-core/internal/transport"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type playFlags struct {
	duration float64
	fps      float64
	in, out  int
	loop     bool
	once     bool
	rate     float64
	seconds  float64
	file     string
	preview  bool
	keys     string
}

// printSink reports play-state and frame-rate signals on w.
type printSink struct {
	w io.Writer
}

func (p printSink) FrameRateDetected(assetID string, fps float64) {
	fmt.Fprintf(p.w, "frame rate detected for %s: %.3f fps\n", assetID, fps)
}

func (p printSink) PlayStateChanged(_ string, playing bool) {
	if playing {
		fmt.Fprintln(p.w, "playing")
	} else {
		fmt.Fprintln(p.w, "paused")
	}
}

func newPlayCommand(a *app) *cobra.Command {
	f := &playFlags{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Simulate frame-accurate playback over a virtual media element",
		Example: `  viewerctl play --duration 10 --fps 30 --in 60 --out 120 --loop --for 5
  viewerctl play --file clip.mp4 --once --keys "i,right,right,o"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlay(cmd, f)
		},
	}

	cmd.Flags().Float64Var(&f.duration, "duration", 10, "media duration in seconds")
	cmd.Flags().Float64Var(&f.fps, "fps", 0, "frame rate (default from config)")
	cmd.Flags().IntVar(&f.in, "in", -1, "in frame (-1 for none)")
	cmd.Flags().IntVar(&f.out, "out", -1, "out frame (-1 for none)")
	cmd.Flags().BoolVar(&f.loop, "loop", false, "loop the range")
	cmd.Flags().BoolVar(&f.once, "once", false, "play the range once and stop at out")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "playback rate (default from config)")
	cmd.Flags().Float64Var(&f.seconds, "for", 0, "simulated wall-clock seconds to run (default twice the duration)")
	cmd.Flags().StringVar(&f.file, "file", "", "probe this file for frame rate, frame count and duration")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "use the autoplaying preview transport")
	cmd.Flags().StringVar(&f.keys, "keys", "", `comma separated keys applied before playing, e.g. "i,shift+right,o,+"`)
	return cmd
}

func (a *app) runPlay(cmd *cobra.Command, f *playFlags) error {
	out := cmd.OutOrStdout()
	sink := signal.Fanout{printSink{w: out}}
	loop := scheduler.New(60)

	opts := transport.OptionsFrom(a.settings.Transport)
	opts.Sink = sink
	opts.Observer = metrics.NewTransportObserver()
	if f.preview {
		opts.Variant = transport.VariantPreview
	}
	if f.fps > 0 {
		opts.DefaultFPS = f.fps
	}
	if f.rate > 0 {
		opts.DefaultRate = f.rate
	}

	el := element.NewSim("sim", 0)
	ctl := transport.New(el, opts)
	defer ctl.Destroy()

	duration := f.duration
	if f.file != "" {
		session := probe.NewSession(probe.New(a.settings.Probe, a.runner), probe.Options{
			Cache:    probe.NewCache(a.settings.Probe.CacheTTL),
			Sink:     sink,
			Observer: metrics.NewProbeObserver(),
			Post:     loop.Post,
		})
		defer session.Dispose()

		asset := media.Asset{ID: f.file, Path: f.file, Kind: media.KindFromPath(f.file)}
		err := session.Start(asset, func(info probe.Info) {
			_ = ctl.SetMediaInfo(transport.MediaInfo{FPS: info.FPS, FrameCount: info.FrameCount})
			if info.Duration > 0 && !cmd.Flags().Changed("duration") {
				duration = info.Duration
			}
		})
		if err != nil {
			return err
		}
		session.Wait()
		loop.Drain()
	}

	el.LoadMetadata(duration)

	if f.in >= 0 {
		if err := ctl.SetInFrame(f.in); err != nil {
			return err
		}
	}
	if f.out >= 0 {
		if err := ctl.SetOutFrame(f.out); err != nil {
			return err
		}
	}
	if f.loop {
		if err := ctl.SetLoop(true); err != nil {
			return err
		}
	}
	if f.once {
		if err := ctl.SetOnce(true); err != nil {
			return err
		}
	}
	if err := applyKeys(ctl, f.keys); err != nil {
		return err
	}

	if ctl.State() != transport.StatePlaying {
		if err := ctl.Play(); err != nil {
			return err
		}
	}

	seconds := f.seconds
	if seconds <= 0 {
		seconds = duration * 2
	}
	simulate(out, ctl, el, loop, seconds)

	s := ctl.Snapshot()
	fmt.Fprintf(out, "final: %s frame %d/%d %s range [%d, %d] rate %.2f\n",
		s.State, s.Frame, s.FrameCount, s.Timecode, s.In, s.Out, s.Rate)
	return nil
}

// simulate advances the element in display-frame ticks, reporting range
// enforcement as it happens. On a terminal a progress line is redrawn in
// place.
func simulate(out io.Writer, ctl *transport.Controller, el *element.Sim, loop *scheduler.Loop, seconds float64) {
	tty, width := terminal(out)
	tick := loop.Interval()
	now := time.Now()
	last := ctl.Snapshot()

	for elapsed := time.Duration(0); elapsed.Seconds() < seconds; elapsed += tick {
		el.Advance(tick.Seconds())
		now = now.Add(tick)
		loop.Frame(now)

		s := ctl.Snapshot()
		switch {
		case s.Frame < last.Frame && s.State == transport.StatePlaying:
			clearLine(out, tty)
			fmt.Fprintf(out, "wrapped %d -> %d at %s\n", last.Frame, s.Frame, s.Timecode)
		case s.State != last.State:
			clearLine(out, tty)
			fmt.Fprintf(out, "%s at frame %d (%s)\n", s.State, s.Frame, s.Timecode)
		}
		if tty {
			fmt.Fprintf(out, "\r%s", progressLine(s, width))
		}
		last = s

		if s.State == transport.StatePaused || s.State == transport.StateEnded {
			break
		}
	}
	clearLine(out, tty)
}

func terminal(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		w = 80
	}
	return true, w
}

func clearLine(out io.Writer, tty bool) {
	if tty {
		fmt.Fprint(out, "\r\033[K")
	}
}

// progressLine renders the playhead and range on a bar that fits width.
func progressLine(s transport.Snapshot, width int) string {
	label := fmt.Sprintf(" %s %5.1f%%", s.Timecode, s.PlayheadPercent)
	bar := width - len(label) - 2
	if bar < 10 {
		return label
	}
	cells := []rune(strings.Repeat("-", bar))
	at := func(pct float64) int {
		return min(bar-1, max(0, int(pct/100*float64(bar))))
	}
	if s.Restricted {
		cells[at(s.InPercent)] = '['
		cells[at(s.OutPercent)] = ']'
	}
	cells[at(s.PlayheadPercent)] = '|'
	return "[" + string(cells) + "]" + label
}

// keyNames maps command-line key names to DOM key names.
var keyNames = map[string]string{
	"space": " ",
	"left":  "ArrowLeft",
	"right": "ArrowRight",
}

func applyKeys(ctl *transport.Controller, keys string) error {
	if strings.TrimSpace(keys) == "" {
		return nil
	}
	for _, raw := range strings.Split(keys, ",") {
		name := strings.TrimSpace(raw)
		shift := false
		if rest, ok := strings.CutPrefix(strings.ToLower(name), "shift+"); ok {
			shift = true
			name = rest
		}
		key := name
		if dom, ok := keyNames[strings.ToLower(name)]; ok {
			key = dom
		}
		handled, err := ctl.HandleKey(key, shift)
		if err != nil {
			return fmt.Errorf("key %q: %w", raw, err)
		}
		if !handled {
			return fmt.Errorf("unknown key %q", raw)
		}
	}
	return nil
}
