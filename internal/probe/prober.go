package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"media-viewer-core/internal/config"
	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/filesystem"
	"media-viewer-core/internal/media"
)

// Info is what a probe learned about a file. Zero fields are unknown.
type Info struct {
	FPS        float64 `json:"fps"`
	FrameCount int     `json:"frameCount,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Codec      string  `json:"codec,omitempty"`
}

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffprobe error: %w - %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Prober reads frame rate and frame count with ffprobe.
type Prober struct {
	path    string
	timeout time.Duration
	runner  Runner
	local   bool
}

// New creates a Prober from settings. A nil runner executes ffprobe, which
// only ever sees existing regular files.
func New(settings config.ProbeSettings, runner Runner) *Prober {
	local := runner == nil
	if local {
		runner = execRunner{}
	}
	path := settings.FFprobePath
	if path == "" {
		path = "ffprobe"
	}
	return &Prober{path: path, timeout: settings.Timeout, runner: runner, local: local}
}

// CheckPath refuses inputs ffprobe would read as an option or a protocol
// URL.
func CheckPath(file string) error {
	switch {
	case file == "":
		return fault.Unsupported("probe", "empty path")
	case strings.HasPrefix(file, "-"):
		return fault.Unsupported("probe", fmt.Sprintf("path %q looks like an option", file))
	case strings.Contains(file, "://"):
		return fault.Unsupported("probe", fmt.Sprintf("path %q is a URL", file))
	}
	return nil
}

// Probe inspects the first video stream of file.
func (p *Prober) Probe(ctx context.Context, file string) (Info, error) {
	if err := CheckPath(file); err != nil {
		return Info{}, err
	}
	if p.local {
		if _, err := filesystem.StatFile(file); err != nil {
			return Info{}, err
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	out, err := p.runner.Run(ctx, p.path,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		"-i", file,
	)
	if err != nil {
		return Info{}, err
	}
	return Parse(out)
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Parse decodes ffprobe JSON output. The average rate wins over the base
// rate; the frame count falls back to duration*fps.
func Parse(data []byte) (Info, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "" && s.CodecType != "video" {
			continue
		}
		info := Info{Width: s.Width, Height: s.Height, Codec: s.CodecName}

		fps, ok := media.ParseFrameRate(s.AvgFrameRate)
		if !ok {
			fps, ok = media.ParseFrameRate(s.RFrameRate)
		}
		if !ok {
			return Info{}, fmt.Errorf("no usable frame rate (avg %q, r %q)", s.AvgFrameRate, s.RFrameRate)
		}
		info.FPS = fps

		info.Duration = parseSeconds(s.Duration)
		if info.Duration == 0 {
			info.Duration = parseSeconds(out.Format.Duration)
		}

		if n, err := strconv.Atoi(strings.TrimSpace(s.NbFrames)); err == nil && n > 0 {
			info.FrameCount = n
		} else if n, ok := media.FramesForDuration(info.Duration, fps); ok {
			info.FrameCount = n
		}
		return info, nil
	}
	return Info{}, fmt.Errorf("no video stream")
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
