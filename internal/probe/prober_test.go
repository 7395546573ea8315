package probe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"media-viewer-core/internal/config"
	"media-viewer-core/internal/fault"
)

const ntscOutput = `{
  "streams": [{
    "codec_type": "video",
    "codec_name": "h264",
    "width": 1920,
    "height": 1080,
    "r_frame_rate": "30000/1001",
    "avg_frame_rate": "30000/1001",
    "nb_frames": "1798",
    "duration": "60.000000"
  }],
  "format": {"duration": "60.010000"}
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantFPS    float64
		wantFrames int
		wantErr    bool
	}{
		{name: "ntsc with nb_frames", input: ntscOutput, wantFPS: 30000.0 / 1001, wantFrames: 1798},
		{
			name:       "avg rate unknown falls back to base rate",
			input:      `{"streams":[{"codec_type":"video","r_frame_rate":"25/1","avg_frame_rate":"0/0","duration":"4"}]}`,
			wantFPS:    25,
			wantFrames: 100,
		},
		{
			name:       "duration from format",
			input:      `{"streams":[{"codec_type":"video","avg_frame_rate":"24"}],"format":{"duration":"2.5"}}`,
			wantFPS:    24,
			wantFrames: 60,
		},
		{
			name:    "audio only",
			input:   `{"streams":[{"codec_type":"audio","codec_name":"aac"}]}`,
			wantErr: true,
		},
		{
			name:    "no rate",
			input:   `{"streams":[{"codec_type":"video","r_frame_rate":"0/0","avg_frame_rate":"0/0"}]}`,
			wantErr: true,
		},
		{name: "garbage", input: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %+v", info)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(info.FPS-tt.wantFPS) > 1e-9 {
				t.Errorf("Expected fps %v, got %v", tt.wantFPS, info.FPS)
			}
			if info.FrameCount != tt.wantFrames {
				t.Errorf("Expected %d frames, got %d", tt.wantFrames, info.FrameCount)
			}
		})
	}
}

func TestProberRunsFFprobe(t *testing.T) {
	var gotName string
	var gotArgs []string
	var hadDeadline bool
	runner := RunnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		_, hadDeadline = ctx.Deadline()
		return []byte(ntscOutput), nil
	})

	p := New(config.ProbeSettings{FFprobePath: "/opt/ffprobe", Timeout: time.Second}, runner)
	info, err := p.Probe(context.Background(), "/media/clip.mp4")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotName != "/opt/ffprobe" {
		t.Errorf("Expected configured binary, got %q", gotName)
	}
	if n := len(gotArgs); n < 2 || gotArgs[n-2] != "-i" || gotArgs[n-1] != "/media/clip.mp4" {
		t.Errorf("Expected file passed with -i, got %v", gotArgs)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), "-print_format json") {
		t.Errorf("Expected JSON output requested, got %v", gotArgs)
	}
	if !hadDeadline {
		t.Error("Expected probe timeout applied")
	}
	if info.Width != 1920 || info.Codec != "h264" {
		t.Errorf("Expected stream details, got %+v", info)
	}
}

func TestProberPropagatesRunnerError(t *testing.T) {
	boom := errors.New("exit status 1")
	p := New(config.ProbeSettings{}, RunnerFunc(func(context.Context, string, ...string) ([]byte, error) {
		return nil, boom
	}))
	if _, err := p.Probe(context.Background(), "x.mp4"); !errors.Is(err, boom) {
		t.Errorf("Expected runner error, got %v", err)
	}
	if p.path != "ffprobe" {
		t.Errorf("Expected default binary, got %q", p.path)
	}
}

func TestProberRejectsUnsafePaths(t *testing.T) {
	ran := false
	p := New(config.ProbeSettings{}, RunnerFunc(func(context.Context, string, ...string) ([]byte, error) {
		ran = true
		return []byte(ntscOutput), nil
	}))

	for _, path := range []string{"", "-version", "-i/etc/passwd", "http://example.com/a.mp4", "concat:a|b://x", "file:///etc/passwd"} {
		t.Run(path, func(t *testing.T) {
			if _, err := p.Probe(context.Background(), path); !errors.Is(err, fault.ErrUnsupported) {
				t.Errorf("Expected ErrUnsupported for %q, got %v", path, err)
			}
		})
	}
	if ran {
		t.Error("Expected ffprobe not to run for rejected paths")
	}

	if err := CheckPath("./-clip.mp4"); err != nil {
		t.Errorf("Expected relative path to pass, got %v", err)
	}
}

func TestLocalProberChecksFile(t *testing.T) {
	dir := t.TempDir()
	p := New(config.ProbeSettings{FFprobePath: filepath.Join(dir, "no-ffprobe")}, nil)

	if _, err := p.Probe(context.Background(), filepath.Join(dir, "missing.mp4")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error before running ffprobe, got %v", err)
	}
	if _, err := p.Probe(context.Background(), dir); err == nil || !strings.Contains(err.Error(), "not a regular file") {
		t.Errorf("Expected directory to be refused, got %v", err)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(0)
	if _, ok := c.Get("a"); ok {
		t.Fatal("Expected empty cache")
	}
	c.Set("a", Info{FPS: 24})
	info, ok := c.Get("a")
	if !ok || info.FPS != 24 {
		t.Errorf("Expected cached 24 fps, got %+v (%v)", info, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
	c.Forget("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Expected entry forgotten")
	}
}
