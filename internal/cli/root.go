package cli

import (
	"fmt"
	"strconv"
	"strings"

	"media-viewer-core/internal/config"
	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/probe"

	"github.com/spf13/cobra"
)

var version = "dev"

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	settings *config.Settings
	store    *config.Store
	// runner executes ffprobe; nil uses the real binary.
	runner probe.Runner
}

// NewRootCommand builds the viewerctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "viewerctl",
		Short:         "Headless tools for the viewer transform and transport engine",
		Long:          `viewerctl exercises the zoom/pan model, frame-accurate transport and compare compositor without a UI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadSettings()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (YAML); VIEWER_* environment variables override it")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"override log level (debug, info, warn, error)")

	root.AddCommand(
		newFitCommand(a),
		newDiffCommand(a),
		newProbeCommand(a),
		newPlayCommand(a),
		newConfigCommand(a),
		newServeMetricsCommand(a),
	)
	return root
}

// Execute runs viewerctl with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) loadSettings() error {
	s, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		s.LogLevel = a.logLevel
	}
	if _, ok := logging.ParseLevel(s.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", s.LogLevel)
	}
	a.settings = s
	a.store = config.NewStore(s)
	a.store.Set(s)
	return nil
}

// parseSize parses "WxH", e.g. "1920x1080".
func parseSize(s string) (geometry.Size, error) {
	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		return geometry.Size{}, fmt.Errorf("invalid size %q: want WxH", s)
	}
	wf, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	hf, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	size := geometry.Size{W: wf, H: hf}
	if !size.Valid() {
		return geometry.Size{}, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return size, nil
}
