package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	ossignal "os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"media-viewer-core/internal/config"
	"media-viewer-core/internal/filesystem"
	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/metrics"
	"media-viewer-core/internal/probe"
	"media-viewer-core/internal/transform"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// metricsServer exposes Prometheus metrics plus small probe and fit
// endpoints that feed them.
type metricsServer struct {
	store    *config.Store
	runner   probe.Runner
	cache    *probe.Cache
	observer probe.Observer

	mu     sync.RWMutex
	prober *probe.Prober
}

func newMetricsServer(store *config.Store, runner probe.Runner) *metricsServer {
	s := store.Get()
	srv := &metricsServer{
		store:    store,
		runner:   runner,
		cache:    probe.NewCache(s.Probe.CacheTTL),
		observer: metrics.NewProbeObserver(),
		prober:   probe.New(s.Probe, runner),
	}
	return srv
}

// reload applies new settings to the probe path.
func (srv *metricsServer) reload(s *config.Settings) {
	srv.mu.Lock()
	srv.prober = probe.New(s.Probe, srv.runner)
	srv.mu.Unlock()
	logging.Info("settings reloaded")
}

func (srv *metricsServer) currentProber() *probe.Prober {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return srv.prober
}

// Stats implements metrics.StatsProvider.
func (srv *metricsServer) Stats() metrics.Stats {
	return metrics.Stats{ProbeCacheEntries: srv.cache.Len()}
}

func (srv *metricsServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/health", srv.health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/probe", srv.probe).Methods("GET").Queries("path", "{path}")
	api.HandleFunc("/fit", srv.fit).Methods("GET")
	return r
}

func (srv *metricsServer) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (srv *metricsServer) probe(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	if err := probe.CheckPath(path); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if info, ok := srv.cache.Get(path); ok {
		srv.observer.ObserveCacheHit()
		writeJSON(w, http.StatusOK, info)
		return
	}
	srv.observer.ObserveCacheMiss()

	start := time.Now()
	info, err := srv.currentProber().Probe(r.Context(), path)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		status := probe.StatusError
		if errors.Is(err, context.Canceled) {
			status = probe.StatusCancelled
		}
		srv.observer.ObserveProbe(status, elapsed)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	srv.observer.ObserveProbe(probe.StatusSuccess, elapsed)
	srv.cache.Set(path, info)
	writeJSON(w, http.StatusOK, info)
}

// fitResponse mirrors the fit subcommand output.
type fitResponse struct {
	Base     geometry.Size  `json:"base"`
	Overflow geometry.Size  `json:"overflow"`
	Zoom     float64        `json:"zoom"`
	Limits   geometry.Point `json:"limits"`
	CSS      string         `json:"transform"`
}

func (srv *metricsServer) fit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vp, err := parseSize(q.Get("viewport"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	natural, err := parseSize(q.Get("content"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	settings := srv.store.Get()
	c := transform.New(surface(geometry.Viewport{Width: vp.W, Height: vp.H}, settings.Viewport.CacheTTL),
		transform.OptionsFrom(settings.Transform))
	c.SetContent(natural, false)
	if z := q.Get("zoom"); z != "" {
		zoom, err := strconv.ParseFloat(z, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid zoom"})
			return
		}
		if err := c.SetZoom(zoom, nil); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	base, _ := c.BaseBox()
	limits, _ := c.Limits()
	writeJSON(w, http.StatusOK, fitResponse{
		Base:     base,
		Overflow: geometry.Overflow(base, vp),
		Zoom:     c.Zoom(),
		Limits:   limits,
		CSS:      c.Transform().CSS(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response: %v", err)
	}
}

func newServeMetricsCommand(a *app) *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics with probe and fit endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			metrics.InitializeMetrics()
			filesystem.SetObserver(metrics.NewFilesystemObserver())
			defer filesystem.SetObserver(nil)
			srv := newMetricsServer(a.store, a.runner)

			cancelReload := a.store.Subscribe(srv.reload)
			defer cancelReload()

			if a.cfgFile != "" {
				watcher, err := config.NewWatcher(a.cfgFile, a.store, 0)
				if err != nil {
					return err
				}
				if err := watcher.Start(); err != nil {
					return err
				}
				defer func() { _ = watcher.Stop() }()
			}

			collector := metrics.NewCollector(srv, interval)
			collector.Start()
			defer collector.Stop()

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			ctx, stop := ossignal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.Info("Metrics server listening on %s", addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logging.Info("Shutting down metrics server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9090", "listen address")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "stats collection interval")
	return cmd
}
