package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/takagi171832/paper-readings/internal/config"
	appLog "github.com/takagi171832/paper-readings/internal/log"
	"github.com/takagi171832/paper-readings/internal/render"
	"github.com/takagi171832/paper-readings/internal/report"
)

// Server exposes the built report and its underlying data over HTTP for
// previewing: the report page, the SVG artifacts, and JSON APIs.
type Server struct {
	cfg     *config.Config
	builder *report.Builder
	mux     *http.ServeMux

	// In-memory cache of computed report data, so /api/* calls do not
	// reload and recompute the dataset on every request.
	reportMu    sync.RWMutex
	reportCache *reportCache
}

type reportCache struct {
	rep       render.Report
	updatedAt time.Time
}

const reportCacheTTL = 30 * time.Second

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, builder *report.Builder) *Server {
	s := &Server{
		cfg:     cfg,
		builder: builder,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays reachable without credentials.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="paperlog", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/papers", s.handlePapers)
	s.mux.HandleFunc("/api/summary", s.handleSummary)
	s.mux.HandleFunc("/api/grid", s.handleGrid)
	s.mux.Handle("/assets/", http.StripPrefix("/assets/",
		http.FileServer(http.Dir(s.cfg.Assets))))
	s.mux.HandleFunc("/", s.handleIndex)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// loadReport returns the cached report data, recomputing it when stale.
func (s *Server) loadReport(ctx context.Context) (render.Report, error) {
	now := time.Now()

	s.reportMu.RLock()
	rc := s.reportCache
	s.reportMu.RUnlock()
	if rc != nil && now.Sub(rc.updatedAt) < reportCacheTTL {
		return rc.rep, nil
	}

	rep, err := s.builder.Load(ctx)
	if err != nil {
		return render.Report{}, err
	}

	s.reportMu.Lock()
	s.reportCache = &reportCache{rep: rep, updatedAt: time.Now()}
	s.reportMu.Unlock()

	return rep, nil
}

func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	rep, err := s.loadReport(r.Context())
	if err != nil {
		appLog.Error("papers handler failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":  rep.Total,
		"recent": rep.Recent,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, err := s.loadReport(r.Context())
	if err != nil {
		appLog.Error("summary handler failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":      rep.Total,
		"in_window":  rep.Grid.Total,
		"categories": rep.Counts,
	})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	rep, err := s.loadReport(r.Context())
	if err != nil {
		appLog.Error("grid handler failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}
	writeJSON(w, http.StatusOK, rep.Grid)
}

// handleIndex serves the report page. The root element carries
// data-ready="true" once content is in place; the capture helper waits
// for that attribute before taking its screenshot.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	rep, err := s.loadReport(r.Context())
	if err != nil {
		appLog.Error("index handler failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<html>
<head><meta charset="utf-8"><title>paper readings</title>
<style>body{background:#212946;color:#eee;font-family:sans-serif;margin:2rem}img{display:block;margin:1rem 0;max-width:100%%}</style>
</head>
<body>
<div data-ready="true">
<h1>%d papers read in the last 12 months</h1>
<img src="/assets/%s" alt="By category">
<img src="/assets/%s" alt="Activity heatmap">
</div>
</body>
</html>
`, rep.Grid.Total, report.CategoryChartName, report.HeatmapName)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to encode JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Serve runs the preview server until ctx is canceled. A cron schedule
// (cfg.Refresh) rebuilds the artifacts and README in the background so a
// long-running preview stays current as the dataset changes.
func Serve(ctx context.Context, cfg *config.Config, builder *report.Builder) error {
	s := NewServer(cfg, builder)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Refresh, func() {
		if err := builder.Run(context.Background()); err != nil {
			appLog.Error("scheduled rebuild failed", err)
			return
		}
		// Drop the cache so the next request reflects the rebuild.
		s.reportMu.Lock()
		s.reportCache = nil
		s.reportMu.Unlock()
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", cfg.Refresh, err)
	}
	c.Start()
	defer c.Stop()

	// Bind synchronously so a bad listen address fails here, not in the
	// serving goroutine.
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %q: %w", cfg.Listen, err)
	}
	srv := &http.Server{
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String(), "refresh", cfg.Refresh)
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
