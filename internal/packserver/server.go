package packserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// moduleEntry is one element of the served modules.json.
type moduleEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Questions   int    `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the packs in a directory. The directory is read at startup
// and again on POST /reload.
type Server struct {
	dir    string
	log    *zap.Logger
	router *gin.Engine

	mu    sync.RWMutex
	packs map[string]Pack
	order []string
}

// New loads dir and builds the router.
func New(dir string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{dir: dir, log: logger.Named("packserver")}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/healthz", s.health)
	r.GET("/modules.json", s.modules)
	r.GET("/questions/:file", s.questions)
	r.POST("/reload", s.reload)
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reload re-reads the pack directory. On error the previous packs stay.
func (s *Server) Reload() error {
	packs, err := LoadDir(s.dir)
	if err != nil {
		return err
	}

	byName := make(map[string]Pack, len(packs))
	order := make([]string, 0, len(packs))
	for _, p := range packs {
		byName[p.Name] = p
		order = append(order, p.Name)
	}

	s.mu.Lock()
	s.packs, s.order = byName, order
	s.mu.Unlock()

	s.log.Info("packs loaded", zap.String("dir", s.dir), zap.Int("count", len(packs)))
	return nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving packs", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown pack server: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	s.mu.RLock()
	n := len(s.order)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "packs": n})
}

func (s *Server) modules(c *gin.Context) {
	base := baseURL(c.Request)

	s.mu.RLock()
	out := make([]moduleEntry, 0, len(s.order))
	for _, name := range s.order {
		p := s.packs[name]
		out = append(out, moduleEntry{
			ID:          p.Name,
			Title:       p.Title,
			URL:         base + "/questions/" + p.Name + ".json",
			Version:     p.Version,
			Description: p.Description,
			Questions:   len(p.Questions),
		})
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) questions(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("file"), ".json")

	s.mu.RLock()
	p, ok := s.packs[name]
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("pack %q not found", name)})
		return
	}
	c.JSON(http.StatusOK, p.Questions)
}

func (s *Server) reload(c *gin.Context) {
	if err := s.Reload(); err != nil {
		s.log.Warn("reload packs", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	s.health(c)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}
