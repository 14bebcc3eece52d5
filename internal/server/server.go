// Package server is the HTTP data provider behind the catalog gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/starfolk/internal/seed"
	"github.com/jask/starfolk/internal/store"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

type Config struct {
	Addr     string
	SeedPath string
	// Watch reloads the seed file whenever it changes on disk.
	Watch             bool
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type Server struct {
	cfg   Config
	store *store.Store
	log   *zap.Logger
	http  *http.Server

	reloadMu sync.Mutex
}

func New(cfg Config, st *store.Store, log *zap.Logger) (*Server, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if cfg.SeedPath == "" {
		return nil, errors.New("seed path is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{cfg: cfg, store: st, log: log}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	return s, nil
}

// Reload reads the seed file and replaces the stored catalog. A seed that
// fails to load leaves the current catalog untouched.
func (s *Server) Reload(ctx context.Context) (int, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	chars, err := seed.Load(s.cfg.SeedPath)
	if err != nil {
		return 0, err
	}
	n, err := s.store.Replace(ctx, chars)
	if err != nil {
		return 0, fmt.Errorf("store catalog: %w", err)
	}
	s.log.Info("loaded characters", zap.Int("count", n), zap.String("path", s.cfg.SeedPath))
	return n, nil
}

// ListenAndServe listens on the configured address and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("api server listening", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("api server stopped")
		return nil
	})
	if s.cfg.Watch {
		g.Go(func() error { return s.watchSeed(gctx) })
	}
	return g.Wait()
}
