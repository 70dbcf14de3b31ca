// Package server exposes the tracker to browser clients over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc"
)

// Server serves one workbook. Submissions are applied one at a time; reads
// load a fresh copy per request, collapsing concurrent loads into one.
type Server struct {
	tracker   *testdoc.Tracker
	path      string
	maxUpload int64
	logger    *zap.Logger

	// mu serializes submissions within this process.
	mu    sync.Mutex
	loads singleflight.Group

	lastMu sync.RWMutex
	last   []byte
}

// Config configures a Server.
type Config struct {
	// Path is the local workbook. When the tracker has no remote store it
	// is read for every request and rewritten after every submission.
	Path string
	// MaxUploadBytes bounds a multipart submission.
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// New returns a Server submitting through tracker.
func New(tracker *testdoc.Tracker, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return &Server{
		tracker:   tracker,
		path:      cfg.Path,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// load returns the current workbook bytes from the remote store when one is
// configured, otherwise from the local file.
func (s *Server) load(ctx context.Context) ([]byte, error) {
	v, err, shared := s.loads.Do("workbook", func() (interface{}, error) {
		if s.tracker.HasStore() {
			file, err := s.tracker.Load(ctx)
			if err != nil {
				return nil, err
			}
			return file.Content, nil
		}
		data, err := os.ReadFile(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", testdoc.ErrWorkbookNotFound, s.path)
		}
		return data, err
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("shared workbook load")
	}
	return v.([]byte), nil
}

// submit applies sub under the submission lock and keeps the resulting bytes
// for download.
func (s *Server) submit(ctx context.Context, sub testdoc.Submission) (*testdoc.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		res *testdoc.Result
		err error
	)
	if s.tracker.HasStore() {
		res, err = s.tracker.SubmitRemote(ctx, sub)
	} else {
		var data []byte
		data, err = s.load(ctx)
		if err != nil {
			return nil, err
		}
		res, err = s.tracker.Submit(ctx, data, sub)
	}
	if res == nil {
		return nil, err
	}

	s.lastMu.Lock()
	s.last = res.Workbook
	s.lastMu.Unlock()

	if !s.tracker.HasStore() && s.path != "" {
		if werr := os.WriteFile(s.path, res.Workbook, 0o644); werr != nil {
			return res, fmt.Errorf("save workbook: %w", werr)
		}
	}
	return res, err
}

// lastWorkbook returns the bytes of the most recent submission, if any.
func (s *Server) lastWorkbook() []byte {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
