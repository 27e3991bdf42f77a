package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/cyclopcam/keyframes/pkg/overlay"
	"github.com/cyclopcam/keyframes/pkg/source"
	"github.com/cyclopcam/keyframes/server/config"
	"github.com/cyclopcam/logs"
)

// Server answers corpus queries and renders box overlays over HTTP
type Server struct {
	Log      logs.Log
	Config   *config.Config
	Records  source.RecordSource
	Images   source.ImageSource
	Renderer *overlay.Renderer

	// Created up front, so that a Shutdown that arrives before ListenHTTP is not lost
	httpServer *http.Server
}

// NewServer opens the configured storage, and creates the record and image sources on top of it
func NewServer(log logs.Log, cfg *config.Config) (*Server, error) {
	store, err := cfg.OpenStorage(log)
	if err != nil {
		return nil, err
	}
	s := &Server{
		Log:      log,
		Config:   cfg,
		Records:  source.NewStoredRecords(store, cfg.RecordsPrefix),
		Images:   source.NewStoredImages(store, cfg.ImagesPrefix, cfg.ImageExtension),
		Renderer: overlay.NewRenderer(log, cfg.FontPath, cfg.FontSize),
	}
	s.httpServer = &http.Server{
		Addr:    cfg.Listen,
		Handler: s.Router(),
	}
	return s, nil
}

// ListenHTTP serves the API until Shutdown is called.
// If Shutdown has already been called, ListenHTTP returns immediately.
func (s *Server) ListenHTTP() error {
	s.Log.Infof("Listening on %v", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.Log.Infof("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
