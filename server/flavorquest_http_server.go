package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

type FlavorQuestHttpServer struct {
	router          *Router
	addr            string
	shutdownTimeout time.Duration
}

func NewFlavorQuestHttpServer(router *Router, addr string, shutdownTimeout time.Duration) *FlavorQuestHttpServer {
	return &FlavorQuestHttpServer{
		router:          router,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
	}
}

// Start registers the routes and serves until ctx is cancelled, then shuts
// down gracefully.
func (s *FlavorQuestHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[HttpServer] Starting server on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[HttpServer] Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("[HttpServer] Server exiting")
	return nil
}
