package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, storage, routes, and server lifecycle.
type Application struct {
	cfg     config.Application
	deps    *Dependencies
	handler http.Handler
	srv     *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	deps, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newApplication(cfg, deps), nil
}

func newApplication(cfg config.Application, deps *Dependencies) *Application {
	r := mux.NewRouter()
	RegisterRoutes(r, deps)
	handler := SetupMiddleware(r)

	srv := &http.Server{
		Handler:      handler,
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, handler: handler, srv: srv}
}

func (a *Application) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled, then shuts the server down and closes the store.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := a.deps.Close(); closeErr != nil {
		log.Errorf("failed to release resources: %v", closeErr)
	}
	return err
}
