package main

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/publisher"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// application holds everything the router needs. It is built once in main.
type application struct {
	cfg        *config.Config
	log        *zap.Logger
	db         pinger
	authors    *author.HTTPHandler
	books      *book.HTTPHandler
	publishers *publisher.HTTPHandler
}

// serve runs the HTTP server until ctx is cancelled, then gives in-flight
// requests http.shutdownTimeout to finish.
func (app *application) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         app.cfg.HTTP.Addr,
		Handler:      app.routes(ctx),
		ReadTimeout:  app.cfg.HTTP.ReadTimeout,
		WriteTimeout: app.cfg.HTTP.WriteTimeout,
		IdleTimeout:  app.cfg.HTTP.IdleTimeout,
		ErrorLog:     zap.NewStdLog(app.log),
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		app.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	app.log.Info("starting server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}
	app.log.Info("server stopped", zap.String("addr", srv.Addr))
	return nil
}
