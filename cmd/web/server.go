package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
)

// configureAndStartServer blocks until the server is shut down with an
// interrupt signal or the context is cancelled.
func (app *application) configureAndStartServer(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.routes(),
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	shutdownComplete := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigint:
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "failed to shutdown server", errors.SlogError(err))
		}
		close(shutdownComplete)
	}()

	// Listen separately from Serve so that the resolved address is known
	// before the first request. Tests bind to port 0 and read it from the log.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "listen", slog.String("addr", addr))
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))

	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	<-shutdownComplete
	app.logger.LogAttrs(ctx, slog.LevelInfo, "server shutdown complete")
	return nil
}
