package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-weekend-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	webServer := server.NewServer(logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go shutdownOnDone(ctx, httpServer, logger, 5*time.Second)

	logger.Info("weekend raytracer preview server", "url", fmt.Sprintf("http://localhost:%d", *port))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownOnDone waits for ctx to end, then gives srv up to timeout to drain
func shutdownOnDone(ctx context.Context, srv shutdowner, logger *slog.Logger, timeout time.Duration) {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", "error", err)
	}
}
