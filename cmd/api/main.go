package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomz197/mathblaster/internal/api"
	"github.com/tomz197/mathblaster/internal/config"
	"github.com/tomz197/mathblaster/internal/logging"
	"github.com/tomz197/mathblaster/internal/practice"
	"github.com/tomz197/mathblaster/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := config.Load("."); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	settings := config.Current()
	logger := logging.New(os.Stderr, settings.LogLevel)

	store, err := storage.OpenSQLite(settings.SQLitePath)
	if err != nil {
		logger.Fatal("failed to open database", "path", settings.SQLitePath, "err", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              settings.APIListen,
		Handler:           api.NewServer(store, practice.NewLocalGenerator(0), logging.Component(logger, "api")).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api server listening", "addr", settings.APIListen, "db", settings.SQLitePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("api server stopped", "err", err)
		os.Exit(1)
	}
}
