package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbolis/tichi-survey/app"
	"github.com/mbolis/tichi-survey/config"
	"github.com/mbolis/tichi-survey/database"
	"github.com/mbolis/tichi-survey/log"
	"github.com/mbolis/tichi-survey/routes"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.WithField("db_url", cfg.MaskedDBUrl()).Fatal("main.db.open: ", err)
	}
	defer store.Close()
	log.WithField("db_url", cfg.MaskedDBUrl()).Info("Store opened")

	handler := routes.Wire(app.New(store, cfg))

	err = runServer(ctx, cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
	log.Info("Server stopped")
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdown := make(chan struct{})
	go func() {
		defer close(shutdown)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("main.server.shutdown")
		}
	}()

	log.WithFields(log.Fields{
		"debug": cfg.Debug,
	}).Info("Listening on " + cfg.Url())
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// let in-flight submissions finish before the store is closed
		<-shutdown
	}
	return err
}
