package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/api/handlers"
	"github.com/linesmerrill/dispatch-console/config"
)

func main() {
	conf, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	defer zap.L().Sync()

	a := handlers.App{}
	a.Config = *conf

	if err := a.Initialize(); err != nil { //initialize countdown store and router
		zap.S().Fatalw("failed to initialize", "error", err)
	}
	a.Scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", conf.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infow("dispatch-console is up and running",
			"port", conf.Port,
			"url", conf.BaseURL,
			"store", conf.Store,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.Scheduler.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorw("failed to shut down server", "error", err)
	}
	if err := a.Close(ctx); err != nil {
		zap.S().Errorw("failed to close app", "error", err)
	}
	zap.S().Info("dispatch-console stopped")
}
