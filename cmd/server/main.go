package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"doctalkie/internal/bootstrap"
	"doctalkie/internal/pkg/logger"
	httptransport "doctalkie/internal/transport/http"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("bootstrap failed")
	}
	log := logger.New("server")
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Error("close resources failed")
		}
	}()

	cfg := app.Config
	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.App.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.App.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	waitForShutdown(server, time.Duration(cfg.App.ShutdownTimeoutSeconds)*time.Second, log)
}

func waitForShutdown(server *http.Server, timeout time.Duration, log *logrus.Entry) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}
