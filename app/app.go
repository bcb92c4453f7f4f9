package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"blogd/app/blog"
	"blogd/app/config"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server
	manager   *blog.Manager
	conf      *config.Config
	log       *logrus.Logger
}

func NewApp(conf *config.Config, router *mux.Router, manager *blog.Manager, log *logrus.Logger) *App {
	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		manager: manager,
		conf:    conf,
		log:     log,
	}
}

// Run starts every blog and serves HTTP until ctx is cancelled or the
// process receives SIGINT or SIGTERM. Blogs are stopped before returning.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Infof("Starting %s", a.conf.AppName)
	if err := a.manager.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.manager.StopAll(); err != nil {
			a.log.WithError(err).Error("failed to stop blogs")
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		a.log.Infof("Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.WebServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.log.Info("Server stopped")
	return nil
}
