package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "FusionGate/internal/domain/repository"
	"FusionGate/internal/handler/api"
	"FusionGate/internal/usecase"
	"FusionGate/pkg/config"
	xhttp "FusionGate/pkg/http"
	pkgkafka "FusionGate/pkg/kafka"
	applogger "FusionGate/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	collector  *usecase.FeedCollector
	runner     *usecase.Runner
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	handler    *api.PipelineEchoHandler
	publisher  domrepo.TriggerPublisher
	store      domrepo.StateStore
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.FeedCollector,
	runner *usecase.Runner,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaPerfHandler,
	handler *api.PipelineEchoHandler,
	publisher domrepo.TriggerPublisher,
	store domrepo.StateStore,
) *App {
	a := &App{
		cfg:       cfg,
		log:       log,
		collector: collector,
		runner:    runner,
		consumer:  consumer,
		handler:   handler,
		publisher: publisher,
		store:     store,
	}
	if kh != nil {
		a.kh = kh
	}
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start feed collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			a.log.Error("feed collector error", applogger.Error(err))
		}
	}()
	a.log.Info("feed collector started", applogger.String("mode", a.cfg.Feed.Mode))

	// Start evaluation loop
	a.runner.Start(ctx)
	a.log.Info("evaluation loop started", applogger.Duration("tick", a.cfg.Pipeline.TickInterval))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.runner.Stop()

	if err := a.collector.Shutdown(ctx); err != nil {
		a.log.Warn("feed collector stop error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("trigger publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("state store close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
