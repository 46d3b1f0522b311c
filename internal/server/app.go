// Package server initializes and runs the development backend: an in-memory
// implementation of the fridge REST API for local runs of the client. It
// configures logging, handles graceful shutdown and optionally exposes
// Prometheus metrics.
package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/fridgekeeper/internal/fakeapi"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
	"github.com/dmitrijs2005/fridgekeeper/internal/server/config"
)

type App struct {
	config *config.Config
	logger logging.Logger
	closer io.Closer
	api    *fakeapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger, closer := logging.New(logging.Options{
		Backend: c.LogBackend,
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Output:  os.Stdout,
	})

	opts := []fakeapi.Option{
		fakeapi.WithSecret(c.SecretKey),
		fakeapi.WithTokenTTL(c.TokenTTL),
		fakeapi.WithFavoriteMethods(c.FavoriteMethods...),
		fakeapi.WithLogger(logger),
	}
	if !c.BatchEcho {
		opts = append(opts, fakeapi.WithoutBatchEcho())
	}
	api := fakeapi.New(opts...)
	if c.Metrics {
		api.Handle(http.MethodGet, "/metrics", promhttp.Handler())
	}

	return &App{config: c, logger: logger, closer: closer, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is canceled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.closer.Close()

	app.logger.Info(ctx, "starting dev backend",
		"addr", app.config.Addr,
		"favorite_methods", app.config.FavoriteMethods,
		"batch_echo", app.config.BatchEcho,
	)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.api.Run(ctx, app.config.Addr); err != nil {
			app.logger.Error(ctx, "server stopped", "err", err)
			runErr = err
			cancelFunc()
		}
	}()
	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "dev backend stopped")
	return runErr
}
