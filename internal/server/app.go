// Package server wires the incident keeper together: it opens the data
// store, connects the incidents collection to the notifier, and runs the
// socket server until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/incidentkeeper/internal/logging"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/config"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/notifier"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/services"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/socket"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *store.Store
	server *socket.Server
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, logging.NewJSON(os.Stdout, c.LogLevel))
}

func newApp(c *config.Config, logger logging.Logger) (*App, error) {
	st, err := store.New(c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	n := notifier.New[models.Incident](logger)
	st.Incidents.OnChange(n.NotifyAll)

	us := services.NewUserService(st.Users)
	is := services.NewIncidentService(st.Incidents)

	h := socket.NewHandler(us, is, n, logger, c.SubscriberBuffer)
	srv := socket.NewServer(c, logger, h)

	return &App{config: c, logger: logger, store: st, server: srv}, nil
}

// waitForSignal returns when ctx is done or the process receives SIGINT,
// SIGTERM or SIGQUIT, cancelling the group in the latter case.
func (app *App) waitForSignal(ctx context.Context, cancel context.CancelFunc) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		app.logger.Info(ctx, "Received signal", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "Starting app...",
		"users_file", app.store.Users.Path(),
		"incidents_file", app.store.Incidents.Path(),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.waitForSignal(gctx, cancel)
	})

	g.Go(func() error {
		defer cancel()
		if err := app.server.Run(gctx); err != nil {
			app.logger.Error(gctx, "socket server failed", "error", err)
			return err
		}
		return nil
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
