package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

var errAlreadyWatching = errors.New("already watching")

// Watch subscribes in the background and prints every incident list the
// server pushes until Unwatch is called or the server goes away.
func (a *App) Watch(ctx context.Context) error {
	a.mu.Lock()
	if a.stopWatch != nil {
		a.mu.Unlock()
		return a.report("Watch", errAlreadyWatching)
	}
	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.stopWatch = cancel
	a.watchDone = done
	a.mu.Unlock()

	a.println("Watching for changes (type 'unwatch' to stop)")

	go func() {
		defer close(done)
		first := true
		err := a.client.Subscribe(wctx, func(incidents []models.Incident) {
			if first {
				first = false
				return
			}
			a.println("Incidents changed:")
			a.show(incidents)
		})

		a.mu.Lock()
		if a.watchDone == done {
			a.stopWatch = nil
			a.watchDone = nil
		}
		a.mu.Unlock()
		cancel()

		if err != nil {
			a.report("Watch", err)
		}
	}()
	return nil
}

// Unwatch stops a running Watch and waits for it to finish. It is a no-op
// when nothing is being watched.
func (a *App) Unwatch(context.Context) error {
	a.mu.Lock()
	cancel, done := a.stopWatch, a.watchDone
	a.stopWatch, a.watchDone = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	a.println("Stopped watching")
	return nil
}
