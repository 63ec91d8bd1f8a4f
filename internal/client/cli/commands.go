package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/incidentkeeper/internal/client/client"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

// report prints err in a form suited to the user and returns it unchanged.
func (a *App) report(action string, err error) error {
	switch {
	case client.IsRejected(err):
		a.println(fmt.Sprintf("%s rejected: %s", action, err.Error()))
	case errors.Is(err, client.ErrUnavailable):
		a.println(fmt.Sprintf("%s failed: server unavailable (%s)", action, a.config.ServerEndpointAddr))
	default:
		a.println(fmt.Sprintf("%s failed: %s", action, err.Error()))
	}
	return err
}

func (a *App) show(incidents []models.Incident) {
	a.println(renderIncidents(incidents))
}

func (a *App) Login(ctx context.Context) error {
	userName, err := GetRequiredText(a.reader, "Enter username", a.out)
	if err != nil {
		return a.report("Login", err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.report("Login", err)
	}

	incidents, err := a.client.Login(ctx, userName, password)
	if err != nil {
		return a.report("Login", err)
	}

	a.userName = userName
	a.password = password
	a.println("Login successful")
	a.show(incidents)
	return nil
}

// List fetches the current incidents. The protocol has no read request, so
// this repeats the login with the stored credentials.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("List", ErrNotLoggedIn)
	}

	incidents, err := a.client.Login(ctx, a.userName, a.password)
	if err != nil {
		return a.report("List", err)
	}
	a.show(incidents)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("Add", ErrNotLoggedIn)
	}

	location, err := GetRequiredText(a.reader, "Location", a.out)
	if err != nil {
		return a.report("Add", err)
	}
	description, err := GetRequiredText(a.reader, "What happened?", a.out)
	if err != nil {
		return a.report("Add", err)
	}

	incidents, err := a.client.AddIncident(ctx, a.userName, location, description)
	if err != nil {
		return a.report("Add", err)
	}
	a.show(incidents)
	return nil
}

func (a *App) Update(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("Update", ErrNotLoggedIn)
	}

	id, err := GetRequiredText(a.reader, "Enter incident id to update", a.out)
	if err != nil {
		return a.report("Update", err)
	}
	location, err := GetRequiredText(a.reader, "Location", a.out)
	if err != nil {
		return a.report("Update", err)
	}
	description, err := GetRequiredText(a.reader, "What happened?", a.out)
	if err != nil {
		return a.report("Update", err)
	}

	incidents, err := a.client.UpdateIncident(ctx, id, a.userName, location, description)
	if err != nil {
		return a.report("Update", err)
	}
	a.show(incidents)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("Delete", ErrNotLoggedIn)
	}

	id, err := GetRequiredText(a.reader, "Enter incident id to delete", a.out)
	if err != nil {
		return a.report("Delete", err)
	}

	incidents, err := a.client.DeleteIncident(ctx, id)
	if err != nil {
		return a.report("Delete", err)
	}
	a.show(incidents)
	return nil
}
