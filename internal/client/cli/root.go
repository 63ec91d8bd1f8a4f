package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName
	}
	if a.isWatching() {
		if s != "" {
			s += " "
		}
		s += "watching"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, asks for credentials and runs the REPL until the
// user exits.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to the incident keeper CLI (type 'help' for commands)")

	_ = a.Login(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}
