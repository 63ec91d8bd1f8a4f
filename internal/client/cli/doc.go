// Package cli provides the interactive incident keeper command-line client.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// Commands:
//   - login    authenticate (registers the user on first login)
//   - list     show the current incidents
//   - add      report an incident
//   - update   rewrite an incident by id
//   - delete   remove an incident by id
//   - watch    print every change pushed by the server
//   - unwatch  stop watching
//   - exit     leave the program
package cli
