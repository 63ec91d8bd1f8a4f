// Package client talks to the incident keeper server.
//
// # Overview
//
// Every request opens its own TCP connection, writes one line, reads one
// reply and closes. Subscribe is the exception: it keeps its connection and
// delivers the initial incident list and every later push to a callback.
//
// # Error Handling
//
// A "fail" reply is returned as *ServerError, which matches
// common.ErrRejected with errors.Is. Dial failures match ErrUnavailable.
package client
