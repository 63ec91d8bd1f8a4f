package cli

import "errors"

var (
	ErrEmptyInput  = errors.New("empty input")
	ErrNotLoggedIn = errors.New("not logged in, use 'login' first")
)
