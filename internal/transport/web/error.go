package web

import "errors"

var (
	ErrPanic     = errors.New("handler panicked")
	ErrNoSession = errors.New("no package wizard session, start one first")
)
