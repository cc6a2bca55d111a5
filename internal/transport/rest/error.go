package rest

import (
	"errors"
	"fmt"
)

var (
	ErrBaseURL           = errors.New("invalid api base url")
	ErrUnauthorized      = errors.New("session expired, sign in again")
	ErrMalformedResponse = errors.New("malformed api response")
)

type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}
