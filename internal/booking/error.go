package booking

import (
	"errors"
)

var (
	ErrInvalidStatus = errors.New("invalid booking status")
	ErrUnknownType   = errors.New("unknown booking type")
)
