package wizard

import "errors"

var (
	ErrUnknownCategory = errors.New("unknown add-on category")
	ErrTravelersRange  = errors.New("travelers must be between 0 and 20")
	ErrNotSubmittable  = errors.New("package form is incomplete")
	ErrCatalogs        = errors.New("option catalogs unavailable")
	ErrClosed          = errors.New("wizard session already submitted")
	ErrInFlight        = errors.New("package submission already in progress")
)
