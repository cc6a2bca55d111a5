package confirm

import (
	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/calendar"
)

// Form is what the traveller filled in on the confirmation screen for a package
// they picked earlier.
type Form struct {
	PackageID      string        `json:"package_id"`
	PackageTitle   string        `json:"package_title"`
	Location       string        `json:"location"`
	Image          string        `json:"image"`
	PricePerPerson float64       `json:"price_per_person"`
	From           string        `json:"from"`
	StartDate      calendar.Date `json:"start_date"`
	EndDate        calendar.Date `json:"end_date"`
	Travelers      int           `json:"travelers"`
}

type Quote struct {
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"total_price"`
}

// Request is handed to the submitter once the form is valid.
type Request struct {
	Form  Form  `json:"form"`
	Quote Quote `json:"quote"`
}

type Result struct {
	Booking  booking.Record `json:"booking"`
	Quote    Quote          `json:"quote"`
	Redirect string         `json:"redirect"`
}
