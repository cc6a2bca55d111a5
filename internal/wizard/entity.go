package wizard

import (
	"github.com/avstrong/wandernest/internal/calendar"
)

type Option struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

type Preferences struct {
	SkipTransport bool `json:"skip_transport"`
	SkipHotel     bool `json:"skip_hotel"`
	SkipVehicle   bool `json:"skip_vehicle"`
	SkipGuide     bool `json:"skip_guide"`
}

// PackageCreationRequest is the body of the package-creation call.
type PackageCreationRequest struct {
	Title          string      `json:"title" validate:"required"`
	FromLocation   string      `json:"from_location" validate:"required"`
	ToLocation     string      `json:"to_location" validate:"required"`
	StartDate      string      `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string      `json:"end_date" validate:"required,datetime=2006-01-02"`
	TravelersCount int         `json:"travelers_count" validate:"min=1,max=20"`
	Budget         float64     `json:"budget" validate:"gte=0"`
	TransportID    *string     `json:"transport_id"`
	HotelID        *string     `json:"hotel_id"`
	GuideID        *string     `json:"guide_id"`
	Preferences    Preferences `json:"preferences"`
}

// CreatedPackage is the part of the backend's response the client relies on.
type CreatedPackage struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type DateField string

const (
	Start DateField = "start"
	End   DateField = "end"
)

type SelectionView struct {
	State    string `json:"state"`
	OptionID string `json:"option_id,omitempty"`
}

// State is a read-only copy of the wizard for views.
type State struct {
	From           string                     `json:"from"`
	To             string                     `json:"to"`
	StartDate      calendar.Date              `json:"start_date"`
	EndDate        calendar.Date              `json:"end_date"`
	StartMonth     calendar.Month             `json:"start_month"`
	EndMonth       calendar.Month             `json:"end_month"`
	Travelers      int                        `json:"travelers"`
	Budget         string                     `json:"budget"`
	Selections     map[Category]SelectionView `json:"selections"`
	Catalogs       map[Category][]Option      `json:"catalogs"`
	EstimatedTotal float64                    `json:"estimated_total"`
	Submittable    bool                       `json:"submittable"`
	Loading        bool                       `json:"loading"`
	Submitting     bool                       `json:"submitting"`
	Done           bool                       `json:"done"`
	Error          string                     `json:"error,omitempty"`
}
