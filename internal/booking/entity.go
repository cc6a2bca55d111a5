package booking

import (
	"fmt"
	"time"

	"github.com/avstrong/wandernest/internal/calendar"
)

type Type string

const (
	TypeHotel   Type = "hotel"
	TypePackage Type = "package"
	TypeTrip    Type = "trip"
)

// Types lists the remote collections in the order a refresh concatenates them.
var Types = []Type{TypeHotel, TypePackage, TypeTrip}

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	default:
		return false
	}
}

type Record struct {
	ID        string        `json:"id"`
	Type      Type          `json:"type"`
	Title     string        `json:"title"`
	Location  string        `json:"location"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	Price     float64       `json:"price"`
	Status    Status        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	Travelers int           `json:"travelers"`
	Image     string        `json:"image,omitempty"`
}

// Draft is a booking that has not been given an id or creation time yet.
type Draft struct {
	Type      Type          `json:"type"`
	Title     string        `json:"title"`
	Location  string        `json:"location"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	Price     float64       `json:"price"`
	Status    Status        `json:"status"`
	Travelers int           `json:"travelers"`
	Image     string        `json:"image,omitempty"`
}

func (d Draft) record(id string, createdAt time.Time) Record {
	return Record{
		ID:        id,
		Type:      d.Type,
		Title:     d.Title,
		Location:  d.Location,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Price:     d.Price,
		Status:    d.Status,
		CreatedAt: createdAt,
		Travelers: d.Travelers,
		Image:     d.Image,
	}
}

const SuccessEventName = "booking-success"

// SuccessEvent is published after every optimistic add.
type SuccessEvent struct {
	Booking Record `json:"booking"`
	Message string `json:"message"`
}

func (SuccessEvent) EventName() string { return SuccessEventName }

func successMessage(title string) string {
	return fmt.Sprintf("%s booked successfully!", title)
}
