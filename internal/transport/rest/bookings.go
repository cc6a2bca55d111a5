package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/calendar"
)

var bookingPaths = map[booking.Type]string{
	booking.TypeHotel:   "/api/bookings/hotels",
	booking.TypePackage: "/api/bookings/packages",
	booking.TypeTrip:    "/api/bookings/trips",
}

// flexID accepts ids sent as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}

		*f = flexID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}

	*f = flexID(n.String())

	return nil
}

// remoteBooking is the loose shape the three booking collections share. The hotel
// collection names its dates check_in/check_out and its headcount guests.
type remoteBooking struct {
	ID         flexID        `json:"id"`
	Title      string        `json:"title"`
	Name       string        `json:"name"`
	Location   string        `json:"location"`
	StartDate  calendar.Date `json:"start_date"`
	EndDate    calendar.Date `json:"end_date"`
	CheckIn    calendar.Date `json:"check_in"`
	CheckOut   calendar.Date `json:"check_out"`
	Price      float64       `json:"price"`
	TotalPrice float64       `json:"total_price"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	Travelers  int           `json:"travelers"`
	Guests     int           `json:"guests"`
	Image      string        `json:"image"`
}

func (r remoteBooking) record(t booking.Type) booking.Record {
	rec := booking.Record{
		ID:        string(r.ID),
		Type:      t,
		Title:     firstNonEmpty(r.Title, r.Name),
		Location:  r.Location,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Price:     r.Price,
		Status:    booking.Status(r.Status),
		CreatedAt: r.CreatedAt,
		Travelers: r.Travelers,
		Image:     r.Image,
	}

	if rec.StartDate.IsZero() {
		rec.StartDate = r.CheckIn
	}

	if rec.EndDate.IsZero() {
		rec.EndDate = r.CheckOut
	}

	if rec.Price == 0 {
		rec.Price = r.TotalPrice
	}

	if rec.Travelers == 0 {
		rec.Travelers = r.Guests
	}

	if !rec.Status.Valid() {
		rec.Status = booking.StatusPending
	}

	if rec.ID == "" {
		rec.ID = string(t) + "_" + strconv.FormatInt(r.CreatedAt.UnixMilli(), 10)
	}

	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func (c *Client) FetchBookings(ctx context.Context, t booking.Type) ([]booking.Record, error) {
	path, ok := bookingPaths[t]
	if !ok {
		return nil, fmt.Errorf("%q: %w", t, booking.ErrUnknownType)
	}

	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	items, err := decodeList[remoteBooking](raw)
	if err != nil {
		return nil, fmt.Errorf("%s bookings: %w", t, err)
	}

	records := make([]booking.Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.record(t))
	}

	return records, nil
}
