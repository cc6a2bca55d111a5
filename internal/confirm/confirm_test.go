package confirm

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/calendar"
	"github.com/avstrong/wandernest/internal/events"
	"github.com/avstrong/wandernest/internal/idgen/stamped"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/validation"
)

var errGateway = errors.New("gateway timeout")

type stubSubmitter struct {
	err error
	got []Request
}

func (s *stubSubmitter) SubmitPackageBooking(_ context.Context, req Request) error {
	s.got = append(s.got, req)

	return s.err
}

type noBookings struct{}

func (noBookings) FetchBookings(context.Context, booking.Type) ([]booking.Record, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(log.New(io.Discard, "", 0))
}

func validForm() Form {
	return Form{
		PackageID:      "pkg-7",
		PackageTitle:   "Sundarbans Explorer",
		Location:       "Khulna",
		Image:          "https://img.example/sundarbans.jpg",
		PricePerPerson: 4500,
		From:           "Dhaka",
		StartDate:      calendar.Date{Year: 2025, Month: time.March, Day: 1},
		EndDate:        calendar.Date{Year: 2025, Month: time.March, Day: 4},
		Travelers:      3,
	}
}

func newFixture(sub submitter) (*Flow, *booking.Store, *events.Bus) {
	l := testLogger()
	bus := events.New(l)
	store := booking.New(l, noBookings{}, stamped.New("booking"), bus)

	return New(l, store, sub), store, bus
}

func TestFlow_Confirm_AddsConfirmedPackage(t *testing.T) {
	// Setup
	sub := &stubSubmitter{}
	flow, store, bus := newFixture(sub)

	var announced []string

	bus.Subscribe(booking.SuccessEventName, func(ev events.Event) {
		announced = append(announced, ev.(booking.SuccessEvent).Message)
	})

	// Execute
	res, err := flow.Confirm(context.Background(), validForm())

	// Verify
	require.NoError(t, err)
	assert.Equal(t, DashboardPath, res.Redirect)
	assert.Equal(t, Quote{Nights: 3, TotalPrice: 13500}, res.Quote)

	bookings := store.Bookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, booking.TypePackage, bookings[0].Type)
	assert.Equal(t, booking.StatusConfirmed, bookings[0].Status)
	assert.InDelta(t, 13500.0, bookings[0].Price, 0.0001)
	assert.Equal(t, "https://img.example/sundarbans.jpg", bookings[0].Image)
	assert.Equal(t, 3, bookings[0].Travelers)

	assert.Equal(t, []string{"Sundarbans Explorer booked successfully!"}, announced)
	require.Len(t, sub.got, 1)
	assert.Equal(t, 3, sub.got[0].Quote.Nights)
	assert.Empty(t, flow.Err())
	assert.False(t, flow.Submitting())
}

func TestFlow_Confirm_SubmissionFailureAddsNothing(t *testing.T) {
	flow, store, _ := newFixture(&stubSubmitter{err: errGateway})

	_, err := flow.Confirm(context.Background(), validForm())

	require.ErrorIs(t, err, errGateway)
	assert.Empty(t, store.Bookings())
	assert.Equal(t, "Failed to confirm booking. Please try again.", flow.Err())
}

func TestFlow_Confirm_ValidationErrors(t *testing.T) {
	sub := &stubSubmitter{}
	flow, store, _ := newFixture(sub)

	form := validForm()
	form.From = ""
	form.EndDate = calendar.Date{}
	form.Travelers = 0

	_, err := flow.Confirm(context.Background(), form)

	inputErr := validation.IsInputError(err)
	require.NotNil(t, inputErr)
	assert.ElementsMatch(t, []string{"from", "end_date", "travelers"}, keys(inputErr.Fields()))
	assert.Empty(t, sub.got)
	assert.Empty(t, store.Bookings())
	assert.NotEmpty(t, flow.Err())
}

func TestQuoteFor_NeverNegativeNights(t *testing.T) {
	form := validForm()
	form.StartDate, form.EndDate = form.EndDate, form.StartDate

	q := QuoteFor(form)

	assert.Zero(t, q.Nights)
	assert.InDelta(t, 13500.0, q.TotalPrice, 0.0001)
}

func TestSimulatedSubmitter(t *testing.T) {
	require.NoError(t, SimulatedSubmitter{Delay: time.Millisecond}.SubmitPackageBooking(context.Background(), Request{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SimulatedSubmitter{Delay: time.Hour}.SubmitPackageBooking(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
