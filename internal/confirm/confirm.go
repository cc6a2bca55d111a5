package confirm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/calendar"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/validation"
)

const DashboardPath = "/dashboard"

var ErrInFlight = errors.New("booking confirmation already in progress")

type store interface {
	AddBooking(draft booking.Draft) booking.Record
}

type submitter interface {
	SubmitPackageBooking(ctx context.Context, req Request) error
}

type Flow struct {
	mu         sync.Mutex
	l          *logger.Logger
	store      store
	submitter  submitter
	submitting bool
	errMsg     string
}

func New(l *logger.Logger, store store, submitter submitter) *Flow {
	//nolint:exhaustruct
	return &Flow{
		l:         l,
		store:     store,
		submitter: submitter,
	}
}

func Validate(form Form) error {
	inputErr := validation.NewInputError()

	if strings.TrimSpace(form.From) == "" {
		inputErr.Add("from", "Please enter your departure location")
	}

	if form.StartDate.IsZero() {
		inputErr.Add("start_date", "Please select a start date")
	}

	if form.EndDate.IsZero() {
		inputErr.Add("end_date", "Please select an end date")
	}

	if form.Travelers <= 0 {
		inputErr.Add("travelers", "Please enter the number of travelers")
	}

	return inputErr.OrNil()
}

func QuoteFor(form Form) Quote {
	return Quote{
		Nights:     calendar.Nights(form.StartDate, form.EndDate),
		TotalPrice: calendar.TotalPrice(form.PricePerPerson, form.Travelers),
	}
}

// Confirm submits the booking and, only once the submission succeeded, adds it to
// the store as a confirmed package.
func (f *Flow) Confirm(ctx context.Context, form Form) (Result, error) {
	if err := Validate(form); err != nil {
		f.setError(validation.IsInputError(err).Message())

		return Result{}, err
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()

		return Result{}, ErrInFlight
	}

	f.submitting = true
	f.errMsg = ""
	f.mu.Unlock()

	quote := QuoteFor(form)

	err := f.submitter.SubmitPackageBooking(ctx, Request{Form: form, Quote: quote})

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	if err != nil {
		f.setError("Failed to confirm booking. Please try again.")
		f.l.LogErrorf("Could not submit booking for %q: %v", form.PackageTitle, err.Error())

		return Result{}, fmt.Errorf("submit package booking: %w", err)
	}

	record := f.store.AddBooking(booking.Draft{
		Type:      booking.TypePackage,
		Title:     form.PackageTitle,
		Location:  form.Location,
		StartDate: form.StartDate,
		EndDate:   form.EndDate,
		Price:     quote.TotalPrice,
		Status:    booking.StatusConfirmed,
		Travelers: form.Travelers,
		Image:     form.Image,
	})

	f.l.LogInfo("Package %q confirmed as booking %s", form.PackageTitle, record.ID)

	return Result{Booking: record, Quote: quote, Redirect: DashboardPath}, nil
}

func (f *Flow) setError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errMsg = msg
}

func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.submitting
}

// Err is the message to show next to the confirm button, empty when the last
// attempt succeeded.
func (f *Flow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.errMsg
}
