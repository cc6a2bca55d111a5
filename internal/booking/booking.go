package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avstrong/wandernest/internal/events"
	"github.com/avstrong/wandernest/internal/logger"
)

type fetcher interface {
	FetchBookings(ctx context.Context, t Type) ([]Record, error)
}

type idGenerator interface {
	NewID() string
}

type publisher interface {
	Publish(ev events.Event)
}

// View is a consistent read of the store.
type View struct {
	Bookings  []Record `json:"bookings"`
	Stats     Stats    `json:"stats"`
	IsLoading bool     `json:"is_loading"`
}

// Store aggregates the signed-in user's bookings for the current session.
//
// A refresh replaces the whole list, so an optimistic record added while a refresh is
// in flight is dropped when the refresh lands unless the backend already returns it.
type Store struct {
	mu       sync.RWMutex
	l        *logger.Logger
	fetcher  fetcher
	ids      idGenerator
	events   publisher
	now      func() time.Time
	bookings []Record
	loading  int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(l *logger.Logger, fetcher fetcher, ids idGenerator, bus publisher, opts ...Option) *Store {
	//nolint:exhaustruct
	s := &Store{
		l:       l,
		fetcher: fetcher,
		ids:     ids,
		events:  bus,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddBooking records a booking the backend has just accepted, ahead of any refresh,
// and announces it with a SuccessEvent before returning.
func (s *Store) AddBooking(draft Draft) Record {
	s.mu.Lock()

	record := draft.record(s.ids.NewID(), s.now().UTC())

	bookings := make([]Record, 0, len(s.bookings)+1)
	bookings = append(bookings, record)
	bookings = append(bookings, s.bookings...)
	s.bookings = bookings

	s.mu.Unlock()

	if s.events != nil {
		s.events.Publish(SuccessEvent{Booking: record, Message: successMessage(record.Title)})
	}

	return record
}

// UpdateBookingStatus changes the status of the booking with the given id. Unknown
// ids are ignored.
func (s *Store) UpdateBookingStatus(id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookings {
		if s.bookings[i].ID != id {
			continue
		}

		bookings := append([]Record(nil), s.bookings...)
		bookings[i].Status = status
		s.bookings = bookings

		return nil
	}

	return nil
}

// RefreshBookings reloads every remote collection concurrently. A failing collection
// is logged and contributes no bookings; the call itself never fails.
func (s *Store) RefreshBookings(ctx context.Context) {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}()

	results := make([][]Record, len(Types))

	var g errgroup.Group

	for i, t := range Types {
		g.Go(func() error {
			records, err := s.fetcher.FetchBookings(ctx, t)
			if err != nil {
				s.l.LogWarnf("Could not fetch %s bookings, treating as empty: %v", t, err.Error())

				return nil
			}

			for j := range records {
				records[j].Type = t
			}

			results[i] = records

			return nil
		})
	}

	_ = g.Wait()

	var bookings []Record
	for _, records := range results {
		bookings = append(bookings, records...)
	}

	s.mu.Lock()
	s.bookings = bookings
	s.mu.Unlock()

	s.l.LogInfo("Bookings refreshed, %d loaded", len(bookings))
}

func (s *Store) Bookings() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Record(nil), s.bookings...)
}

// Stats is derived from the current list on every call.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ComputeStats(s.bookings, s.now())
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading > 0
}

func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return View{
		Bookings:  append([]Record{}, s.bookings...),
		Stats:     ComputeStats(s.bookings, s.now()),
		IsLoading: s.loading > 0,
	}
}
