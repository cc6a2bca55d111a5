package booking

import (
	"time"

	"github.com/avstrong/wandernest/internal/calendar"
)

type Stats struct {
	TotalBookings  int     `json:"total_bookings"`
	UpcomingTrips  int     `json:"upcoming_trips"`
	TotalSpent     float64 `json:"total_spent"`
	CompletedTrips int     `json:"completed_trips"`
}

// ComputeStats derives the dashboard figures from records. Only confirmed bookings
// count towards spending, upcoming and completed trips.
func ComputeStats(records []Record, now time.Time) Stats {
	stats := Stats{TotalBookings: len(records)} //nolint:exhaustruct

	for _, r := range records {
		if r.Status != StatusConfirmed {
			continue
		}

		stats.TotalSpent += r.Price

		if startsAfter(r.StartDate, now) {
			stats.UpcomingTrips++
		}

		if endsBefore(r.EndDate, now) {
			stats.CompletedTrips++
		}
	}

	return stats
}

func startsAfter(d calendar.Date, now time.Time) bool {
	return !d.IsZero() && d.Time().After(now)
}

func endsBefore(d calendar.Date, now time.Time) bool {
	return !d.IsZero() && d.Time().Before(now)
}
