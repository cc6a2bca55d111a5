package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/calendar"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/wizard"
)

// SeededIDs is the highest numeric id used by the seed data.
const SeededIDs = 12

type storage interface {
	BeginTransaction(ctx context.Context) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	SaveBookings(ctx context.Context, records []booking.Record) error
	SaveOptions(ctx context.Context, category wizard.Category, options []wizard.Option) error
}

func catalogs() map[wizard.Category][]wizard.Option {
	return map[wizard.Category][]wizard.Option{
		wizard.CategoryTransport: {
			{ID: "1", Name: "AC Bus", Description: "Overnight coach with reclining seats", Price: 1200},
			{ID: "2", Name: "Domestic Flight", Description: "Economy seat, 20 kg baggage", Price: 5500},
			{ID: "3", Name: "Intercity Train", Description: "Snigdha class", Price: 900},
		},
		wizard.CategoryHotel: {
			{ID: "4", Name: "Sea Pearl Beach Resort", Description: "Sea-facing deluxe room", Price: 9000},
			{ID: "5", Name: "Hotel Sea Crown", Description: "Standard double room", Price: 4500},
			{ID: "6", Name: "Tea Garden Cottage", Description: "Hill view bungalow", Price: 6000},
		},
		wizard.CategoryGuide: {
			{ID: "7", Name: "Rahim Uddin", Description: "Licensed guide, Bangla and English", Price: 2000},
			{ID: "8", Name: "Farzana Akter", Description: "Nature and hiking specialist", Price: 2500},
		},
	}
}

// bookings seeds one record of every outcome the dashboard counts, dated around now.
func bookings(now time.Time) []booking.Record {
	day := func(offset int) calendar.Date {
		return calendar.DateOf(now.AddDate(0, 0, offset))
	}

	created := now.AddDate(0, 0, -45).UTC()

	return []booking.Record{
		{
			ID: "9", Type: booking.TypeHotel, Title: "Sea Pearl Beach Resort", Location: "Cox's Bazar",
			StartDate: day(14), EndDate: day(17), Price: 27000, Status: booking.StatusConfirmed,
			CreatedAt: created, Travelers: 2,
		},
		{
			ID: "10", Type: booking.TypePackage, Title: "Dhaka to Sylhet Package", Location: "Sylhet",
			StartDate: day(-30), EndDate: day(-27), Price: 18400, Status: booking.StatusConfirmed,
			CreatedAt: created, Travelers: 2,
		},
		{
			ID: "11", Type: booking.TypeTrip, Title: "Sundarbans Boat Safari", Location: "Khulna",
			StartDate: day(40), EndDate: day(43), Price: 15000, Status: booking.StatusPending,
			CreatedAt: created, Travelers: 1,
		},
		{
			ID: "12", Type: booking.TypeTrip, Title: "Saint Martin Day Trip", Location: "Teknaf",
			StartDate: day(-10), EndDate: day(-10), Price: 3500, Status: booking.StatusCancelled,
			CreatedAt: created, Travelers: 1,
		},
	}
}

func Up(ctx context.Context, l *logger.Logger, storage storage, now time.Time) (err error) {
	ctx, err = storage.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if err = storage.RollbackTransaction(ctx); err != nil {
				l.LogErrorf("Could not rollback seed transaction after panic %v", p)
			}

			l.LogInfo("Seed transaction has been rolled back after panic")

			panic(p)
		}

		if err != nil {
			if rbErr := storage.RollbackTransaction(ctx); rbErr != nil {
				l.LogErrorf("Could not rollback seed transaction after error %v", rbErr.Error())
			}

			l.LogInfo("Seed transaction has been rolled back after error")

			return
		}

		if err = storage.CommitTransaction(ctx); err != nil {
			l.LogErrorf("Could not commit seed transaction, err %v", err.Error())

			err = fmt.Errorf("commit transaction: %w", err)

			return
		}

		l.LogInfo("Seed transaction has been committed")
	}()

	for _, category := range wizard.CatalogCategories {
		if err = storage.SaveOptions(ctx, category, catalogs()[category]); err != nil {
			return fmt.Errorf("save %s options to storage: %w", category, err)
		}
	}

	if err = storage.SaveBookings(ctx, bookings(now)); err != nil {
		return fmt.Errorf("save bookings to storage: %w", err)
	}

	return nil
}
