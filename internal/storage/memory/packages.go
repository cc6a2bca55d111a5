package memory

import (
	"context"
	"fmt"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/confirm"
	"github.com/avstrong/wandernest/internal/wizard"
)

// CreatePackage prices the package from the chosen catalog options for every
// traveller and keeps the request.
func (db *DB) CreatePackage(ctx context.Context, req wizard.PackageCreationRequest) (*wizard.CreatedPackage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	var perPerson float64

	chosen := map[wizard.Category]*string{
		wizard.CategoryTransport: req.TransportID,
		wizard.CategoryHotel:     req.HotelID,
		wizard.CategoryGuide:     req.GuideID,
	}

	for category, id := range chosen {
		if id == nil {
			continue
		}

		option, ok := db.option(category, *id)
		if !ok {
			return nil, fmt.Errorf("%s option %s: %w", category, *id, ErrUnknownOption)
		}

		perPerson += option.Price
	}

	created := wizard.CreatedPackage{
		ID:    db.ids.NewID(),
		Title: req.Title,
		Price: perPerson * float64(req.TravelersCount),
	}

	db.packages[created.ID] = &storedPackage{request: req, created: created}

	db.l.LogInfo("Package %s %q stored, price %.2f", created.ID, created.Title, created.Price)

	return &created, nil
}

func (db *DB) option(category wizard.Category, id string) (wizard.Option, bool) {
	for _, option := range db.options[category] {
		if option.ID == id {
			return option, true
		}
	}

	return wizard.Option{}, false
}

// SubmitPackageBooking records a confirmed package booking, so the next refresh
// returns it from the package collection.
func (db *DB) SubmitPackageBooking(ctx context.Context, req confirm.Request) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("submit package booking: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if req.Form.PackageID != "" {
		if _, ok := db.packages[req.Form.PackageID]; !ok {
			return fmt.Errorf("package %s: %w", req.Form.PackageID, ErrUnknownPackage)
		}
	}

	record := booking.Record{
		ID:        db.ids.NewID(),
		Type:      booking.TypePackage,
		Title:     req.Form.PackageTitle,
		Location:  req.Form.Location,
		StartDate: req.Form.StartDate,
		EndDate:   req.Form.EndDate,
		Price:     req.Quote.TotalPrice,
		Status:    booking.StatusConfirmed,
		CreatedAt: db.now().UTC(),
		Travelers: req.Form.Travelers,
		Image:     req.Form.Image,
	}

	db.bookings[booking.TypePackage] = append(db.bookings[booking.TypePackage], record)

	return nil
}
