package memory

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/calendar"
	"github.com/avstrong/wandernest/internal/confirm"
	"github.com/avstrong/wandernest/internal/idgen/simple"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/payment"
	"github.com/avstrong/wandernest/internal/wizard"
)

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newDB() *DB {
	return New(Config{
		L:   logger.New(log.New(io.Discard, "", 0)),
		IDs: simple.New().StartingAfter(100),
		Now: func() time.Time { return fixedNow },
	})
}

func seed(t *testing.T, db *DB) {
	t.Helper()

	ctx, err := db.BeginTransaction(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.SaveOptions(ctx, wizard.CategoryHotel, []wizard.Option{
		{ID: "4", Name: "Sea Pearl", Price: 9000},
	}))
	require.NoError(t, db.SaveOptions(ctx, wizard.CategoryTransport, []wizard.Option{
		{ID: "1", Name: "AC Bus", Price: 1200},
	}))
	require.NoError(t, db.SaveBookings(ctx, []booking.Record{
		{ID: "9", Type: booking.TypeHotel, Title: "Sea Pearl", Status: booking.StatusConfirmed},
	}))
	require.NoError(t, db.CommitTransaction(ctx))
}

func TestDB_StagedWritesInvisibleUntilCommit(t *testing.T) {
	db := newDB()

	ctx, err := db.BeginTransaction(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.SaveBookings(ctx, []booking.Record{
		{ID: "1", Type: booking.TypeTrip, Status: booking.StatusPending},
	}))

	records, err := db.FetchBookings(context.Background(), booking.TypeTrip)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, db.CommitTransaction(ctx))

	records, err = db.FetchBookings(context.Background(), booking.TypeTrip)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestDB_Rollback(t *testing.T) {
	db := newDB()

	ctx, err := db.BeginTransaction(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.SaveOptions(ctx, wizard.CategoryGuide, []wizard.Option{{ID: "7"}}))
	require.NoError(t, db.RollbackTransaction(ctx))

	options, err := db.FetchOptions(context.Background(), wizard.CategoryGuide)
	require.NoError(t, err)
	assert.Empty(t, options)

	require.ErrorIs(t, db.CommitTransaction(ctx), ErrTransactionNotFound)
}

func TestDB_WritesNeedTransaction(t *testing.T) {
	db := newDB()

	err := db.SaveBookings(context.Background(), nil)

	require.ErrorIs(t, err, ErrTransactionIDNotFoundInCtx)
}

func TestDB_SaveBookings_RejectsBadRecords(t *testing.T) {
	db := newDB()

	ctx, err := db.BeginTransaction(context.Background())
	require.NoError(t, err)

	err = db.SaveBookings(ctx, []booking.Record{{ID: "1", Type: "cruise", Status: booking.StatusPending}})
	require.ErrorIs(t, err, booking.ErrUnknownType)

	err = db.SaveBookings(ctx, []booking.Record{{ID: "1", Type: booking.TypeHotel, Status: "lost"}})
	require.ErrorIs(t, err, booking.ErrInvalidStatus)
}

func TestDB_FetchOptions_NoVehicleCatalog(t *testing.T) {
	_, err := newDB().FetchOptions(context.Background(), wizard.CategoryVehicle)

	require.ErrorIs(t, err, wizard.ErrUnknownCategory)
}

func TestDB_FetchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDB().FetchBookings(ctx, booking.TypeHotel)

	require.ErrorIs(t, err, context.Canceled)
}

func TestDB_FetchReturnsCopies(t *testing.T) {
	db := newDB()
	seed(t, db)

	records, err := db.FetchBookings(context.Background(), booking.TypeHotel)
	require.NoError(t, err)

	records[0].Title = "changed"

	again, err := db.FetchBookings(context.Background(), booking.TypeHotel)
	require.NoError(t, err)
	assert.Equal(t, "Sea Pearl", again[0].Title)
}

func TestDB_CreatePackage_PricesChosenOptions(t *testing.T) {
	db := newDB()
	seed(t, db)

	hotel, transport := "4", "1"

	created, err := db.CreatePackage(context.Background(), wizard.PackageCreationRequest{
		Title:          "Dhaka to Cox's Bazar Package",
		TravelersCount: 2,
		HotelID:        &hotel,
		TransportID:    &transport,
	})

	require.NoError(t, err)
	assert.Equal(t, "101", created.ID)
	assert.InDelta(t, 20400.0, created.Price, 0.001)
}

func TestDB_CreatePackage_UnknownOption(t *testing.T) {
	db := newDB()
	seed(t, db)

	guide := "99"

	_, err := db.CreatePackage(context.Background(), wizard.PackageCreationRequest{GuideID: &guide, TravelersCount: 1})

	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestDB_SubmitPackageBooking_LandsInPackages(t *testing.T) {
	db := newDB()
	seed(t, db)

	err := db.SubmitPackageBooking(context.Background(), confirm.Request{
		Form: confirm.Form{
			PackageTitle: "Sylhet Tea Trail",
			Location:     "Sylhet",
			StartDate:    calendar.Date{Year: 2025, Month: time.July, Day: 1},
			EndDate:      calendar.Date{Year: 2025, Month: time.July, Day: 4},
			Travelers:    3,
		},
		Quote: confirm.Quote{Nights: 3, TotalPrice: 15000},
	})
	require.NoError(t, err)

	records, err := db.FetchBookings(context.Background(), booking.TypePackage)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, booking.TypePackage, rec.Type)
	assert.Equal(t, booking.StatusConfirmed, rec.Status)
	assert.InDelta(t, 15000.0, rec.Price, 0.001)
	assert.Equal(t, fixedNow, rec.CreatedAt)
}

func TestDB_SubmitPackageBooking_UnknownPackage(t *testing.T) {
	err := newDB().SubmitPackageBooking(context.Background(), confirm.Request{
		Form: confirm.Form{PackageID: "404"},
	})

	require.ErrorIs(t, err, ErrUnknownPackage)
}

func TestDB_InitiatePayment(t *testing.T) {
	db := newDB()

	resp, err := db.InitiatePayment(context.Background(), payment.Request{ServiceType: "hotel", Amount: 100})

	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", resp.Status)
	assert.True(t, strings.HasPrefix(resp.GatewayPageURL, defaultGatewayURL+"/"))
	assert.Equal(t, 1, db.Payments())
}
