package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/wizard"
)

const defaultGatewayURL = "https://sandbox.wandernest.local/pay"

type idGenerator interface {
	NewID() string
}

type Config struct {
	L          *logger.Logger
	IDs        idGenerator
	Now        func() time.Time
	GatewayURL string
}

type transaction struct {
	id       string
	bookings map[booking.Type][]booking.Record
	options  map[wizard.Category][]wizard.Option
}

type storedPackage struct {
	request wizard.PackageCreationRequest
	created wizard.CreatedPackage
}

// DB is an offline stand-in for the remote API. It serves the same calls the REST
// client does and keeps everything in process memory.
type DB struct {
	mu           sync.Mutex
	l            *logger.Logger
	ids          idGenerator
	now          func() time.Time
	gatewayURL   string
	bookings     map[booking.Type][]booking.Record
	options      map[wizard.Category][]wizard.Option
	packages     map[string]*storedPackage
	payments     map[string]paymentRecord
	transactions map[string]*transaction
	nextTrxID    int64
}

func New(conf Config) *DB {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	gatewayURL := conf.GatewayURL
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}

	//nolint:exhaustruct
	return &DB{
		l:            conf.L,
		ids:          conf.IDs,
		now:          now,
		gatewayURL:   gatewayURL,
		bookings:     make(map[booking.Type][]booking.Record),
		options:      make(map[wizard.Category][]wizard.Option),
		packages:     make(map[string]*storedPackage),
		payments:     make(map[string]paymentRecord),
		transactions: make(map[string]*transaction),
	}
}

func (db *DB) BeginTransaction(ctx context.Context) (context.Context, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	trxID := fmt.Sprintf("trx-%d", db.nextTrxID)
	db.nextTrxID++

	db.transactions[trxID] = &transaction{
		id:       trxID,
		bookings: make(map[booking.Type][]booking.Record),
		options:  make(map[wizard.Category][]wizard.Option),
	}

	return withTransactionID(ctx, trxID), nil
}

func (db *DB) CommitTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	for t, records := range trx.bookings {
		db.bookings[t] = append(db.bookings[t], records...)
	}

	for c, options := range trx.options {
		db.options[c] = options
	}

	delete(db.transactions, trx.id)

	return nil
}

// RollbackTransaction drops everything staged in the transaction. Nothing was
// applied yet, so there is nothing to undo.
func (db *DB) RollbackTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	delete(db.transactions, trx.id)

	return nil
}

func (db *DB) transaction(ctx context.Context) (*transaction, error) {
	trxID, ok := transactionIDFromContext(ctx)
	if !ok || trxID == "" {
		return nil, ErrTransactionIDNotFoundInCtx
	}

	trx, exists := db.transactions[trxID]
	if !exists {
		return nil, fmt.Errorf("transaction %s not found: %w", trxID, ErrTransactionNotFound)
	}

	return trx, nil
}

func (db *DB) SaveBookings(ctx context.Context, records []booking.Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if !slices.Contains(booking.Types, rec.Type) {
			return fmt.Errorf("booking %s of type %q: %w", rec.ID, rec.Type, booking.ErrUnknownType)
		}

		if !rec.Status.Valid() {
			return fmt.Errorf("booking %s status %q: %w", rec.ID, rec.Status, booking.ErrInvalidStatus)
		}

		trx.bookings[rec.Type] = append(trx.bookings[rec.Type], rec)
	}

	return nil
}

func (db *DB) SaveOptions(ctx context.Context, category wizard.Category, options []wizard.Option) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	if !slices.Contains(wizard.CatalogCategories, category) {
		return fmt.Errorf("options for %q: %w", category, wizard.ErrUnknownCategory)
	}

	trx.options[category] = slices.Clone(options)

	return nil
}

func (db *DB) FetchBookings(ctx context.Context, t booking.Type) ([]booking.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s bookings: %w", t, err)
	}

	if !slices.Contains(booking.Types, t) {
		return nil, fmt.Errorf("%q: %w", t, booking.ErrUnknownType)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	return slices.Clone(db.bookings[t]), nil
}

func (db *DB) FetchOptions(ctx context.Context, category wizard.Category) ([]wizard.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s options: %w", category, err)
	}

	if !slices.Contains(wizard.CatalogCategories, category) {
		return nil, fmt.Errorf("%q: %w", category, wizard.ErrUnknownCategory)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	return slices.Clone(db.options[category]), nil
}
