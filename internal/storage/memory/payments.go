package memory

import (
	"context"
	"fmt"
	"net/url"

	"github.com/avstrong/wandernest/internal/payment"
)

type paymentRecord struct {
	request payment.Request
	pageURL string
}

// InitiatePayment opens a fake gateway session and always succeeds.
func (db *DB) InitiatePayment(ctx context.Context, req payment.Request) (*payment.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	tranID := db.ids.NewID()

	pageURL, err := url.JoinPath(db.gatewayURL, tranID)
	if err != nil {
		return nil, fmt.Errorf("gateway url for %s: %w", tranID, err)
	}

	db.payments[tranID] = paymentRecord{request: req, pageURL: pageURL}

	return &payment.Response{
		Status:         "SUCCESS",
		GatewayPageURL: pageURL,
	}, nil
}

func (db *DB) Payments() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return len(db.payments)
}
