package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avstrong/wandernest/internal/payment"
)

func (c *Client) InitiatePayment(ctx context.Context, req payment.Request) (*payment.Response, error) {
	var resp payment.Response
	if err := c.call(ctx, http.MethodPost, "/initiate-payment/", req, &resp); err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	return &resp, nil
}
