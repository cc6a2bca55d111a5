package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/validation"
)

const statusSuccess = "SUCCESS"

var ErrGatewayResponse = errors.New("payment gateway did not return a checkout page")

// Request is the body of the initiate-payment call shared by the hotel, experience
// and flight booking screens.
type Request struct {
	ServiceType    string         `json:"service_type" validate:"required,oneof=hotel experience flight package"`
	ServiceName    string         `json:"service_name" validate:"required"`
	ServiceDetails string         `json:"service_details"`
	Amount         float64        `json:"amount" validate:"gt=0"`
	CustomerName   string         `json:"customer_name" validate:"required"`
	CustomerEmail  string         `json:"customer_email" validate:"required,email"`
	CustomerPhone  string         `json:"customer_phone" validate:"required"`
	ServiceData    map[string]any `json:"service_data,omitempty"`
}

type Response struct {
	Status         string `json:"status"`
	GatewayPageURL string `json:"GatewayPageURL"`
	Message        string `json:"message,omitempty"`
}

type gateway interface {
	InitiatePayment(ctx context.Context, req Request) (*Response, error)
}

type Service struct {
	l       *logger.Logger
	gateway gateway
}

func New(l *logger.Logger, gateway gateway) *Service {
	return &Service{
		l:       l,
		gateway: gateway,
	}
}

// Initiate asks the backend to open a gateway session and returns the page the
// caller must redirect to. There is no retry; the user re-submits.
func (s *Service) Initiate(ctx context.Context, req Request) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}

	resp, err := s.gateway.InitiatePayment(ctx, req)
	if err != nil {
		return "", fmt.Errorf("initiate payment: %w", err)
	}

	if resp == nil || resp.Status != statusSuccess || resp.GatewayPageURL == "" {
		status := ""
		if resp != nil {
			status = resp.Status
		}

		s.l.LogWarnf("Unexpected payment response for %s %q: status %q", req.ServiceType, req.ServiceName, status)

		return "", fmt.Errorf("status %q: %w", status, ErrGatewayResponse)
	}

	s.l.LogInfo("Payment initiated for %s %q, amount %.2f", req.ServiceType, req.ServiceName, req.Amount)

	return resp.GatewayPageURL, nil
}
