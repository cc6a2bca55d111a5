package web

import (
	"errors"
	"net/http"

	"github.com/avstrong/wandernest/internal/confirm"
	"github.com/avstrong/wandernest/internal/payment"
)

type paymentResponse struct {
	RedirectURL string `json:"redirect_url"`
}

func (s *Server) confirmHandler(w http.ResponseWriter, r *http.Request) {
	var form confirm.Form
	if !s.decode(w, r, &form) {
		return
	}

	result, err := s.confirm.Confirm(r.Context(), form)
	if s.writeInputError(w, err) {
		return
	}

	if errors.Is(err, confirm.ErrInFlight) {
		s.writeError(w, http.StatusConflict, err.Error())

		return
	}

	if err != nil {
		s.writeError(w, http.StatusBadGateway, s.confirm.Err())

		return
	}

	s.writeJSON(w, http.StatusCreated, result)
}

func (s *Server) initiatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req payment.Request
	if !s.decode(w, r, &req) {
		return
	}

	pageURL, err := s.payments.Initiate(r.Context(), req)
	if s.writeInputError(w, err) {
		return
	}

	if err != nil {
		s.l.LogErrorf("Could not initiate payment for %s %q: %v", req.ServiceType, req.ServiceName, err.Error())
		s.writeError(w, http.StatusBadGateway, "Payment could not be started. Please try again.")

		return
	}

	s.writeJSON(w, http.StatusOK, paymentResponse{RedirectURL: pageURL})
}
