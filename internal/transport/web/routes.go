package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statusRequest struct {
	Status booking.Status `json:"status" validate:"required,oneof=confirmed pending cancelled"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode %T response: %v", v, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorResponse{Error: msg})
}

// writeInputError answers 400 with the per-field messages when err carries them.
func (s *Server) writeInputError(w http.ResponseWriter, err error) bool {
	inputErr := validation.IsInputError(err)
	if inputErr == nil {
		return false
	}

	s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

	return true
}

// decode reads a JSON body into dst and checks its validate tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("malformed body: %v", err))

		return false
	}

	if err := validation.Struct(dst); err != nil {
		if !s.writeInputError(w, err) {
			s.l.LogErrorf("Could not validate %T: %v", dst, err.Error())
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return false
	}

	return true
}

func (s *Server) listBookingsHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) refreshBookingsHandler(w http.ResponseWriter, r *http.Request) {
	s.store.RefreshBookings(r.Context())

	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) updateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.decode(w, r, &req) {
		return
	}

	err := s.store.UpdateBookingStatus(r.PathValue("id"), req.Status)
	if errors.Is(err, booking.ErrInvalidStatus) {
		s.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	if err != nil {
		s.l.LogErrorf("Could not update booking %s: %v", r.PathValue("id"), err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r, requestIDFromContext(r.Context()))
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	routes := map[string]http.HandlerFunc{
		"GET /api/bookings":               s.listBookingsHandler,
		"POST /api/bookings/refresh":      s.refreshBookingsHandler,
		"PATCH /api/bookings/{id}/status": s.updateStatusHandler,
		"GET /api/events":                 s.eventsHandler,

		"POST /api/wizard":          s.startWizardHandler,
		"GET /api/wizard":           s.wizardStateHandler,
		"DELETE /api/wizard":        s.discardWizardHandler,
		"PATCH /api/wizard/trip":    s.wizardTripHandler,
		"POST /api/wizard/dates":    s.wizardDatesHandler,
		"POST /api/wizard/calendar": s.wizardCalendarHandler,
		"POST /api/wizard/skip":     s.wizardSkipHandler,
		"POST /api/wizard/select":   s.wizardSelectHandler,
		"POST /api/wizard/submit":   s.wizardSubmitHandler,

		"POST /api/confirm":           s.confirmHandler,
		"POST /api/payments/initiate": s.initiatePaymentHandler,

		fmt.Sprintf("GET %s", s.conf.LivenessEndpoint): s.livenessHandler,
	}

	for pattern, h := range routes {
		r.Handle(pattern, s.applyMiddlewares(h, s.loggerMiddleware(), s.recoverMiddleware()))
	}
}
