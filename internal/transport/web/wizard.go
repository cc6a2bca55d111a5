package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/avstrong/wandernest/internal/calendar"
	"github.com/avstrong/wandernest/internal/confirm"
	"github.com/avstrong/wandernest/internal/wizard"
)

type tripRequest struct {
	From      *string `json:"from"`
	To        *string `json:"to"`
	Travelers *int    `json:"travelers" validate:"omitempty,min=0,max=20"`
	Budget    *string `json:"budget"`
}

type dateRequest struct {
	Which wizard.DateField `json:"which" validate:"oneof=start end"`
	Day   int              `json:"day" validate:"min=1,max=31"`
	Month int              `json:"month" validate:"min=1,max=12"`
	Year  int              `json:"year" validate:"min=1"`
}

type dateResponse struct {
	Accepted bool         `json:"accepted"`
	State    wizard.State `json:"state"`
}

type calendarRequest struct {
	Which     wizard.DateField `json:"which" validate:"oneof=start end"`
	Direction string           `json:"direction" validate:"oneof=next prev"`
}

type calendarResponse struct {
	Month calendar.Month `json:"month"`
}

type categoryRequest struct {
	Category string `json:"category" validate:"required"`
	OptionID string `json:"option_id"`
}

type submitResponse struct {
	Package  *wizard.CreatedPackage `json:"package"`
	Redirect string                 `json:"redirect"`
}

// withSession resolves the active wizard or answers 404.
func (s *Server) withSession(next func(http.ResponseWriter, *http.Request, *wizard.Wizard)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wiz := s.session()
		if wiz == nil {
			s.writeError(w, http.StatusNotFound, ErrNoSession.Error())

			return
		}

		next(w, r, wiz)
	}
}

func (s *Server) writeWizardError(w http.ResponseWriter, wiz *wizard.Wizard, err error) {
	if s.writeInputError(w, err) {
		return
	}

	switch {
	case errors.Is(err, wizard.ErrUnknownCategory), errors.Is(err, wizard.ErrTravelersRange):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrNotSubmittable):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wizard.ErrClosed), errors.Is(err, wizard.ErrInFlight):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.l.LogErrorf("Package wizard failed: %v", err.Error())
		s.writeError(w, http.StatusBadGateway, wiz.State().Error)
	}
}

// startWizardHandler replaces any open session and loads the option catalogs.
func (s *Server) startWizardHandler(w http.ResponseWriter, r *http.Request) {
	wiz := s.wizards()
	s.replaceSession(wiz)

	if err := wiz.LoadOptionCatalogs(r.Context()); err != nil {
		s.l.LogWarnf("Could not load option catalogs: %v", err.Error())
		s.writeJSON(w, http.StatusBadGateway, wiz.State())

		return
	}

	s.writeJSON(w, http.StatusCreated, wiz.State())
}

func (s *Server) wizardStateHandler(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, _ *http.Request, wiz *wizard.Wizard) {
		s.writeJSON(w, http.StatusOK, wiz.State())
	})(w, r)
}

func (s *Server) discardWizardHandler(w http.ResponseWriter, _ *http.Request) {
	s.replaceSession(nil)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) wizardTripHandler(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, wiz *wizard.Wizard) {
		var req tripRequest
		if !s.decode(w, r, &req) {
			return
		}

		var errs []error

		if req.From != nil {
			errs = append(errs, wiz.SetOrigin(*req.From))
		}

		if req.To != nil {
			errs = append(errs, wiz.SetDestination(*req.To))
		}

		if req.Travelers != nil {
			errs = append(errs, wiz.SetTravelers(*req.Travelers))
		}

		if req.Budget != nil {
			errs = append(errs, wiz.SetBudget(*req.Budget))
		}

		if err := errors.Join(errs...); err != nil {
			s.writeWizardError(w, wiz, err)

			return
		}

		s.writeJSON(w, http.StatusOK, wiz.State())
	})(w, r)
}

func (s *Server) wizardDatesHandler(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, wiz *wizard.Wizard) {
		var req dateRequest
		if !s.decode(w, r, &req) {
			return
		}

		accepted := wiz.SelectDate(req.Which, req.Day, time.Month(req.Month), req.Year)

		s.writeJSON(w, http.StatusOK, dateResponse{Accepted: accepted, State: wiz.State()})
	})(w, r)
}

func (s *Server) wizardCalendarHandler(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, wiz *wizard.Wizard) {
		var req calendarRequest
		if !s.decode(w, r, &req) {
			return
		}

		month := wiz.NextMonth(req.Which)
		if req.Direction == "prev" {
			month = wiz.PrevMonth(req.Which)
		}

		s.writeJSON(w, http.StatusOK, calendarResponse{Month: month})
	})(w, r)
}

func (s *Server) wizardSkipHandler(w http.ResponseWriter, r *http.Request) {
	s.updateSelection(w, r, func(wiz *wizard.Wizard, c wizard.Category, _ string) error {
		return wiz.ToggleSkip(c)
	})
}

func (s *Server) wizardSelectHandler(w http.ResponseWriter, r *http.Request) {
	s.updateSelection(w, r, (*wizard.Wizard).SelectOption)
}

func (s *Server) updateSelection(
	w http.ResponseWriter,
	r *http.Request,
	apply func(wiz *wizard.Wizard, c wizard.Category, optionID string) error,
) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, wiz *wizard.Wizard) {
		var req categoryRequest
		if !s.decode(w, r, &req) {
			return
		}

		c, err := wizard.ParseCategory(req.Category)
		if err == nil {
			err = apply(wiz, c, req.OptionID)
		}

		if err != nil {
			s.writeWizardError(w, wiz, err)

			return
		}

		s.writeJSON(w, http.StatusOK, wiz.State())
	})(w, r)
}

func (s *Server) wizardSubmitHandler(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, wiz *wizard.Wizard) {
		created, err := wiz.Submit(r.Context())
		if err != nil {
			s.writeWizardError(w, wiz, err)

			return
		}

		s.writeJSON(w, http.StatusCreated, submitResponse{Package: created, Redirect: confirm.DashboardPath})
	})(w, r)
}
