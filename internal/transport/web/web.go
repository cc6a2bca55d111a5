package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/confirm"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/payment"
	"github.com/avstrong/wandernest/internal/wizard"
)

type bookingStore interface {
	Snapshot() booking.View
	RefreshBookings(ctx context.Context)
	UpdateBookingStatus(id string, status booking.Status) error
}

type confirmFlow interface {
	Confirm(ctx context.Context, form confirm.Form) (confirm.Result, error)
	Err() string
}

type paymentService interface {
	Initiate(ctx context.Context, req payment.Request) (string, error)
}

// WizardFactory starts a fresh package-configuration session.
type WizardFactory func() *wizard.Wizard

type Services struct {
	Store    bookingStore
	Wizards  WizardFactory
	Confirm  confirmFlow
	Payments paymentService
	Hub      *Hub
}

type Server struct {
	srv      *http.Server
	router   *http.ServeMux
	l        *logger.Logger
	conf     Conf
	store    bookingStore
	wizards  WizardFactory
	confirm  confirmFlow
	payments paymentService
	hub      *Hub

	wizMu sync.Mutex
	wiz   *wizard.Wizard
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
}

func New(ctx context.Context, conf Conf, services Services) (*Server, error) {
	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	//nolint:exhaustruct
	server := &Server{
		srv:      srv,
		router:   mux,
		l:        conf.L,
		conf:     conf,
		store:    services.Store,
		wizards:  services.Wizards,
		confirm:  services.Confirm,
		payments: services.Payments,
		hub:      services.Hub,
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}

// Handler exposes the routed mux, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) session() *wizard.Wizard {
	s.wizMu.Lock()
	defer s.wizMu.Unlock()

	return s.wiz
}

func (s *Server) replaceSession(w *wizard.Wizard) {
	s.wizMu.Lock()
	defer s.wizMu.Unlock()

	s.wiz = w
}
