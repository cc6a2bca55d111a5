package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/wandernest/internal/booking"
	"github.com/avstrong/wandernest/internal/config"
	"github.com/avstrong/wandernest/internal/confirm"
	"github.com/avstrong/wandernest/internal/events"
	"github.com/avstrong/wandernest/internal/idgen/simple"
	"github.com/avstrong/wandernest/internal/idgen/stamped"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/migration"
	"github.com/avstrong/wandernest/internal/payment"
	"github.com/avstrong/wandernest/internal/storage/memory"
	"github.com/avstrong/wandernest/internal/transport/rest"
	"github.com/avstrong/wandernest/internal/transport/web"
	"github.com/avstrong/wandernest/internal/wizard"
)

// backend is everything the core needs from the remote API, or from its offline
// stand-in.
type backend interface {
	FetchBookings(ctx context.Context, t booking.Type) ([]booking.Record, error)
	FetchOptions(ctx context.Context, c wizard.Category) ([]wizard.Option, error)
	CreatePackage(ctx context.Context, req wizard.PackageCreationRequest) (*wizard.CreatedPackage, error)
	InitiatePayment(ctx context.Context, req payment.Request) (*payment.Response, error)
}

type bookingSubmitter interface {
	SubmitPackageBooking(ctx context.Context, req confirm.Request) error
}

func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	conf, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	api, submitter, err := newBackend(ctx, l, conf)
	if err != nil {
		return err
	}

	bus := events.New(l.With("events"))
	hub := web.NewHub(l.With("ws"))
	bus.Subscribe(booking.SuccessEventName, hub.Forward)

	store := booking.New(l.With("booking"), api, stamped.New("booking"), bus)
	store.RefreshBookings(ctx)

	wizardLogger := l.With("wizard")

	webConf := web.Conf{
		L:                 l.With("web"),
		ServerLogger:      log.Default(),
		Host:              conf.HTTP.Host,
		Port:              conf.HTTP.Port,
		ReadHeaderTimeout: conf.HTTP.ReadHeaderTimeout,
		LivenessEndpoint:  conf.HTTP.LivenessEndpoint,
	}

	srv, err := web.New(ctx, webConf, web.Services{
		Store: store,
		Wizards: func() *wizard.Wizard {
			return wizard.New(wizardLogger, api, api, wizard.WithSkipped(wizard.CategoryVehicle))
		},
		Confirm:  confirm.New(l.With("confirm"), store, submitter),
		Payments: payment.New(l.With("payment"), api),
		Hub:      hub,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()

		hub.Close()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v with the %s backend...", webConf.Host, webConf.Port, conf.Backend)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}

func newBackend(ctx context.Context, l *logger.Logger, conf *config.Config) (backend, bookingSubmitter, error) {
	if conf.Offline() {
		storage := memory.New(memory.Config{
			L:   l.With("memory"),
			IDs: simple.New().StartingAfter(migration.SeededIDs),
		})

		if err := migration.Up(ctx, l.With("migration"), storage, time.Now()); err != nil {
			return nil, nil, fmt.Errorf("up seed migration: %w", err)
		}

		l.LogInfo("Seed migration has been applied")

		return storage, storage, nil
	}

	client, err := rest.New(rest.Conf{
		L:       l.With("rest"),
		BaseURL: conf.API.URL,
		Timeout: conf.API.Timeout,
		Tokens:  rest.NewMemoryTokens(conf.API.Token),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init api client: %w", err)
	}

	return client, confirm.SimulatedSubmitter{Delay: conf.ConfirmSubmitDelay}, nil
}
