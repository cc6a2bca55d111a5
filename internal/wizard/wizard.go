package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avstrong/wandernest/internal/calendar"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/validation"
)

const MaxTravelers = 20

type catalogFetcher interface {
	FetchOptions(ctx context.Context, c Category) ([]Option, error)
}

type packageCreator interface {
	CreatePackage(ctx context.Context, req PackageCreationRequest) (*CreatedPackage, error)
}

// Wizard holds one package-configuration session. It is discarded after a
// successful Submit; every later mutation is ignored.
type Wizard struct {
	mu       sync.Mutex
	l        *logger.Logger
	catalogs catalogFetcher
	creator  packageCreator
	now      func() time.Time

	from       string
	to         string
	start      calendar.Date
	end        calendar.Date
	startMonth calendar.Month
	endMonth   calendar.Month
	travelers  int
	budget     string

	selections map[Category]Selection
	options    map[Category][]Option

	loading    bool
	submitting bool
	done       bool
	errMsg     string
}

type Opt func(*Wizard)

func WithClock(now func() time.Time) Opt {
	return func(w *Wizard) {
		w.now = now
	}
}

// WithSkipped starts the given categories in the Skipped state.
func WithSkipped(categories ...Category) Opt {
	return func(w *Wizard) {
		for _, c := range categories {
			if _, ok := w.selections[c]; ok {
				w.selections[c] = Selection{state: Skipped}
			}
		}
	}
}

func New(l *logger.Logger, catalogs catalogFetcher, creator packageCreator, opts ...Opt) *Wizard {
	//nolint:exhaustruct
	w := &Wizard{
		l:          l,
		catalogs:   catalogs,
		creator:    creator,
		now:        time.Now,
		travelers:  1,
		selections: make(map[Category]Selection, len(Categories)),
		options:    make(map[Category][]Option, len(CatalogCategories)),
	}

	for _, c := range Categories {
		w.selections[c] = Selection{state: Unselected}
	}

	for _, opt := range opts {
		opt(w)
	}

	month := calendar.MonthOf(calendar.DateOf(w.now()))
	w.startMonth = month
	w.endMonth = month

	return w
}

// LoadOptionCatalogs fetches the transport, hotel and guide catalogs together. If any
// of them fails none is kept, because the selection screens need all three.
func (w *Wizard) LoadOptionCatalogs(ctx context.Context) error {
	w.mu.Lock()
	w.loading = true
	w.errMsg = ""
	w.mu.Unlock()

	results := make([][]Option, len(CatalogCategories))

	g, gctx := errgroup.WithContext(ctx)

	for i, c := range CatalogCategories {
		g.Go(func() error {
			opts, err := w.catalogs.FetchOptions(gctx, c)
			if err != nil {
				return fmt.Errorf("fetch %s options: %w", c, err)
			}

			results[i] = opts

			return nil
		})
	}

	err := g.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.loading = false

	if err != nil {
		w.options = make(map[Category][]Option, len(CatalogCategories))
		w.errMsg = "Failed to load package options. Please try again."
		w.l.LogErrorf("Could not load option catalogs: %v", err.Error())

		return fmt.Errorf("%w: %w", ErrCatalogs, err)
	}

	for i, c := range CatalogCategories {
		w.options[c] = results[i]
	}

	return nil
}

func (w *Wizard) SetOrigin(from string) error {
	return w.mutate(func() { w.from = from })
}

func (w *Wizard) SetDestination(to string) error {
	return w.mutate(func() { w.to = to })
}

func (w *Wizard) SetBudget(budget string) error {
	return w.mutate(func() { w.budget = budget })
}

func (w *Wizard) SetTravelers(n int) error {
	if n < 0 || n > MaxTravelers {
		return fmt.Errorf("%d: %w", n, ErrTravelersRange)
	}

	return w.mutate(func() { w.travelers = n })
}

func (w *Wizard) mutate(fn func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done {
		return ErrClosed
	}

	fn()

	return nil
}

// SelectDate sets the start or end date and reports whether it was accepted. Past
// days, days that do not exist and end dates not after the start are rejected.
func (w *Wizard) SelectDate(which DateField, day int, month time.Month, year int) bool {
	d, err := calendar.NewDate(year, month, day)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done || d.Before(calendar.DateOf(w.now())) {
		return false
	}

	switch which {
	case Start:
		w.start = d
		w.startMonth = calendar.MonthOf(d)

		if !w.end.IsZero() && !w.end.After(d) {
			w.end = calendar.Date{}
		}
	case End:
		if !w.start.IsZero() && !d.After(w.start) {
			return false
		}

		w.end = d
		w.endMonth = calendar.MonthOf(d)
	default:
		return false
	}

	return true
}

func (w *Wizard) NextMonth(which DateField) calendar.Month {
	return w.turnPage(which, calendar.Month.Next)
}

func (w *Wizard) PrevMonth(which DateField) calendar.Month {
	return w.turnPage(which, calendar.Month.Prev)
}

func (w *Wizard) VisibleMonth(which DateField) calendar.Month {
	w.mu.Lock()
	defer w.mu.Unlock()

	if which == End {
		return w.endMonth
	}

	return w.startMonth
}

func (w *Wizard) turnPage(which DateField, turn func(calendar.Month) calendar.Month) calendar.Month {
	w.mu.Lock()
	defer w.mu.Unlock()

	if which == End {
		w.endMonth = turn(w.endMonth)

		return w.endMonth
	}

	w.startMonth = turn(w.startMonth)

	return w.startMonth
}

func (w *Wizard) ToggleSkip(c Category) error {
	return w.updateSelection(c, Selection.ToggleSkip)
}

func (w *Wizard) SelectOption(c Category, optionID string) error {
	return w.updateSelection(c, func(s Selection) Selection { return s.Select(optionID) })
}

func (w *Wizard) updateSelection(c Category, fn func(Selection) Selection) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done {
		return ErrClosed
	}

	current, ok := w.selections[c]
	if !ok {
		return fmt.Errorf("%q: %w", c, ErrUnknownCategory)
	}

	w.selections[c] = fn(current)

	return nil
}

func (w *Wizard) Selection(c Category) Selection {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selections[c]
}

func (w *Wizard) IsSubmittable() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.submittable()
}

// submittable must be called with mu held. Add-on choices never block submission.
func (w *Wizard) submittable() bool {
	return strings.TrimSpace(w.from) != "" &&
		strings.TrimSpace(w.to) != "" &&
		!w.start.IsZero() &&
		!w.end.IsZero() &&
		w.travelers > 0 &&
		strings.TrimSpace(w.budget) != "" &&
		w.start.Before(w.end)
}

func (w *Wizard) BuildSubmissionPayload() (PackageCreationRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.payload()
}

func (w *Wizard) payload() (PackageCreationRequest, error) {
	if !w.submittable() {
		return PackageCreationRequest{}, ErrNotSubmittable
	}

	budget, err := calendar.ParseAmount(w.budget)
	if err != nil {
		inputErr := validation.NewInputError()
		inputErr.Add("budget", "budget must be a non-negative number")

		return PackageCreationRequest{}, inputErr
	}

	from := strings.TrimSpace(w.from)
	to := strings.TrimSpace(w.to)

	req := PackageCreationRequest{
		Title:          fmt.Sprintf("%s to %s Package", from, to),
		FromLocation:   from,
		ToLocation:     to,
		StartDate:      w.start.String(),
		EndDate:        w.end.String(),
		TravelersCount: w.travelers,
		Budget:         budget,
		TransportID:    w.selections[CategoryTransport].idPtr(),
		HotelID:        w.selections[CategoryHotel].idPtr(),
		GuideID:        w.selections[CategoryGuide].idPtr(),
		Preferences: Preferences{
			SkipTransport: w.selections[CategoryTransport].Skipped(),
			SkipHotel:     w.selections[CategoryHotel].Skipped(),
			SkipVehicle:   w.selections[CategoryVehicle].Skipped(),
			SkipGuide:     w.selections[CategoryGuide].Skipped(),
		},
	}

	if err := validation.Struct(req); err != nil {
		return PackageCreationRequest{}, err
	}

	return req, nil
}

// EstimatedTotal adds up the prices of the selected options that appear in the
// loaded catalogs.
func (w *Wizard) EstimatedTotal() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.estimatedTotal()
}

func (w *Wizard) estimatedTotal() float64 {
	var total float64

	for _, c := range CatalogCategories {
		id, ok := w.selections[c].OptionID()
		if !ok {
			continue
		}

		for _, opt := range w.options[c] {
			if opt.ID == id {
				total += opt.Price

				break
			}
		}
	}

	return total
}

// Submit sends the package to the backend once. On success the session is closed.
func (w *Wizard) Submit(ctx context.Context) (*CreatedPackage, error) {
	w.mu.Lock()

	if w.done {
		w.mu.Unlock()

		return nil, ErrClosed
	}

	if w.submitting {
		w.mu.Unlock()

		return nil, ErrInFlight
	}

	req, err := w.payload()
	if err != nil {
		w.errMsg = submitMessage(err)
		w.mu.Unlock()

		return nil, err
	}

	w.submitting = true
	w.errMsg = ""
	w.mu.Unlock()

	created, err := w.creator.CreatePackage(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.submitting = false

	if err != nil {
		w.errMsg = "Failed to create package. Please try again."
		w.l.LogErrorf("Could not create package %q: %v", req.Title, err.Error())

		return nil, fmt.Errorf("create package: %w", err)
	}

	w.done = true
	w.l.LogInfo("Package %q created with id %s", req.Title, created.ID)

	return created, nil
}

func submitMessage(err error) string {
	if inputErr := validation.IsInputError(err); inputErr != nil {
		return inputErr.Message()
	}

	return "Please fill in all required fields."
}

func (w *Wizard) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.done
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	selections := make(map[Category]SelectionView, len(w.selections))
	for c, s := range w.selections {
		id, _ := s.OptionID()
		selections[c] = SelectionView{State: s.State().String(), OptionID: id}
	}

	catalogs := make(map[Category][]Option, len(w.options))
	for c, opts := range w.options {
		catalogs[c] = append([]Option(nil), opts...)
	}

	return State{
		From:           w.from,
		To:             w.to,
		StartDate:      w.start,
		EndDate:        w.end,
		StartMonth:     w.startMonth,
		EndMonth:       w.endMonth,
		Travelers:      w.travelers,
		Budget:         w.budget,
		Selections:     selections,
		Catalogs:       catalogs,
		EstimatedTotal: w.estimatedTotal(),
		Submittable:    w.submittable(),
		Loading:        w.loading,
		Submitting:     w.submitting,
		Done:           w.done,
		Error:          w.errMsg,
	}
}
