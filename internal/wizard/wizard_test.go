package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/wandernest/internal/calendar"
	"github.com/avstrong/wandernest/internal/logger"
	"github.com/avstrong/wandernest/internal/validation"
)

var errUpstream = errors.New("upstream unavailable")

type fakeCatalogs struct {
	mu      sync.Mutex
	options map[Category][]Option
	errs    map[Category]error
	calls   []Category
}

func (f *fakeCatalogs) FetchOptions(_ context.Context, c Category) ([]Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, c)

	if err := f.errs[c]; err != nil {
		return nil, err
	}

	return f.options[c], nil
}

type fakeCreator struct {
	got     []PackageCreationRequest
	err     error
	created *CreatedPackage
}

func (f *fakeCreator) CreatePackage(_ context.Context, req PackageCreationRequest) (*CreatedPackage, error) {
	f.got = append(f.got, req)

	if f.err != nil {
		return nil, f.err
	}

	return f.created, nil
}

// today is 2025-02-01 for every wizard in these tests.
var today = time.Date(2025, time.February, 1, 9, 30, 0, 0, time.UTC)

func testCatalogs() *fakeCatalogs {
	return &fakeCatalogs{options: map[Category][]Option{
		CategoryTransport: {{ID: "t1", Name: "Green Line AC Bus", Price: 1200}, {ID: "t2", Name: "US-Bangla Flight", Price: 6500}},
		CategoryHotel:     {{ID: "h1", Name: "Sayeman Beach Resort", Price: 9000}},
		CategoryGuide:     {{ID: "g1", Name: "Local guide", Price: 2000}},
	}}
}

func newTestWizard(catalogs catalogFetcher, creator packageCreator, opts ...Opt) *Wizard {
	opts = append([]Opt{WithClock(func() time.Time { return today })}, opts...)

	return New(logger.New(log.New(io.Discard, "", 0)), catalogs, creator, opts...)
}

func fillTrip(t *testing.T, w *Wizard) {
	t.Helper()

	require.NoError(t, w.SetOrigin("Dhaka"))
	require.NoError(t, w.SetDestination("Cox's Bazar"))
	require.True(t, w.SelectDate(Start, 1, time.March, 2025))
	require.True(t, w.SelectDate(End, 5, time.March, 2025))
	require.NoError(t, w.SetTravelers(2))
	require.NoError(t, w.SetBudget("5000"))
}

func TestWizard_BuildSubmissionPayload_EndToEnd(t *testing.T) {
	// Setup
	w := newTestWizard(testCatalogs(), &fakeCreator{})
	fillTrip(t, w)

	require.NoError(t, w.ToggleSkip(CategoryHotel))
	require.NoError(t, w.ToggleSkip(CategoryGuide))
	require.NoError(t, w.SelectOption(CategoryTransport, "t1"))

	// Execute
	req, err := w.BuildSubmissionPayload()

	// Verify
	require.NoError(t, err)

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Dhaka to Cox's Bazar Package",
		"from_location": "Dhaka",
		"to_location": "Cox's Bazar",
		"start_date": "2025-03-01",
		"end_date": "2025-03-05",
		"travelers_count": 2,
		"budget": 5000,
		"transport_id": "t1",
		"hotel_id": null,
		"guide_id": null,
		"preferences": {"skip_transport": false, "skip_hotel": true, "skip_vehicle": false, "skip_guide": true}
	}`, string(body))
}

func TestWizard_IsSubmittable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *Wizard)
	}{
		{name: "missing origin", mutate: func(w *Wizard) { _ = w.SetOrigin("  ") }},
		{name: "missing destination", mutate: func(w *Wizard) { _ = w.SetDestination("") }},
		{name: "missing budget", mutate: func(w *Wizard) { _ = w.SetBudget("") }},
		{name: "no travelers", mutate: func(w *Wizard) { _ = w.SetTravelers(0) }},
		{name: "start moved onto end", mutate: func(w *Wizard) { w.SelectDate(Start, 5, time.March, 2025) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWizard(testCatalogs(), &fakeCreator{})
			fillTrip(t, w)
			require.True(t, w.IsSubmittable())

			tt.mutate(w)

			assert.False(t, w.IsSubmittable())

			_, err := w.BuildSubmissionPayload()
			assert.ErrorIs(t, err, ErrNotSubmittable)
		})
	}
}

func TestWizard_IsSubmittable_IndependentOfAddons(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})
	fillTrip(t, w)

	for _, c := range CatalogCategories {
		require.NoError(t, w.ToggleSkip(c))
	}

	assert.True(t, w.IsSubmittable())

	req, err := w.BuildSubmissionPayload()
	require.NoError(t, err)
	assert.Nil(t, req.TransportID)
	assert.True(t, req.Preferences.SkipTransport)
}

func TestWizard_FreshWizardNotSubmittable(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})

	assert.False(t, w.IsSubmittable())
	assert.Equal(t, 1, w.State().Travelers)
}

func TestWizard_SelectDate(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})

	assert.False(t, w.SelectDate(Start, 31, time.January, 2025), "past day")
	assert.False(t, w.SelectDate(Start, 30, time.February, 2025), "nonexistent day")
	assert.True(t, w.SelectDate(Start, 1, time.February, 2025), "today is allowed")

	require.True(t, w.SelectDate(Start, 31, time.January, 2026))
	assert.False(t, w.SelectDate(End, 31, time.January, 2026), "end equal to start")
	assert.False(t, w.SelectDate(End, 30, time.January, 2026), "end before start")
	assert.True(t, w.SelectDate(End, 1, time.February, 2026), "end across month boundary")

	state := w.State()
	assert.Equal(t, "2026-01-31", state.StartDate.String())
	assert.Equal(t, "2026-02-01", state.EndDate.String())
}

func TestWizard_SelectDate_RejectedEndLeavesStateUnchanged(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})
	fillTrip(t, w)

	before := w.State()

	assert.False(t, w.SelectDate(End, 1, time.March, 2025))
	assert.Equal(t, before, w.State())
}

func TestWizard_SelectDate_AcrossYearBoundary(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})

	require.True(t, w.SelectDate(Start, 31, time.December, 2025))
	assert.True(t, w.SelectDate(End, 1, time.January, 2026))
}

func TestWizard_MonthNavigation(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})

	assert.Equal(t, calendar.Month{Year: 2025, Month: time.February}, w.VisibleMonth(Start))

	assert.Equal(t, calendar.Month{Year: 2025, Month: time.January}, w.PrevMonth(Start))
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.December}, w.PrevMonth(Start))

	for range 11 {
		w.NextMonth(End)
	}

	assert.Equal(t, calendar.Month{Year: 2026, Month: time.January}, w.VisibleMonth(End))
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.December}, w.VisibleMonth(Start))
}

func TestWizard_SetTravelersRange(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})

	require.ErrorIs(t, w.SetTravelers(21), ErrTravelersRange)
	require.ErrorIs(t, w.SetTravelers(-1), ErrTravelersRange)
	require.NoError(t, w.SetTravelers(20))
	assert.Equal(t, 20, w.State().Travelers)
}

func TestWizard_SelectOption(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})

	require.NoError(t, w.SelectOption(CategoryHotel, "h1"))
	require.NoError(t, w.ToggleSkip(CategoryHotel))

	s := w.Selection(CategoryHotel)
	assert.True(t, s.Skipped())

	require.NoError(t, w.SelectOption(CategoryHotel, "h1"))
	assert.True(t, w.Selection(CategoryHotel).Skipped())

	require.ErrorIs(t, w.SelectOption("spa", "s1"), ErrUnknownCategory)
}

func TestWizard_WithSkipped(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{}, WithSkipped(CategoryVehicle))
	fillTrip(t, w)

	req, err := w.BuildSubmissionPayload()
	require.NoError(t, err)
	assert.True(t, req.Preferences.SkipVehicle)
	assert.False(t, req.Preferences.SkipHotel)
}

func TestWizard_InvalidBudget(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})
	fillTrip(t, w)
	require.NoError(t, w.SetBudget("lots"))

	_, err := w.BuildSubmissionPayload()

	inputErr := validation.IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Contains(t, inputErr.Fields(), "budget")
}

func TestWizard_LoadOptionCatalogs(t *testing.T) {
	catalogs := testCatalogs()
	w := newTestWizard(catalogs, &fakeCreator{})

	require.NoError(t, w.LoadOptionCatalogs(context.Background()))

	state := w.State()
	assert.Len(t, state.Catalogs[CategoryTransport], 2)
	assert.Len(t, state.Catalogs[CategoryHotel], 1)
	assert.Len(t, state.Catalogs[CategoryGuide], 1)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.ElementsMatch(t, CatalogCategories, catalogs.calls)
}

func TestWizard_LoadOptionCatalogs_AnyFailureFailsAll(t *testing.T) {
	catalogs := testCatalogs()
	catalogs.errs = map[Category]error{CategoryGuide: errUpstream}
	w := newTestWizard(catalogs, &fakeCreator{})

	err := w.LoadOptionCatalogs(context.Background())

	require.ErrorIs(t, err, ErrCatalogs)
	require.ErrorIs(t, err, errUpstream)

	state := w.State()
	assert.Empty(t, state.Catalogs)
	assert.NotEmpty(t, state.Error)
	assert.False(t, state.Loading)
}

func TestWizard_EstimatedTotal(t *testing.T) {
	w := newTestWizard(testCatalogs(), &fakeCreator{})
	require.NoError(t, w.LoadOptionCatalogs(context.Background()))

	require.NoError(t, w.SelectOption(CategoryTransport, "t2"))
	require.NoError(t, w.SelectOption(CategoryHotel, "h1"))
	require.NoError(t, w.SelectOption(CategoryGuide, "unknown"))

	assert.InDelta(t, 15500.0, w.EstimatedTotal(), 0.0001)
}

func TestWizard_Submit(t *testing.T) {
	creator := &fakeCreator{created: &CreatedPackage{ID: "42", Title: "Dhaka to Cox's Bazar Package"}}
	w := newTestWizard(testCatalogs(), creator)
	fillTrip(t, w)

	created, err := w.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)
	require.Len(t, creator.got, 1)
	assert.Equal(t, "Dhaka", creator.got[0].FromLocation)
	assert.True(t, w.Done())

	_, err = w.Submit(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, w.SetOrigin("Sylhet"), ErrClosed)
	assert.False(t, w.SelectDate(Start, 2, time.March, 2025))
	assert.Len(t, creator.got, 1)
}

func TestWizard_Submit_Failure(t *testing.T) {
	creator := &fakeCreator{err: errUpstream}
	w := newTestWizard(testCatalogs(), creator)
	fillTrip(t, w)

	_, err := w.Submit(context.Background())

	require.ErrorIs(t, err, errUpstream)
	assert.False(t, w.Done())

	state := w.State()
	assert.NotEmpty(t, state.Error)
	assert.False(t, state.Submitting)
}

func TestWizard_Submit_Incomplete(t *testing.T) {
	creator := &fakeCreator{}
	w := newTestWizard(testCatalogs(), creator)

	_, err := w.Submit(context.Background())

	require.ErrorIs(t, err, ErrNotSubmittable)
	assert.Empty(t, creator.got)
	assert.NotEmpty(t, w.State().Error)
}
