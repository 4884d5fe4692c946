package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
	"github.com/yanqian/weather-dashboard/internal/domain/units"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

func newTestDashboard(t *testing.T, api WeatherAPI, renderer Renderer) *Dashboard {
	t.Helper()
	store := preferences.NewStore(newMapBackend(), "tester", newTestLogger())
	d, err := New(context.Background(), api, store, renderer, newTestLogger())
	require.NoError(t, err)
	return d
}

func TestNewRendersInitialView(t *testing.T) {
	recorder := NewViewRecorder()
	newTestDashboard(t, newStubAPI(), recorder)

	for _, r := range Regions() {
		require.Equal(t, 1, recorder.RenderCount(r), r)
	}
	cur, ok := recorder.Value(RegionCurrent)
	require.True(t, ok)
	require.Equal(t, unavailable(ReasonNoData), cur)
}

func TestSearchLoadsAllRegions(t *testing.T) {
	api := newStubAPI()
	recorder := NewViewRecorder()
	d := newTestDashboard(t, api, recorder)

	view, err := d.Search(context.Background(), "  Kyiv ")
	require.NoError(t, err)

	cur := view[RegionCurrent].(CurrentView)
	require.Equal(t, "Kyiv", cur.City)
	require.Equal(t, 0, cur.DayIndex)
	require.True(t, cur.Live)

	air := view[RegionAirQuality].(forecast.AirQuality)
	require.Equal(t, "Fair", air.Label)
	require.IsType(t, CurrentView{}, recorder.Snapshot()[RegionCurrent])
	require.Equal(t, view, recorder.Snapshot())

	require.Equal(t, 1, api.count("current"))
	require.Equal(t, 1, api.count("daily"))
	require.Equal(t, 1, api.count("air"))
	require.Equal(t, 1, api.count("activities"))
}

func TestSearchRejectsBlankCityBeforeFetching(t *testing.T) {
	api := newStubAPI()
	d := newTestDashboard(t, api, nil)

	_, err := d.Search(context.Background(), "   ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, api.total())
}

func TestSearchFailureOnEmptyDashboardRendersUnavailable(t *testing.T) {
	api := newStubAPI()
	recorder := NewViewRecorder()
	d := newTestDashboard(t, api, recorder)

	api.dailyErr = apperrors.Wrap(apperrors.CodeUpstream, "forecast service is down", nil)
	api.airErr = errors.New("air down")

	_, err := d.Search(context.Background(), "Kyiv")
	require.True(t, apperrors.IsCode(err, apperrors.CodeLoadFailed))
	require.Equal(t, "forecast service is down", apperrors.MessageOf(err))

	snap := d.Snapshot()
	require.Empty(t, snap.Days)
	require.Empty(t, snap.City)
	require.Nil(t, snap.AirQuality)
	require.Equal(t, unavailable(ReasonNoData), recorder.Snapshot()[RegionCurrent])
	require.Equal(t, unavailable(ReasonNoData), d.View()[RegionAirQuality])
}

func TestSearchFailureDiscardsPreviousLoad(t *testing.T) {
	api := newStubAPI()
	recorder := NewViewRecorder()
	d := newTestDashboard(t, api, recorder)

	_, err := d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)
	d.SelectDay(2)
	require.IsType(t, CurrentView{}, recorder.Snapshot()[RegionCurrent])

	api.currentErr = errors.New("connection reset")
	api.airErr = errors.New("air down")
	_, err = d.Search(context.Background(), "Lviv")
	require.True(t, apperrors.IsCode(err, apperrors.CodeLoadFailed))
	require.Equal(t, "failed to load weather data", apperrors.MessageOf(err))

	snap := d.Snapshot()
	require.Empty(t, snap.City)
	require.Zero(t, snap.Selected)
	require.Empty(t, snap.Days)
	require.Nil(t, snap.Current)
	require.Nil(t, snap.AirQuality)
	require.Nil(t, snap.Activities)

	for _, region := range []Region{RegionCurrent, RegionHourly, RegionDaily, RegionAirQuality, RegionActivities} {
		require.Equal(t, unavailable(ReasonNoData), recorder.Snapshot()[region], region)
		require.Equal(t, unavailable(ReasonNoData), d.View()[region], region)
	}
}

func TestOptionalFailuresDoNotFailTheLoad(t *testing.T) {
	api := newStubAPI()
	api.airErr = errors.New("air down")
	api.activityErr = errors.New("advisor down")
	d := newTestDashboard(t, api, nil)

	view, err := d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.Equal(t, unavailable(ReasonNotFetched), view[RegionAirQuality])
	require.Equal(t, unavailable(ReasonNotFetched), view[RegionActivities])
	require.IsType(t, CurrentView{}, view[RegionCurrent])
}

func TestUnitSwitchDoesNotFetch(t *testing.T) {
	api := newStubAPI()
	recorder := NewViewRecorder()
	d := newTestDashboard(t, api, recorder)

	_, err := d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)
	calls := api.total()

	view, err := d.SetUnits(context.Background(), units.Imperial)
	require.NoError(t, err)
	require.Equal(t, calls, api.total())

	cur := view[RegionCurrent].(CurrentView)
	require.Equal(t, 77.0, cur.Temperature)
	require.Equal(t, 79.0, cur.FeelsLike)
	require.Equal(t, 11.2, cur.WindSpeed)

	rendered, _ := recorder.Value(RegionHourly)
	require.Equal(t, "°F", rendered.(HourlyView).TemperatureUnit)
	rendered, _ = recorder.Value(RegionPreferences)
	require.Equal(t, units.Imperial, rendered.(PreferencesView).TemperatureUnit)

	view, err = d.SetSpeedUnit(context.Background(), units.Metric)
	require.NoError(t, err)
	require.Equal(t, 5.0, view[RegionCurrent].(CurrentView).WindSpeed)
	require.Equal(t, 77.0, view[RegionCurrent].(CurrentView).Temperature)

	view, err = d.SetTemperatureUnit(context.Background(), units.Metric)
	require.NoError(t, err)
	require.Equal(t, 25.0, view[RegionCurrent].(CurrentView).Temperature)
	require.Equal(t, calls, api.total())
}

func TestSelectDay(t *testing.T) {
	api := newStubAPI()
	recorder := NewViewRecorder()
	d := newTestDashboard(t, api, recorder)
	_, err := d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)
	before := recorder.RenderCount(RegionCurrent)

	_, ok := d.SelectDay(-1)
	require.False(t, ok)
	_, ok = d.SelectDay(3)
	require.False(t, ok)
	require.Equal(t, 0, d.Snapshot().Selected)
	require.Equal(t, before, recorder.RenderCount(RegionCurrent))

	view, ok := d.SelectDay(1)
	require.True(t, ok)
	require.Equal(t, 1, view[RegionCurrent].(CurrentView).DayIndex)
	require.Equal(t, before+1, recorder.RenderCount(RegionCurrent))
	require.Equal(t, 2, recorder.RenderCount(RegionAirQuality))
}

func TestNewSearchResetsSelectedDay(t *testing.T) {
	d := newTestDashboard(t, newStubAPI(), nil)
	_, err := d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)
	d.SelectDay(2)

	_, err = d.Search(context.Background(), "Lviv")
	require.NoError(t, err)
	require.Equal(t, 0, d.Snapshot().Selected)
	require.Equal(t, "Lviv", d.Snapshot().City)
}

func TestStaleSearchIsDiscarded(t *testing.T) {
	api := newStubAPI()
	api.gates["Kyiv"] = make(chan struct{})
	api.started = make(chan string, 1)
	d := newTestDashboard(t, api, nil)

	errs := make(chan error, 1)
	go func() {
		_, err := d.Search(context.Background(), "Kyiv")
		errs <- err
	}()

	select {
	case <-api.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first search never started")
	}

	_, err := d.Search(context.Background(), "Lviv")
	require.NoError(t, err)

	close(api.gates["Kyiv"])
	select {
	case err = <-errs:
	case <-time.After(2 * time.Second):
		t.Fatal("first search never finished")
	}
	require.True(t, apperrors.IsCode(err, apperrors.CodeStaleResponse))
	require.Equal(t, "Lviv", d.Snapshot().City)
}

func TestRefreshIsIdempotent(t *testing.T) {
	recorder := NewViewRecorder()
	d := newTestDashboard(t, newStubAPI(), recorder)
	_, err := d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)

	first := d.Refresh(EventDataLoaded)
	rendered := recorder.Snapshot()
	second := d.Refresh(EventDataLoaded)
	require.Equal(t, first, second)
	require.Equal(t, rendered, recorder.Snapshot())
}

func TestRendererPresenceIsRespected(t *testing.T) {
	recorder := NewViewRecorder(RegionCurrent, RegionDaily)
	d := newTestDashboard(t, newStubAPI(), recorder)
	_, err := d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)

	snap := recorder.Snapshot()
	require.Len(t, snap, 2)
	require.Contains(t, snap, RegionCurrent)
	require.Contains(t, snap, RegionDaily)
	require.Zero(t, recorder.RenderCount(RegionHourly))
}

func TestLocate(t *testing.T) {
	api := newStubAPI()
	d := newTestDashboard(t, api, nil)

	_, err := d.Locate(context.Background(), 95, 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	api.geocodeErr = errors.New("geocoder down")
	_, err = d.Locate(context.Background(), 49.84, 24.03)
	require.True(t, apperrors.IsCode(err, apperrors.CodeGeocodeFailed))

	api.geocodeErr = nil
	_, err = d.Locate(context.Background(), 49.84, 24.03)
	require.True(t, apperrors.IsCode(err, apperrors.CodeGeocodeFailed))

	api.geocodeName = "Lviv"
	view, err := d.Locate(context.Background(), 49.84, 24.03)
	require.NoError(t, err)
	require.Equal(t, "Lviv", view[RegionCurrent].(CurrentView).City)
}

func TestFavoritesAndPreferences(t *testing.T) {
	recorder := NewViewRecorder()
	d := newTestDashboard(t, newStubAPI(), recorder)

	_, err := d.AddFavorite(context.Background(), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = d.Search(context.Background(), "Kyiv")
	require.NoError(t, err)
	view, err := d.AddFavorite(context.Background(), "")
	require.NoError(t, err)
	prefs := view[RegionPreferences].(PreferencesView)
	require.Equal(t, []string{"Kyiv"}, prefs.Favorites)
	require.True(t, prefs.CityIsFavorite)

	view, err = d.AddFavorite(context.Background(), "Lviv")
	require.NoError(t, err)
	require.Equal(t, []string{"Lviv", "Kyiv"}, view[RegionPreferences].(PreferencesView).Favorites)

	view, err = d.RemoveFavorite(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.Equal(t, []string{"Lviv"}, view[RegionPreferences].(PreferencesView).Favorites)

	currentRenders := recorder.RenderCount(RegionCurrent)
	view, err = d.SetTheme(context.Background(), preferences.ThemeDark)
	require.NoError(t, err)
	require.Equal(t, preferences.ThemeDark, view[RegionPreferences].(PreferencesView).Theme)
	require.Equal(t, currentRenders, recorder.RenderCount(RegionCurrent))

	_, err = d.SetTab(context.Background(), "garden")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	view, err = d.SetTab(context.Background(), "astronomy")
	require.NoError(t, err)
	require.Equal(t, "astronomy", view[RegionPreferences].(PreferencesView).LastActiveTab)
}

func TestPreferencesSurviveNewDashboard(t *testing.T) {
	backend := newMapBackend()
	store := preferences.NewStore(backend, "shared", newTestLogger())
	d, err := New(context.Background(), newStubAPI(), store, nil, newTestLogger())
	require.NoError(t, err)
	_, err = d.SetUnits(context.Background(), units.Imperial)
	require.NoError(t, err)
	_, err = d.AddFavorite(context.Background(), "Odesa")
	require.NoError(t, err)

	again, err := New(context.Background(), newStubAPI(), preferences.NewStore(backend, "shared", newTestLogger()), nil, newTestLogger())
	require.NoError(t, err)
	snap := again.Snapshot()
	require.Equal(t, units.Imperial, snap.Preferences.TemperatureUnit)
	require.Equal(t, []string{"Odesa"}, snap.Favorites)
}
