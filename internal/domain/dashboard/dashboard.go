package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
	"github.com/yanqian/weather-dashboard/internal/domain/units"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Dashboard owns the state of one session. Every method is serialized; network calls
// run outside the lock and only the latest load may commit.
type Dashboard struct {
	mu       sync.Mutex
	api      WeatherAPI
	days     *forecast.Store
	prefs    *preferences.Store
	renderer Renderer
	logger   *slog.Logger

	city       string
	country    string
	lat, lon   float64
	hasCoords  bool
	current    *forecast.Current
	air        *forecast.AirQuality
	activities *advisor.Response

	latestRequest uint64
}

// New loads the persisted preferences and renders the initial view.
func New(ctx context.Context, api WeatherAPI, prefs *preferences.Store, renderer Renderer, logger *slog.Logger) (*Dashboard, error) {
	if _, err := prefs.Load(ctx); err != nil {
		return nil, err
	}
	if _, err := prefs.Favorites(ctx); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = MultiRenderer{}
	}
	d := &Dashboard{
		api:      api,
		days:     forecast.NewStore(),
		prefs:    prefs,
		renderer: renderer,
		logger:   logger.With("component", "dashboard", "profile", prefs.Profile()),
	}
	d.mu.Lock()
	d.refreshLocked(EventInit)
	d.mu.Unlock()
	return d, nil
}

const genericLoadFailure = "failed to load weather data"

type loadResult struct {
	current    forecast.Current
	days       []forecast.Day
	air        *forecast.AirQuality
	activities *advisor.Response
}

// Search loads current conditions and the daily forecast for city and commits them
// all-or-nothing. Air quality and activities are best effort.
func (d *Dashboard) Search(ctx context.Context, city string) (View, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "please enter a city name", nil)
	}

	d.mu.Lock()
	d.latestRequest++
	id := d.latestRequest
	d.mu.Unlock()

	res, err := d.fetch(ctx, city)
	if err != nil {
		d.logger.Warn("dashboard load failed", "city", city, "request", id, "error", err)
		d.mu.Lock()
		if id == d.latestRequest {
			d.discardLocked()
		}
		d.mu.Unlock()
		return nil, apperrors.Wrap(apperrors.CodeLoadFailed, loadFailureMessage(err), err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if id != d.latestRequest {
		d.logger.Info("discarding stale load", "city", city, "request", id, "latest", d.latestRequest)
		return nil, apperrors.Wrap(apperrors.CodeStaleResponse, "a newer search superseded this one", nil)
	}
	if err := d.days.Load(res.days); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadFailed, "forecast data is inconsistent", err)
	}

	cur := res.current
	d.city = firstNonEmpty(cur.City, city)
	d.country = cur.Country
	d.lat, d.lon, d.hasCoords = cur.Lat, cur.Lon, cur.HasCoordinates()
	d.current = &cur
	d.air = res.air
	d.activities = res.activities
	d.logger.Info("dashboard loaded", "city", d.city, "days", d.days.Len(), "air", d.air != nil, "activities", d.activities != nil)
	return d.refreshLocked(EventDataLoaded), nil
}

// discardLocked drops the loaded city so every data region renders unavailable.
func (d *Dashboard) discardLocked() {
	d.days.Reset()
	d.city, d.country = "", ""
	d.lat, d.lon, d.hasCoords = 0, 0, false
	d.current = nil
	d.air = nil
	d.activities = nil
	d.refreshLocked(EventDataLoaded)
}

// loadFailureMessage keeps messages from the weather API and hides raw transport errors.
func loadFailureMessage(err error) string {
	if apperrors.CodeOf(err) == "" {
		return genericLoadFailure
	}
	return apperrors.MessageOf(err)
}

func (d *Dashboard) fetch(ctx context.Context, city string) (loadResult, error) {
	var res loadResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := d.api.Current(gctx, city)
		res.current = cur
		return err
	})
	g.Go(func() error {
		days, err := d.api.DailyForecast(gctx, city)
		res.days = days
		return err
	})
	if err := g.Wait(); err != nil {
		return loadResult{}, err
	}
	if len(res.days) == 0 {
		return loadResult{}, apperrors.Wrap(apperrors.CodeLoadFailed, "no forecast data returned", nil)
	}

	var optional sync.WaitGroup
	if res.current.HasCoordinates() {
		optional.Add(1)
		go func() {
			defer optional.Done()
			air, err := d.api.AirQuality(ctx, res.current.Lat, res.current.Lon)
			if err != nil {
				d.logger.Debug("air quality unavailable", "city", city, "error", err)
				return
			}
			res.air = &air
		}()
	}
	optional.Add(1)
	go func() {
		defer optional.Done()
		acts, err := d.api.Activities(ctx, city)
		if err != nil {
			d.logger.Debug("activities unavailable", "city", city, "error", err)
			return
		}
		res.activities = &acts
	}()
	optional.Wait()
	return res, nil
}

// Locate resolves coordinates to a city name and searches for it.
func (d *Dashboard) Locate(ctx context.Context, lat, lon float64) (View, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "coordinates are out of range", nil)
	}
	name, err := d.api.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeGeocodeFailed, "could not determine the city", err)
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Wrap(apperrors.CodeGeocodeFailed, "could not determine the city", nil)
	}
	return d.Search(ctx, name)
}

// SelectDay moves the selection. Out of range indexes change nothing and report false.
func (d *Dashboard) SelectDay(index int) (View, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.days.SelectDay(index) {
		return Derive(d.snapshotLocked()), false
	}
	return d.refreshLocked(EventDayChanged), true
}

// SetUnits switches temperature and speed units together.
func (d *Dashboard) SetUnits(ctx context.Context, system units.System) (View, error) {
	return d.savePreferences(ctx, preferences.UnitsPatch(system), EventUnitsChanged)
}

// SetTemperatureUnit switches only the temperature unit.
func (d *Dashboard) SetTemperatureUnit(ctx context.Context, system units.System) (View, error) {
	return d.savePreferences(ctx, preferences.Patch{TemperatureUnit: &system}, EventUnitsChanged)
}

// SetSpeedUnit switches only the speed unit.
func (d *Dashboard) SetSpeedUnit(ctx context.Context, system units.System) (View, error) {
	return d.savePreferences(ctx, preferences.Patch{SpeedUnit: &system}, EventUnitsChanged)
}

// SetTheme persists the color scheme.
func (d *Dashboard) SetTheme(ctx context.Context, theme preferences.Theme) (View, error) {
	return d.savePreferences(ctx, preferences.Patch{Theme: &theme}, EventPreferencesChanged)
}

// SetTab persists the last active tab.
func (d *Dashboard) SetTab(ctx context.Context, tab string) (View, error) {
	return d.savePreferences(ctx, preferences.Patch{LastActiveTab: &tab}, EventPreferencesChanged)
}

func (d *Dashboard) savePreferences(ctx context.Context, patch preferences.Patch, event Event) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.prefs.Save(ctx, patch); err != nil {
		return nil, err
	}
	return d.refreshLocked(event), nil
}

// AddFavorite saves city, or the loaded city when city is blank.
func (d *Dashboard) AddFavorite(ctx context.Context, city string) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	city = strings.TrimSpace(city)
	if city == "" {
		city = d.city
	}
	if _, err := d.prefs.AddFavorite(ctx, city); err != nil {
		return nil, err
	}
	return d.refreshLocked(EventFavoritesChanged), nil
}

// RemoveFavorite drops every exact match of city.
func (d *Dashboard) RemoveFavorite(ctx context.Context, city string) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.prefs.RemoveFavorite(ctx, city); err != nil {
		return nil, err
	}
	return d.refreshLocked(EventFavoritesChanged), nil
}

// Refresh re-derives the view and renders the regions event affects.
func (d *Dashboard) Refresh(event Event) View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshLocked(event)
}

// View derives the full view without rendering.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Derive(d.snapshotLocked())
}

// Snapshot copies the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) refreshLocked(event Event) View {
	view := Derive(d.snapshotLocked())
	for _, region := range event.affected() {
		if d.renderer.Has(region) {
			d.renderer.Render(region, view[region])
		}
	}
	return view
}

func (d *Dashboard) snapshotLocked() Snapshot {
	settings, favorites := d.prefs.Cached()
	return Snapshot{
		City:        d.city,
		Country:     d.country,
		Lat:         d.lat,
		Lon:         d.lon,
		HasCoords:   d.hasCoords,
		Days:        d.days.Days(),
		Selected:    d.days.SelectedIndex(),
		Current:     d.current,
		AirQuality:  d.air,
		Activities:  d.activities,
		Preferences: settings,
		Favorites:   favorites,
	}
}
