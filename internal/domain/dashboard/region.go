package dashboard

// Region names one display area of the dashboard.
type Region string

const (
	RegionCurrent     Region = "current"
	RegionHourly      Region = "hourly"
	RegionDaily       Region = "daily"
	RegionAstronomy   Region = "astronomy"
	RegionHistory     Region = "history"
	RegionAgriculture Region = "agriculture"
	RegionAirQuality  Region = "airQuality"
	RegionActivities  Region = "activities"
	RegionResorts     Region = "resorts"
	RegionWater       Region = "water"
	RegionPreferences Region = "preferences"
)

// Regions lists every region in render order.
func Regions() []Region {
	return []Region{
		RegionCurrent, RegionHourly, RegionDaily, RegionAstronomy, RegionHistory,
		RegionAgriculture, RegionAirQuality, RegionActivities, RegionResorts,
		RegionWater, RegionPreferences,
	}
}

// Renderer is the capability a presentation layer exposes: render region R with value V
// if region R is present.
type Renderer interface {
	Has(region Region) bool
	Render(region Region, value any)
}

// Event says what changed before a refresh.
type Event string

const (
	EventInit               Event = "init"
	EventDataLoaded         Event = "data_loaded"
	EventDayChanged         Event = "day_changed"
	EventUnitsChanged       Event = "units_changed"
	EventPreferencesChanged Event = "preferences_changed"
	EventFavoritesChanged   Event = "favorites_changed"
)

var dayDependent = []Region{
	RegionCurrent, RegionHourly, RegionDaily, RegionAstronomy, RegionHistory,
	RegionAgriculture, RegionResorts, RegionWater,
}

// affected returns the regions whose derived values depend on what event changed.
func (e Event) affected() []Region {
	switch e {
	case EventDayChanged:
		return dayDependent
	case EventUnitsChanged:
		return append(append([]Region(nil), dayDependent...), RegionPreferences)
	case EventPreferencesChanged, EventFavoritesChanged:
		return []Region{RegionPreferences}
	default:
		return Regions()
	}
}

// Unavailable is rendered for regions whose data is absent.
type Unavailable struct {
	Unavailable bool   `json:"unavailable"`
	Reason      string `json:"reason"`
}

func unavailable(reason string) Unavailable {
	return Unavailable{Unavailable: true, Reason: reason}
}

// Placeholder reasons.
const (
	ReasonNoData       = "no forecast loaded"
	ReasonNotFetched   = "not available for this location"
	ReasonNoSource     = "not provided by the weather api"
	ReasonNoCoordinate = "location coordinates unknown"
)
