// Package forecast holds the multi-day forecast and the selected day.
package forecast

import (
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

// Store owns the loaded forecast days and the selected day index.
// It is not safe for concurrent use; the owning dashboard serializes access.
type Store struct {
	days     []Day
	selected int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the stored days and selects the first one.
// Empty input leaves the store untouched. Days must be strictly ascending by date.
func (s *Store) Load(days []Day) error {
	if len(days) == 0 {
		return nil
	}
	for i := 1; i < len(days); i++ {
		if util.DayKey(days[i].Date) <= util.DayKey(days[i-1].Date) {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "forecast days must be one per date in ascending order", nil)
		}
	}
	copied := make([]Day, len(days))
	for i, d := range days {
		d.Hourly = append([]HourlySample(nil), d.Hourly...)
		copied[i] = d
	}
	s.days = copied
	s.selected = 0
	return nil
}

// SelectDay moves the selection when index is in range and reports whether it did.
func (s *Store) SelectDay(index int) bool {
	if index < 0 || index >= len(s.days) {
		return false
	}
	s.selected = index
	return true
}

// CurrentDay returns the selected day or Empty.
func (s *Store) CurrentDay() Day {
	if len(s.days) == 0 {
		return Empty
	}
	return s.days[s.selected]
}

// SelectedIndex returns the selected day index.
func (s *Store) SelectedIndex() int {
	return s.selected
}

// Len returns the number of loaded days.
func (s *Store) Len() int {
	return len(s.days)
}

// Days returns a copy of the loaded days.
func (s *Store) Days() []Day {
	return append([]Day(nil), s.days...)
}

// Reset discards the loaded forecast.
func (s *Store) Reset() {
	s.days = nil
	s.selected = 0
}
