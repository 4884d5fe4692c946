package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

func TestStoreLoadResetsSelection(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Load(sampleDays(3)))
	require.True(t, store.SelectDay(2))
	require.Equal(t, 2, store.SelectedIndex())

	require.NoError(t, store.Load(sampleDays(7)))
	require.Equal(t, 0, store.SelectedIndex())
	require.Equal(t, 7, store.Len())
}

func TestStoreSelectDayOutOfRangeIsNoop(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Load(sampleDays(3)))
	require.True(t, store.SelectDay(1))

	require.False(t, store.SelectDay(-1))
	require.Equal(t, 1, store.SelectedIndex())
	require.False(t, store.SelectDay(store.Len()))
	require.Equal(t, 1, store.SelectedIndex())
	require.Equal(t, sampleDays(3)[1].Date, store.CurrentDay().Date)
}

func TestStoreEmptyLoadKeepsSentinel(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Load(nil))
	require.Equal(t, 0, store.Len())
	require.True(t, store.CurrentDay().IsEmpty())
	require.False(t, store.SelectDay(0))
}

func TestStoreEmptyLoadDoesNotClearExisting(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Load(sampleDays(2)))
	require.NoError(t, store.Load([]Day{}))
	require.Equal(t, 2, store.Len())
}

func TestStoreRejectsUnorderedDays(t *testing.T) {
	store := NewStore()
	days := sampleDays(3)
	days[1], days[2] = days[2], days[1]

	err := store.Load(days)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Equal(t, 0, store.Len())

	dup := sampleDays(2)
	dup[1].Date = dup[0].Date.Add(3 * time.Hour)
	require.Error(t, store.Load(dup))
}

func TestStoreCopiesInput(t *testing.T) {
	store := NewStore()
	days := sampleDays(1)
	require.NoError(t, store.Load(days))
	days[0].Hourly[0].Temperature = 99
	require.NotEqual(t, 99.0, store.CurrentDay().Hourly[0].Temperature)
}

func TestStoreReset(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Load(sampleDays(2)))
	store.Reset()
	require.True(t, store.CurrentDay().IsEmpty())
}

func sampleDays(n int) []Day {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		date := base.AddDate(0, 0, i)
		days = append(days, Day{
			Date:    date,
			TempAvg: 20 + float64(i),
			TempMin: 15,
			TempMax: 25,
			Hourly: []HourlySample{
				{Time: date.Add(12 * time.Hour), Temperature: 21},
			},
		})
	}
	return days
}
