package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMondayOnOrBefore(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday stays put", day(2025, 3, 10), day(2025, 3, 10)},
		{"wednesday rolls back", day(2025, 3, 12), day(2025, 3, 10)},
		{"sunday rolls back six days", day(2025, 3, 16), day(2025, 3, 10)},
		{"crosses a month boundary", day(2025, 5, 1), day(2025, 4, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mondayOnOrBefore(tt.in))
		})
	}
}

func TestWeekWindow(t *testing.T) {
	now := day(2025, 3, 12) // a Wednesday

	t.Run("nil start anchors at the current Monday", func(t *testing.T) {
		from, to := weekWindow(nil, now)
		assert.Equal(t, day(2025, 3, 10), from)
		assert.Equal(t, day(2025, 3, 16), to)
	})

	t.Run("explicit start is used as-is", func(t *testing.T) {
		start := day(2025, 3, 5)
		from, to := weekWindow(&start, now)
		assert.Equal(t, start, from)
		assert.Equal(t, day(2025, 3, 11), to)
	})

	t.Run("last week is the previous Monday", func(t *testing.T) {
		assert.Equal(t, day(2025, 3, 3), lastWeekStart(now))
	})
}

func TestMonthWindow(t *testing.T) {
	now := day(2025, 3, 12)

	t.Run("explicit year and month", func(t *testing.T) {
		from, to, err := monthWindow(2025, 2, now)
		require.NoError(t, err)
		assert.Equal(t, day(2025, 2, 1), from)
		assert.Equal(t, day(2025, 2, 28), to)
	})

	t.Run("zero values default to the current month", func(t *testing.T) {
		from, to, err := monthWindow(0, 0, now)
		require.NoError(t, err)
		assert.Equal(t, day(2025, 3, 1), from)
		assert.Equal(t, day(2025, 3, 31), to)
	})

	t.Run("negative values also default", func(t *testing.T) {
		from, _, err := monthWindow(-1, -3, now)
		require.NoError(t, err)
		assert.Equal(t, day(2025, 3, 1), from)
	})

	t.Run("month above 12 is rejected", func(t *testing.T) {
		_, _, err := monthWindow(2025, 13, now)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("last month wraps across January", func(t *testing.T) {
		year, month := lastMonth(day(2025, 1, 15))
		assert.Equal(t, 2024, year)
		assert.Equal(t, 12, month)
	})

	t.Run("last month on March 31 is February", func(t *testing.T) {
		// date arithmetic would normalize Feb 31 back into March
		year, month := lastMonth(time.Date(2025, 3, 31, 10, 0, 0, 0, time.UTC))
		assert.Equal(t, 2025, year)
		assert.Equal(t, 2, month)
	})
}

func TestMonthWeeks(t *testing.T) {
	t.Run("march splits into five spans", func(t *testing.T) {
		spans := monthWeeks(day(2025, 3, 1), day(2025, 3, 31))
		require.Len(t, spans, 5)

		assert.Equal(t, 1, spans[0].Number)
		assert.Equal(t, day(2025, 3, 1), spans[0].Start)
		assert.Equal(t, day(2025, 3, 7), spans[0].End)

		// last span clamps to month end
		assert.Equal(t, 5, spans[4].Number)
		assert.Equal(t, day(2025, 3, 29), spans[4].Start)
		assert.Equal(t, day(2025, 3, 31), spans[4].End)
	})

	t.Run("february 2024 splits evenly", func(t *testing.T) {
		spans := monthWeeks(day(2024, 2, 1), day(2024, 2, 29))
		require.Len(t, spans, 5)
		assert.Equal(t, day(2024, 2, 29), spans[4].Start)
		assert.Equal(t, day(2024, 2, 29), spans[4].End)
	})
}
