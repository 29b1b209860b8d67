package scale

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/satchart/internal/domain"
)

func pointsAt(timestamps ...int64) []domain.BalancePoint {
	points := make([]domain.BalancePoint, 0, len(timestamps))
	for _, ts := range timestamps {
		points = append(points, domain.BalancePoint{Timestamp: ts, Balances: domain.Amounts{}})
	}
	return points
}

func TestTimeUnitFor(t *testing.T) {
	tests := []struct {
		name string
		span int64
		want domain.TimeUnit
	}{
		{name: "zero span", span: 0, want: domain.TimeUnitMinutes},
		{name: "just under three hours", span: 3*3600 - 1, want: domain.TimeUnitMinutes},
		{name: "exactly three hours", span: 3 * 3600, want: domain.TimeUnitHours},
		{name: "two days", span: 2 * 86400, want: domain.TimeUnitHours},
		{name: "just under three days", span: 3*86400 - 1, want: domain.TimeUnitHours},
		{name: "exactly three days", span: 3 * 86400, want: domain.TimeUnitDays},
		{name: "a year", span: 365 * 86400, want: domain.TimeUnitDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeUnitFor(tt.span))
		})
	}
}

func TestTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		points    []domain.BalancePoint
		divisions int
		want      domain.AxisRange
	}{
		{
			name:      "minutes",
			points:    pointsAt(1000, 1000, 2000, 2000),
			divisions: 5,
			want:      domain.AxisRange{Min: 840, Max: 2040, Unit: "minutes"},
		},
		{
			name:      "max on a boundary moves to the next one",
			points:    pointsAt(60, 120),
			divisions: 1,
			want:      domain.AxisRange{Min: 0, Max: 180, Unit: "minutes"},
		},
		{
			name:      "hours",
			points:    pointsAt(0, 5*3600),
			divisions: 5,
			want:      domain.AxisRange{Min: -4 * 3600, Max: 6 * 3600, Unit: "hours"},
		},
		{
			name:      "days",
			points:    pointsAt(0, 4*86400),
			divisions: 5,
			want:      domain.AxisRange{Min: 0, Max: 5 * 86400, Unit: "days"},
		},
		{
			name:      "single timestamp",
			points:    pointsAt(1_700_000_030),
			divisions: 5,
			want:      domain.AxisRange{Min: 1_700_000_040 - 300, Max: 1_700_000_040, Unit: "minutes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeRange(tt.points, tt.divisions, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeRange_Properties(t *testing.T) {
	datasets := [][]int64{
		{1_700_000_000, 1_700_000_777},
		{1_700_000_000, 1_700_020_000},
		{1_700_000_000, 1_700_500_000},
		{1_600_000_000, 1_700_000_000},
		{-500, 500},
		{1_700_003_600, 1_700_007_200, 1_700_090_000},
	}

	for _, ts := range datasets {
		for divisions := 1; divisions <= 8; divisions++ {
			r, err := TimeRange(pointsAt(ts...), divisions, time.UTC)
			require.NoError(t, err)

			unit, err := r.TimeUnit()
			require.NoError(t, err)
			for _, v := range ts {
				assert.True(t, r.Contains(float64(v)), "%d outside %+v", v, r)
			}
			assert.Greater(t, r.Max, float64(ts[len(ts)-1]))

			ticks := TimeTicks(r, divisions, time.UTC)
			require.Len(t, ticks, divisions+1)
			assert.Equal(t, int64(r.Min), ticks[0])
			assert.Equal(t, int64(r.Max), ticks[divisions])
			for _, tick := range ticks {
				assert.Zero(t, floorMod(tick, unit.Seconds()), "tick %d not aligned to %s", tick, unit)
			}
		}
	}
}

func TestTimeRange_Location(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name      string
		loc       *time.Location
		first     time.Time
		last      time.Time
		divisions int
		unit      domain.TimeUnit
		ticks     []time.Time
	}{
		{
			name:      "days on local midnight",
			loc:       newYork,
			first:     time.Date(2024, 1, 1, 12, 0, 0, 0, newYork),
			last:      time.Date(2024, 1, 10, 12, 0, 0, 0, newYork),
			divisions: 5,
			unit:      domain.TimeUnitDays,
			ticks: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, newYork),
				time.Date(2024, 1, 3, 0, 0, 0, 0, newYork),
				time.Date(2024, 1, 5, 0, 0, 0, 0, newYork),
				time.Date(2024, 1, 7, 0, 0, 0, 0, newYork),
				time.Date(2024, 1, 9, 0, 0, 0, 0, newYork),
				time.Date(2024, 1, 11, 0, 0, 0, 0, newYork),
			},
		},
		{
			name:      "days across a DST change",
			loc:       newYork,
			first:     time.Date(2024, 3, 8, 12, 0, 0, 0, newYork),
			last:      time.Date(2024, 3, 12, 12, 0, 0, 0, newYork),
			divisions: 5,
			unit:      domain.TimeUnitDays,
			ticks: []time.Time{
				time.Date(2024, 3, 8, 0, 0, 0, 0, newYork),
				time.Date(2024, 3, 9, 0, 0, 0, 0, newYork),
				time.Date(2024, 3, 10, 0, 0, 0, 0, newYork),
				time.Date(2024, 3, 11, 0, 0, 0, 0, newYork),
				time.Date(2024, 3, 12, 0, 0, 0, 0, newYork),
				time.Date(2024, 3, 13, 0, 0, 0, 0, newYork),
			},
		},
		{
			name:      "hours in a half-hour offset zone",
			loc:       kolkata,
			first:     time.Date(2024, 1, 5, 4, 10, 0, 0, kolkata),
			last:      time.Date(2024, 1, 5, 9, 10, 0, 0, kolkata),
			divisions: 5,
			unit:      domain.TimeUnitHours,
			ticks: []time.Time{
				time.Date(2024, 1, 5, 0, 0, 0, 0, kolkata),
				time.Date(2024, 1, 5, 2, 0, 0, 0, kolkata),
				time.Date(2024, 1, 5, 4, 0, 0, 0, kolkata),
				time.Date(2024, 1, 5, 6, 0, 0, 0, kolkata),
				time.Date(2024, 1, 5, 8, 0, 0, 0, kolkata),
				time.Date(2024, 1, 5, 10, 0, 0, 0, kolkata),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := TimeRange(pointsAt(tt.first.Unix(), tt.last.Unix()), tt.divisions, tt.loc)
			require.NoError(t, err)
			assert.Equal(t, string(tt.unit), r.Unit)

			want := make([]int64, len(tt.ticks))
			for i, tick := range tt.ticks {
				want[i] = tick.Unix()
			}
			assert.Equal(t, want, TimeTicks(r, tt.divisions, tt.loc))
			assert.Equal(t, float64(want[0]), r.Min)
			assert.Equal(t, float64(want[len(want)-1]), r.Max)
		})
	}
}

func TestTimeRange_InvalidInput(t *testing.T) {
	_, err := TimeRange(nil, 5, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = TimeRange(pointsAt(1, 2), 0, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
