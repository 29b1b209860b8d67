// Package scale derives axis ranges and evenly spaced ticks for the balance chart.
package scale

import (
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// DefaultDivisions number of intervals each axis is split into.
const DefaultDivisions = 5

const (
	minutesBelow = 3 * 60 * 60
	daysFrom     = 3 * 24 * 60 * 60
)

// TimeUnitFor picks the tick granularity for a span of seconds.
func TimeUnitFor(span int64) domain.TimeUnit {
	switch {
	case span < minutesBelow:
		return domain.TimeUnitMinutes
	case span >= daysFrom:
		return domain.TimeUnitDays
	default:
		return domain.TimeUnitHours
	}
}

// TimeRange computes the time axis in loc. Max is the first local unit boundary strictly after
// the newest point; Min steps back from Max in blocks of divisions units until it reaches the
// oldest point, so every one of the divisions gridlines lands on a local unit boundary.
func TimeRange(points []domain.BalancePoint, divisions int, loc *time.Location) (domain.AxisRange, error) {
	if len(points) == 0 {
		return domain.AxisRange{}, errors.Wrap(domain.ErrInvalidInput, "no points to scale")
	}
	if divisions < 1 {
		return domain.AxisRange{}, errors.Wrapf(domain.ErrInvalidInput, "divisions must be positive, got %d", divisions)
	}
	if loc == nil {
		loc = time.UTC
	}

	lo, hi := points[0].Timestamp, points[0].Timestamp
	for _, p := range points[1:] {
		lo = min(lo, p.Timestamp)
		hi = max(hi, p.Timestamp)
	}

	unit := TimeUnitFor(hi - lo)
	var lower, upper int64
	if unit == domain.TimeUnitDays {
		last := time.Unix(hi, 0).In(loc)
		end := midnight(last).AddDate(0, 0, 1)
		perDivision := ceilDiv(int64(civilDays(midnight(time.Unix(lo, 0).In(loc)), end)), int64(divisions))
		lower = end.AddDate(0, 0, -int(perDivision)*divisions).Unix()
		upper = end.Unix()
	} else {
		step := unit.Seconds()
		_, offset := time.Unix(hi, 0).In(loc).Zone()
		local := hi + int64(offset)
		upper = floorDiv(local, step)*step + step - int64(offset)
		block := step * int64(divisions)
		lower = upper - ceilDiv(upper-lo, block)*block
	}

	return domain.AxisRange{
		Min:  float64(lower),
		Max:  float64(upper),
		Unit: string(unit),
	}, nil
}

// TimeTicks returns the divisions+1 gridline timestamps of a time axis computed in loc. Day
// ticks advance by calendar days so they stay on local midnight across DST changes.
func TimeTicks(r domain.AxisRange, divisions int, loc *time.Location) []int64 {
	if divisions < 1 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	lower, upper := int64(r.Min), int64(r.Max)
	ticks := make([]int64, 0, divisions+1)

	if domain.TimeUnit(r.Unit) == domain.TimeUnitDays {
		start := time.Unix(lower, 0).In(loc)
		perDivision := civilDays(start, time.Unix(upper, 0).In(loc)) / divisions
		for i := 0; i <= divisions; i++ {
			ticks = append(ticks, start.AddDate(0, 0, i*perDivision).Unix())
		}
		return ticks
	}

	interval := (upper - lower) / int64(divisions)
	for i := 0; i <= divisions; i++ {
		ticks = append(ticks, lower+int64(i)*interval)
	}
	return ticks
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// civilDays counts calendar days from the date of a to the date of b, ignoring wall clock and
// offset changes in between.
func civilDays(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}
