package domain

import "github.com/pkg/errors"

// TimeUnit granularity of the time axis.
type TimeUnit string

const (
	TimeUnitMinutes TimeUnit = "minutes"
	TimeUnitHours   TimeUnit = "hours"
	TimeUnitDays    TimeUnit = "days"
)

// Seconds returns the length of one unit.
func (u TimeUnit) Seconds() int64 {
	switch u {
	case TimeUnitMinutes:
		return 60
	case TimeUnitHours:
		return 60 * 60
	case TimeUnitDays:
		return 24 * 60 * 60
	default:
		return 0
	}
}

// IsValid checks if the TimeUnit value is valid.
func (u TimeUnit) IsValid() bool {
	return u == TimeUnitMinutes || u == TimeUnitHours || u == TimeUnitDays
}

// AxisRange bounds of one chart axis. Unit holds a TimeUnit for the time axis
// and a Currency for the value axis.
type AxisRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// Span returns Max - Min.
func (r AxisRange) Span() float64 {
	return r.Max - r.Min
}

// TimeUnit returns the unit of a time axis.
func (r AxisRange) TimeUnit() (TimeUnit, error) {
	u := TimeUnit(r.Unit)
	if !u.IsValid() {
		return "", errors.Wrapf(ErrInvalidInput, "axis unit %q is not a time unit", r.Unit)
	}
	return u, nil
}

// Currency returns the unit of a value axis.
func (r AxisRange) Currency() (Currency, error) {
	return ParseCurrency(r.Unit)
}

// Contains reports whether v lies within [Min, Max].
func (r AxisRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// CanvasPoint position on the drawing canvas.
type CanvasPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
