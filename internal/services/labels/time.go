// Package labels formats axis tick values for display.
package labels

import (
	"strconv"
	"time"

	"github.com/vadiminshakov/satchart/internal/domain"
)

const dateLayout = "2-Jan-2006"

// TimeLabels formats the ticks of a time axis. Day ticks show the date only. Hour and minute
// ticks show the time of day and are prefixed with the date whenever it differs from the date
// of the previous tick.
func TimeLabels(ticks []int64, unit domain.TimeUnit, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}

	out := make([]string, 0, len(ticks))
	prevDate := ""
	for _, ts := range ticks {
		tm := time.Unix(ts, 0).In(loc)
		date := tm.Format(dateLayout)

		var clock string
		switch unit {
		case domain.TimeUnitHours:
			clock = hourWord(tm.Hour())
		case domain.TimeUnitMinutes:
			clock = tm.Format("15:04")
		default:
			out = append(out, date)
			prevDate = date
			continue
		}

		if date != prevDate {
			clock = date + " " + clock
		}
		out = append(out, clock)
		prevDate = date
	}
	return out
}

func hourWord(hour int) string {
	switch {
	case hour == 0:
		return "midnight"
	case hour == 12:
		return "mid-day"
	case hour < 12:
		return strconv.Itoa(hour) + "am"
	default:
		return strconv.Itoa(hour-12) + "pm"
	}
}
