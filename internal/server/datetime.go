package server

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var errFutureTime = errors.New("time cannot be in the future")

// resolveTime combines optional date (YYYY-MM-DD) and clock (HH:MM) inputs in
// the local time zone. With neither it returns the zero time, which the lot
// treats as now. A date alone keeps the current clock time; a clock alone
// applies to today.
func resolveTime(date, clock string, now time.Time) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" && clock == "" {
		return time.Time{}, nil
	}

	loc := now.Location()
	var t time.Time

	switch {
	case date != "" && clock == "":
		d, err := time.ParseInLocation(dateLayout, date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
		t = time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, loc)
	case date == "" && clock != "":
		c, err := time.ParseInLocation(clockLayout, clock, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
		}
		t = time.Date(now.Year(), now.Month(), now.Day(), c.Hour(), c.Minute(), 0, 0, loc)
	default:
		parsed, err := time.ParseInLocation(dateLayout+"T"+clockLayout, date+"T"+clock, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
		}
		t = parsed
	}

	if t.After(now) {
		return time.Time{}, errFutureTime
	}
	return t, nil
}
