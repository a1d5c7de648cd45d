// Package timeutil wraps the application timezone.
package timeutil

import (
	"fmt"
	"time"
)

// DatetimeLayout is the default wire format for datetimes.
const DatetimeLayout = "2006-01-02 15:04:05"

// TimeZone converts and parses times in a fixed location.
type TimeZone struct {
	loc    *time.Location
	layout string
}

// Default is used by schema types when rendering datetimes.
var Default = &TimeZone{loc: time.UTC, layout: DatetimeLayout}

// New loads the named IANA location. An empty layout selects DatetimeLayout.
func New(name, layout string) (*TimeZone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	if layout == "" {
		layout = DatetimeLayout
	}
	return &TimeZone{loc: loc, layout: layout}, nil
}

// SetDefault replaces Default.
func SetDefault(tz *TimeZone) {
	if tz != nil {
		Default = tz
	}
}

func (tz *TimeZone) Location() *time.Location { return tz.loc }

func (tz *TimeZone) Layout() string { return tz.layout }

// Now returns the current time in the zone.
func (tz *TimeZone) Now() time.Time {
	return time.Now().In(tz.loc)
}

// In converts t into the zone.
func (tz *TimeZone) In(t time.Time) time.Time {
	return t.In(tz.loc)
}

// Format renders t in the zone using the configured layout.
func (tz *TimeZone) Format(t time.Time) string {
	return t.In(tz.loc).Format(tz.layout)
}

// Parse reads s with the configured layout as a wall time in the zone.
func (tz *TimeZone) Parse(s string) (time.Time, error) {
	return time.ParseInLocation(tz.layout, s, tz.loc)
}

// UTC converts t to UTC.
func UTC(t time.Time) time.Time {
	return t.UTC()
}
