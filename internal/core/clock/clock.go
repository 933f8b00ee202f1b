package clock

import (
	"fmt"
	"time"
)

// istOffset is India Standard Time, used when the tz database lacks the zone.
const istOffset = 5*60*60 + 30*60

// Reading is the formatted wall-clock time for one instant.
type Reading struct {
	Hours12  string
	Minutes  string
	Seconds  string
	Meridiem string
	DateLine string
}

// Compact renders the reading as "hh:mm:ss AM".
func (reading Reading) Compact() string {
	return fmt.Sprintf("%s:%s:%s %s", reading.Hours12, reading.Minutes, reading.Seconds, reading.Meridiem)
}

// Render formats instant in loc.
func Render(instant time.Time, loc *time.Location) Reading {
	if loc == nil {
		loc = LoadLocation("")
	}
	local := instant.In(loc)
	return Reading{
		Hours12:  local.Format("03"),
		Minutes:  local.Format("04"),
		Seconds:  local.Format("05"),
		Meridiem: local.Format("PM"),
		DateLine: dateLine(local),
	}
}

// LoadLocation resolves a zone name. Empty names and names missing from the
// tz database resolve to India Standard Time.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("IST", istOffset)
	}
	return loc
}

// dateLine renders "Monday, January 2nd, 2006".
func dateLine(local time.Time) string {
	day := local.Day()
	return fmt.Sprintf("%s, %s %d%s, %d", local.Weekday(), local.Month(), day, ordinalSuffix(day), local.Year())
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
