package astro

import "time"

// julianDayNumber returns the integer Julian Day Number of a Gregorian
// calendar date (Fliegel & Van Flandern).
func julianDayNumber(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// JulianDate returns the Julian date at 00:00 UT of the given calendar date.
func JulianDate(year, month, day int) float64 {
	return float64(julianDayNumber(year, month, day)) - 0.5
}

// JulianTime returns the Julian date of the given UT calendar date and
// time of day.
func JulianTime(year, month, day, hour, minute, second int) float64 {
	return float64(julianDayNumber(year, month, day)) +
		float64(hour-12)/24 +
		float64(minute)/1440 +
		float64(second)/86400
}

// JulianDateOf returns the Julian date at 00:00 UT of the UTC day of t.
func JulianDateOf(t time.Time) float64 {
	u := t.UTC()
	return JulianDate(u.Year(), int(u.Month()), u.Day())
}

// JulianTimeOf returns the Julian date of the instant t, including the
// sub-second fraction.
func JulianTimeOf(t time.Time) float64 {
	u := t.UTC()
	return JulianTime(u.Year(), int(u.Month()), u.Day(), u.Hour(), u.Minute(), u.Second()) +
		float64(u.Nanosecond())/86400e9
}
