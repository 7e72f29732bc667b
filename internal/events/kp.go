package events

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/nattklar/internal/astro"
)

// KpThreshold is the KP index above which polar lights are likely to be
// seen from southern Scandinavia.
const KpThreshold = 3.0

const (
	kpTableMarker = "00-03UT"
	kpPeriods     = 8
	kpDays        = 3
)

// ErrNoKpTable is returned when a report has no KP breakdown table.
var ErrNoKpTable = errors.New("no KP breakdown table in report")

// KpReading is the forecast KP index for one three-hour period.
type KpReading struct {
	Period    string
	StartHour int
	Kp        float64
}

// KpForecast holds the readings of the three forecast days, day 0 being
// the issue day.
type KpForecast struct {
	Days [kpDays][]KpReading
}

// ParseKpForecast extracts the KP breakdown from a NOAA SWPC three-day
// forecast report. Storm scale annotations such as "(G1)" are ignored.
func ParseKpForecast(report string) (KpForecast, error) {
	var f KpForecast

	sc := bufio.NewScanner(strings.NewReader(report))
	found, row := false, 0
	for sc.Scan() && row < kpPeriods {
		line := sc.Text()
		if !found {
			if !strings.HasPrefix(line, kpTableMarker) {
				continue
			}
			found = true
		}

		var fields []string
		for _, tok := range strings.Fields(line) {
			if !strings.HasPrefix(tok, "(") {
				fields = append(fields, tok)
			}
		}
		if len(fields) < 1+kpDays {
			return KpForecast{}, fmt.Errorf("KP row %d: want %d columns, got %q", row, 1+kpDays, line)
		}

		period := fields[0]
		start, err := periodStartHour(period)
		if err != nil {
			return KpForecast{}, err
		}
		for d := 0; d < kpDays; d++ {
			kp, err := strconv.ParseFloat(fields[1+d], 64)
			if err != nil {
				return KpForecast{}, fmt.Errorf("KP row %s day %d: %w", period, d, err)
			}
			f.Days[d] = append(f.Days[d], KpReading{Period: period, StartHour: start, Kp: kp})
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return KpForecast{}, fmt.Errorf("read KP report: %w", err)
	}
	if !found {
		return KpForecast{}, ErrNoKpTable
	}
	if row < kpPeriods {
		return KpForecast{}, fmt.Errorf("KP table truncated after %d rows", row)
	}
	return f, nil
}

// periodStartHour reads the start hour of a label such as "06-09UT".
func periodStartHour(period string) (int, error) {
	if len(period) < 2 {
		return 0, fmt.Errorf("bad KP period %q", period)
	}
	h, err := strconv.Atoi(period[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad KP period %q", period)
	}
	return h, nil
}

// Rand picks alert hours. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// PolarLightEvents turns a KP forecast into at most one alert per day,
// for the strongest period above KpThreshold. Periods on the issue day
// that start within three hours of now are ignored.
func PolarLightEvents(f KpForecast, now time.Time, rnd Rand) []NightEvent {
	now = now.UTC()
	var out []NightEvent
	for day := 0; day < kpDays; day++ {
		best, found := 0.0, false
		for _, r := range f.Days[day] {
			if day == 0 && r.StartHour < now.Hour()+3 {
				continue
			}
			if r.Kp > KpThreshold && r.Kp > best {
				best, found = r.Kp, true
			}
		}
		if found {
			out = append(out, polarLightEvent(alertTime(now, day, rnd), best))
		}
	}
	return out
}

// alertTime places the alert for the given day. During the evening and
// night of the issue day the current hour is kept; otherwise an afternoon
// hour before 18:00 is drawn.
func alertTime(now time.Time, day int, rnd Rand) time.Time {
	h := now.Hour()
	hour := h
	if day != 0 || (h >= 12 && h < 18) {
		lo := min(max(h, 12), 17)
		hour = lo + rnd.IntN(18-lo)
	}
	return astro.WithHour(astro.PlusDays(now, day), hour, 0)
}

func polarLightEvent(when time.Time, kp float64) NightEvent {
	return NightEvent{
		When:             when,
		Type:             TypePolarLight,
		Title:            "High polar light activity",
		ShortDescription: fmt.Sprintf("High polar light activity expected (Kp %.2f)!", kp),
		Description:      "Tonight there will be high polar light activity! Head outside for a spectacular view!",
	}
}
