package weather

import (
	"strings"
	"time"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/lightpollution"
)

// Rating grades the stargazing conditions of a night.
type Rating int

const (
	Good Rating = iota
	Fair
	Poor
)

func (r Rating) String() string {
	switch r {
	case Good:
		return "Good"
	case Fair:
		return "Fair"
	case Poor:
		return "Poor"
	default:
		return "Unknown"
	}
}

// Thresholds for the assessment.
const (
	veryShortNight  = 2 * time.Hour
	shortNight      = 4 * time.Hour
	heavyClouds     = 50.0
	someClouds      = 30.0
	strongWind      = 6.0
	someWind        = 4.0
	veryPoorAir     = 4.2
	poorAir         = 3.5
	almostOverHours = 4
)

// Assessment explains a rating. Factors lists what lowered it; Note warns
// when the night is ending.
type Assessment struct {
	Rating  Rating
	Factors []string
	Note    string
}

// Assess rates a night. lightIndex may be nil when the location is
// outside the light pollution raster.
func Assess(n Night, lightIndex *int, now time.Time) Assessment {
	var poor, fair []string

	if lightIndex != nil && *lightIndex > lightpollution.HighPollution {
		fair = append(fair, "high light pollution")
	}

	sp := n.Solar
	switch {
	case sp.HasTransitions():
		length := sp.NightLength()
		if length < veryShortNight {
			poor = append(poor, "a very short night")
		}
		if length < shortNight {
			fair = append(fair, "a short night")
		}
	case sp.SolarMidnightElevation > 0:
		poor = append(poor, "no night")
	}

	clouds := n.Conditions.MeanClouds()
	if clouds > heavyClouds {
		poor = append(poor, "heavy cloud cover")
	}
	if clouds > someClouds {
		fair = append(fair, "some clouds")
	}
	wind := n.Conditions.MeanWind()
	if wind > strongWind {
		poor = append(poor, "strong wind")
	}
	if wind > someWind {
		fair = append(fair, "some wind")
	}
	if aqi := n.Conditions.AirPollution; aqi != nil {
		if *aqi > veryPoorAir {
			poor = append(poor, "very poor air quality")
		}
		if *aqi > poorAir {
			fair = append(fair, "poor air quality")
		}
	}

	var note string
	if sp.Sunrise != nil {
		left := astro.HoursBetween(*sp.Sunrise, now)
		switch {
		case left < 0:
			note = "the night is over"
		case left < almostOverHours:
			note = "the night is almost over"
		}
	}

	switch {
	case len(poor) > 0:
		return Assessment{Rating: Poor, Factors: poor, Note: note}
	case len(fair) > 0:
		return Assessment{Rating: Fair, Factors: fair, Note: note}
	default:
		return Assessment{Rating: Good}
	}
}

// Message renders the assessment as a sentence or two.
func (a Assessment) Message() string {
	var b strings.Builder
	b.WriteString(a.Rating.String())
	b.WriteString(" stargazing conditions")

	switch {
	case a.Rating == Good:
		b.WriteString("!")
		return b.String()
	case a.Note == "":
		b.WriteString(".")
	case a.Rating == Fair:
		b.WriteString(". But " + a.Note + ".")
	default:
		b.WriteString(". And " + a.Note + ".")
	}

	if len(a.Factors) > 0 {
		b.WriteString("\nLimited by ")
		b.WriteString(joinFactors(a.Factors))
		b.WriteString(".")
	}
	return b.String()
}

func joinFactors(fs []string) string {
	switch len(fs) {
	case 1:
		return fs[0]
	default:
		return strings.Join(fs[:len(fs)-1], ", ") + " and " + fs[len(fs)-1]
	}
}
