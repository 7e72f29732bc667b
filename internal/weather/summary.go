package weather

import "time"

// MinMaxWind is the floor for the reported maximum wind, keeping graph
// scales comparable between calm nights.
const MinMaxWind = 8

// Summarize condenses aligned series. The air pollution mean is reported
// only when every time step has an AQI value.
func Summarize(times []time.Time, temps, clouds, winds []int, aqis []float64) Summary {
	s := Summary{
		Times:  times,
		Temps:  temps,
		Clouds: clouds,
		Winds:  winds,
	}
	s.MinTemp, s.MaxTemp = minMax(temps)
	s.MinWind, s.MaxWind = minMax(winds)
	s.MinClouds, s.MaxClouds = minMax(clouds)
	s.MaxWind = max(s.MaxWind, MinMaxWind)

	if len(aqis) == len(times) && len(aqis) > 0 {
		var sum float64
		for _, a := range aqis {
			sum += a
		}
		avg := sum / float64(len(aqis))
		s.AirPollution = &avg
	}
	return s
}

func minMax(xs []int) (lo, hi int) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return lo, hi
}
