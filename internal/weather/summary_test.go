package weather

import (
	"math"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	base := time.Date(2024, 10, 1, 18, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}

	tests := []struct {
		name    string
		temps   []int
		clouds  []int
		winds   []int
		aqis    []float64
		check   func(t *testing.T, s Summary)
	}{
		{
			name:   "min and max",
			temps:  []int{4, -2, 1},
			clouds: []int{10, 90, 40},
			winds:  []int{3, 12, 5},
			aqis:   []float64{1, 2, 3},
			check: func(t *testing.T, s Summary) {
				if s.MinTemp != -2 || s.MaxTemp != 4 {
					t.Errorf("temp = %d..%d", s.MinTemp, s.MaxTemp)
				}
				if s.MinClouds != 10 || s.MaxClouds != 90 {
					t.Errorf("clouds = %d..%d", s.MinClouds, s.MaxClouds)
				}
				if s.MinWind != 3 || s.MaxWind != 12 {
					t.Errorf("wind = %d..%d", s.MinWind, s.MaxWind)
				}
				if s.AirPollution == nil || math.Abs(*s.AirPollution-2) > 1e-12 {
					t.Errorf("air pollution = %v, want 2", s.AirPollution)
				}
			},
		},
		{
			name:   "calm night keeps wind floor",
			temps:  []int{1, 1, 1},
			clouds: []int{0, 0, 0},
			winds:  []int{1, 2, 0},
			check: func(t *testing.T, s Summary) {
				if s.MaxWind != MinMaxWind || s.MinWind != 0 {
					t.Errorf("wind = %d..%d, want 0..%d", s.MinWind, s.MaxWind, MinMaxWind)
				}
			},
		},
		{
			name:   "partial air quality is dropped",
			temps:  []int{1, 1, 1},
			clouds: []int{0, 0, 0},
			winds:  []int{1, 1, 1},
			aqis:   []float64{1.5, 1.7},
			check: func(t *testing.T, s Summary) {
				if s.AirPollution != nil {
					t.Errorf("air pollution = %v, want nil", *s.AirPollution)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(times, tt.temps, tt.clouds, tt.winds, tt.aqis)
			if len(s.Times) != 3 || len(s.Temps) != 3 || len(s.Clouds) != 3 || len(s.Winds) != 3 {
				t.Fatalf("series not aligned: %+v", s)
			}
			tt.check(t, s)
		})
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, nil, nil, nil)
	if s.MaxWind != MinMaxWind || s.AirPollution != nil {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestSummaryMeans(t *testing.T) {
	s := Summary{Clouds: []int{10, 20, 60}, Winds: []int{1, 2}}
	if got := s.MeanClouds(); got != 30 {
		t.Errorf("MeanClouds() = %v", got)
	}
	if got := s.MeanWind(); got != 1.5 {
		t.Errorf("MeanWind() = %v", got)
	}
	if got := (Summary{}).MeanClouds(); got != 0 {
		t.Errorf("MeanClouds() without samples = %v", got)
	}
}
