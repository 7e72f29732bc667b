package catalog

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

const starsJSON = `[
  {"name": "Vega", "constellation": "Lyra",
   "rightAscension": {"hours": 18, "minutes": 36, "seconds": 56.3},
   "declination": {"degrees": 38, "minutes": 47, "seconds": 1.0},
   "apparentMagnitude": 0.03, "absoluteMagnitude": 0.58, "distanceLightYear": 25.0, "spectralClass": "A0V"},
  {"name": "Sheliak", "constellation": "Lyra",
   "rightAscension": {"hours": 18, "minutes": 50, "seconds": 4.8},
   "declination": {"degrees": 33, "minutes": 21, "seconds": 46.0},
   "apparentMagnitude": 3.52, "absoluteMagnitude": -1.0, "distanceLightYear": -1.0, "spectralClass": "B7"}
]`

const constellationsJSON = `[
  {"name": "Lyra", "stars": ["Vega", "Sheliak"]},
  {"name": "Cygnus", "stars": ["Deneb"]}
]`

func TestLoad(t *testing.T) {
	c := New()
	if c.Loaded() {
		t.Fatal("new catalog reports loaded")
	}
	if err := c.Load(strings.NewReader(starsJSON), strings.NewReader(constellationsJSON)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	vega, ok := c.Star("Vega")
	if !ok {
		t.Fatal("Vega not found")
	}
	if vega.RightAscension.Hours != 18 || vega.Declination.Minutes != 47 || vega.SpectralClass != "A0V" {
		t.Errorf("Vega decoded wrong: %+v", vega)
	}
	sheliak, _ := c.Star("Sheliak")
	if sheliak.HasDistance() {
		t.Error("Sheliak distance should be unknown")
	}

	lyra, ok := c.Constellation("Lyra")
	if !ok || len(lyra.Stars) != 2 || lyra.Stars[0] != "Vega" {
		t.Errorf("Lyra = %+v, %v", lyra, ok)
	}

	names := c.Constellations()
	if len(names) != 2 || names[0].Name != "Lyra" || names[1].Name != "Cygnus" {
		t.Errorf("Constellations() order = %+v", names)
	}
	if stars := c.Stars(); len(stars) != 2 || stars[0].Name != "Vega" {
		t.Errorf("Stars() = %+v, want Vega first", stars)
	}
	if s, k := c.Len(); s != 2 || k != 2 {
		t.Errorf("Len() = %d, %d", s, k)
	}
}

type countingReader struct {
	r     *strings.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestLoadIsIdempotent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	readers := make([]*countingReader, 8)
	for i := range readers {
		readers[i] = &countingReader{r: strings.NewReader(starsJSON)}
	}
	for i := range readers {
		wg.Add(1)
		go func(r *countingReader) {
			defer wg.Done()
			if err := c.Load(r, strings.NewReader(constellationsJSON)); err != nil {
				t.Errorf("Load() error: %v", err)
			}
		}(readers[i])
	}
	wg.Wait()

	used := 0
	for _, r := range readers {
		if r.reads > 0 {
			used++
		}
	}
	if used != 1 {
		t.Errorf("stars document read by %d loads, want 1", used)
	}
}

func TestLoadCollectsDecodeErrors(t *testing.T) {
	c := New()
	err := c.Load(strings.NewReader("{"), strings.NewReader("not json"))
	if err == nil {
		t.Fatal("Load() with bad documents should fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "decode stars") || !strings.Contains(msg, "decode constellations") {
		t.Errorf("error should mention both documents: %v", msg)
	}
	if c.Loaded() {
		t.Error("failed load must not mark the catalog loaded")
	}
	if err := c.Load(strings.NewReader(starsJSON), strings.NewReader(constellationsJSON)); err != nil {
		t.Errorf("retry after failure: %v", err)
	}
}

func TestValidate(t *testing.T) {
	c := New()
	if err := c.Load(strings.NewReader(starsJSON), strings.NewReader(constellationsJSON)); err != nil {
		t.Fatal(err)
	}
	err := c.Validate()
	if !errors.Is(err, ErrUnknownStar) {
		t.Fatalf("Validate() = %v, want ErrUnknownStar", err)
	}
	if !strings.Contains(err.Error(), "Deneb") {
		t.Errorf("Validate() should name the missing star: %v", err)
	}
}

func TestLoadTruncatesLongConstellations(t *testing.T) {
	var b strings.Builder
	b.WriteString(`[{"name": "Big", "stars": [`)
	for i := 0; i < 40; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"s"`)
	}
	b.WriteString(`]}]`)

	c := New()
	if err := c.Load(strings.NewReader("[]"), strings.NewReader(b.String())); err != nil {
		t.Fatal(err)
	}
	big, _ := c.Constellation("Big")
	if len(big.Stars) != MaxConstellationStars {
		t.Errorf("members = %d, want %d", len(big.Stars), MaxConstellationStars)
	}
}
