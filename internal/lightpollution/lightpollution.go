// Package lightpollution interpolates a run-length compressed light
// pollution raster covering Scandinavia.
package lightpollution

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"
)

// Raster geometry.
const (
	Width       = 3360
	Height      = 2160
	BucketWidth = 840
)

// Index scale.
const (
	// HighPollution is the index above which the sky is considered washed out.
	HighPollution = 7
	// MaxIndex is the brightest value the raster holds.
	MaxIndex = 11
)

// Raster holds, per row, Width/BucketWidth buckets of flattened
// (value, run) pairs whose runs sum to BucketWidth.
type Raster [][][]int

// Decode parses a raster document.
func Decode(data []byte) (Raster, error) {
	var r Raster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	return r, nil
}

// PixelFor maps coordinates onto raster pixel space. The coefficients come
// from a linear fit of the source image.
func PixelFor(lat, lon float64) (x, y float64) {
	return 120.0981*lon - 182.4666, -120.0824*lat + 8643.5663
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// Value returns the index of pixel (x, y), or false when the pixel is out
// of range or its row or bucket is missing.
func Value(r Raster, x, y int) (int, bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height || y >= len(r) {
		return 0, false
	}

	row := r[y]
	n := x / BucketWidth
	if n >= len(row) {
		return 0, false
	}
	bucket := row[n]
	pairs := len(bucket) / 2

	// Walk from whichever end of the bucket is nearer.
	pos := x % BucketWidth
	fromLeft := pos < BucketWidth/2
	offset := pos
	if !fromLeft {
		offset = BucketWidth - pos - 1
	}

	for k := 0; k < pairs; k++ {
		i := 2 * k
		if !fromLeft {
			i = 2*(pairs-k) - 2
		}
		value, run := bucket[i], bucket[i+1]
		if offset < run {
			return value, true
		}
		offset -= run
	}
	return 0, false
}

// Interpolate returns the distance-weighted mean of the four lattice
// pixels around (px, py), rounded to the nearest integer. Weights are the
// distances themselves. A pixel hit exactly returns its own value.
func Interpolate(r Raster, px, py float64) (int, bool) {
	x0, y0 := int(math.Floor(px)), int(math.Floor(py))
	neighbours := [4][2]int{{x0, y0}, {x0 + 1, y0}, {x0, y0 + 1}, {x0 + 1, y0 + 1}}

	var sum, total float64
	for _, nb := range neighbours {
		v, ok := Value(r, nb[0], nb[1])
		if !ok {
			continue
		}
		d := Distance(float64(nb[0]), float64(nb[1]), px, py)
		if d == 0 {
			return v, true
		}
		sum += d * float64(v)
		total += d
	}
	if total == 0 {
		return 0, false
	}
	return int(math.Round(sum / total)), true
}

// Index is a load-once holder for the raster. It is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	raster Raster
	loaded bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Load decodes the raster from r. Once loaded, further calls are no-ops.
func (ix *Index) Load(r io.Reader) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.loaded {
		return nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read raster: %w", err)
	}
	raster, err := Decode(data)
	if err != nil {
		return err
	}
	ix.raster = raster
	ix.loaded = true
	return nil
}

// SetRaster installs an already decoded raster.
func (ix *Index) SetRaster(r Raster) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.raster = r
	ix.loaded = true
}

// Loaded reports whether a raster is present.
func (ix *Index) Loaded() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.loaded
}

// At returns the interpolated index (0-11) at the given coordinates.
func (ix *Index) At(lat, lon float64) (int, bool) {
	px, py := PixelFor(lat, lon)
	return ix.AtPixel(px, py)
}

// AtPixel returns the interpolated index at a fractional pixel position.
func (ix *Index) AtPixel(px, py float64) (int, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if !ix.loaded {
		return 0, false
	}
	return Interpolate(ix.raster, px, py)
}
