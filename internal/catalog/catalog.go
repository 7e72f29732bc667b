// Package catalog holds the star and constellation reference data.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"cloudeng.io/errors"

	"github.com/litescript/nattklar/internal/astro"
)

// MaxConstellationStars bounds the member list of one constellation.
const MaxConstellationStars = 30

// ErrUnknownStar is reported by Validate for dangling member references.
var ErrUnknownStar = errors.New("unknown star")

// Constellation lists member star names, brightest first.
type Constellation struct {
	Name  string   `json:"name"`
	Stars []string `json:"stars"`
}

// Catalog is a load-once repository of stars and constellations. It is
// safe for concurrent use.
type Catalog struct {
	mu             sync.RWMutex
	loaded         bool
	stars          map[string]astro.Star
	constellations map[string]Constellation
	order          []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Load decodes the stars and constellations documents. Once a load has
// succeeded further calls are no-ops and do not read either reader.
func (c *Catalog) Load(stars, constellations io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}

	var (
		starList []astro.Star
		consList []Constellation
		errs     errors.M
	)
	if err := json.NewDecoder(stars).Decode(&starList); err != nil {
		errs.Append(fmt.Errorf("decode stars: %w", err))
	}
	if err := json.NewDecoder(constellations).Decode(&consList); err != nil {
		errs.Append(fmt.Errorf("decode constellations: %w", err))
	}
	if err := errs.Err(); err != nil {
		return err
	}

	c.stars = make(map[string]astro.Star, len(starList))
	for _, s := range starList {
		c.stars[s.Name] = s
	}

	c.constellations = make(map[string]Constellation, len(consList))
	c.order = c.order[:0]
	for _, con := range consList {
		if len(con.Stars) > MaxConstellationStars {
			con.Stars = con.Stars[:MaxConstellationStars]
		}
		if _, dup := c.constellations[con.Name]; !dup {
			c.order = append(c.order, con.Name)
		}
		c.constellations[con.Name] = con
	}

	c.loaded = true
	return nil
}

// Loaded reports whether the catalog has been populated.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Star looks up a star by name.
func (c *Catalog) Star(name string) (astro.Star, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.stars[name]
	return s, ok
}

// Constellation looks up a constellation by name.
func (c *Catalog) Constellation(name string) (Constellation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	con, ok := c.constellations[name]
	return con, ok
}

// Constellations returns all constellations in document order.
func (c *Catalog) Constellations() []Constellation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Constellation, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.constellations[name])
	}
	return out
}

// Stars returns all stars, brightest first.
func (c *Catalog) Stars() []astro.Star {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]astro.Star, 0, len(c.stars))
	for _, s := range c.stars {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ApparentMagnitude != out[j].ApparentMagnitude {
			return out[i].ApparentMagnitude < out[j].ApparentMagnitude
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of stars and constellations held.
func (c *Catalog) Len() (stars, constellations int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stars), len(c.constellations)
}

// Validate reports every constellation member that has no star record.
func (c *Catalog) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs errors.M
	for _, name := range c.order {
		for _, member := range c.constellations[name].Stars {
			if _, ok := c.stars[member]; !ok {
				errs.Append(fmt.Errorf("%s: %w: %q", name, ErrUnknownStar, member))
			}
		}
	}
	return errs.Err()
}
