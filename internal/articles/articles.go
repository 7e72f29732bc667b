// Package articles serves the bundled reference articles about
// constellations and observing.
package articles

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Article is one reference text. Any string field may be empty.
type Article struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Constellation string `json:"constellation"`
	Body          string `json:"body"`
	Category      string `json:"category"`
}

// Library is a load-once article collection, safe for concurrent use.
type Library struct {
	mu       sync.RWMutex
	loaded   bool
	articles []Article
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{}
}

// Load decodes the articles document. Later calls are no-ops once a load
// has succeeded.
func (l *Library) Load(r io.Reader) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return nil
	}

	var list []Article
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return fmt.Errorf("decode articles: %w", err)
	}
	l.articles = list
	l.loaded = true
	return nil
}

// Loaded reports whether the library has been populated.
func (l *Library) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// All returns every article in document order.
func (l *Library) All() []Article {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Article, len(l.articles))
	copy(out, l.articles)
	return out
}

// FilterByCategory returns the articles whose category matches, ignoring
// case, in document order.
func (l *Library) FilterByCategory(category string) []Article {
	return l.filter(func(a Article) bool {
		return strings.EqualFold(a.Category, category)
	})
}

// ByConstellation returns the articles about the named constellation.
func (l *Library) ByConstellation(name string) []Article {
	return l.filter(func(a Article) bool {
		return a.Constellation != "" && strings.EqualFold(a.Constellation, name)
	})
}

// Categories lists the distinct categories in first-seen order.
func (l *Library) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, a := range l.articles {
		key := strings.ToLower(a.Category)
		if a.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a.Category)
	}
	return out
}

func (l *Library) filter(keep func(Article) bool) []Article {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Article
	for _, a := range l.articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
