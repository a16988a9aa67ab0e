package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is wrapped by every Validate failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Category is one entry of the closed category set.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"` // matched case-insensitively as substrings
	Images   []string `yaml:"images"`
}

// Catalog holds the keyword and image tables used to classify listings.
// Category order matters: it breaks ties in Classify.
type Catalog struct {
	Categories []Category `yaml:"categories"`
	Fallback   string     `yaml:"fallback"`

	intn func(n int) int
}

// Load reads a catalog from a YAML file and validates it
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks that the catalog is usable: at least one category, unique
// names, a non-empty image pool everywhere, and a fallback from the set.
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidCatalog)
	}

	seen := make(map[string]bool)
	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: category %d has no name", ErrInvalidCatalog, i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Images) == 0 {
			return fmt.Errorf("%w: category %q has no images", ErrInvalidCatalog, cat.Name)
		}
	}

	if !seen[c.Fallback] {
		return fmt.Errorf("%w: fallback %q is not a category", ErrInvalidCatalog, c.Fallback)
	}

	return nil
}

// Names returns the category names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// Classify returns the category whose keywords occur most often in text.
// Ties go to the category listed first; no hits at all give the fallback.
func (c *Catalog) Classify(text string) string {
	text = strings.ToLower(text)

	best := c.Fallback
	bestHits := 0
	for _, cat := range c.Categories {
		hits := 0
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			hits += strings.Count(text, kw)
		}
		if hits > bestHits {
			best = cat.Name
			bestHits = hits
		}
	}

	return best
}

// Image picks a random image for category. Unknown categories use the
// fallback category's pool. Repeats across calls are expected.
func (c *Catalog) Image(category string) string {
	pool := c.pool(category)
	if len(pool) == 0 {
		pool = c.pool(c.Fallback)
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[c.randIntN(len(pool))]
}

// WithRand replaces the random source used by Image; intn must return a
// value in [0, n).
func (c *Catalog) WithRand(intn func(n int) int) *Catalog {
	c.intn = intn
	return c
}

func (c *Catalog) randIntN(n int) int {
	if c.intn != nil {
		return c.intn(n)
	}
	return rand.Intn(n)
}

func (c *Catalog) pool(name string) []string {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat.Images
		}
	}
	return nil
}
