// Package resources implements the learning-resource catalog and the
// drill-down browser over it: grade, then subject, then resource type, then
// the matching resource list.
package resources

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed catalog.json
var defaultCatalogJSON []byte

// Resource is one browsable learning resource.
type Resource struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Grade   string `json:"grade"`
	Subject string `json:"subject"`
	Type    string `json:"type"`
	URL     string `json:"url"`
}

// Catalog is an immutable in-memory set of resources supporting the
// equality filters the browser drills down with.
type Catalog struct {
	resources []Resource
}

// NewCatalog creates a catalog over the given resources.
func NewCatalog(resources []Resource) *Catalog {
	return &Catalog{resources: resources}
}

// DefaultCatalog loads the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	var resources []Resource
	if err := json.Unmarshal(defaultCatalogJSON, &resources); err != nil {
		return nil, fmt.Errorf("failed to parse bundled resource catalog: %w", err)
	}
	return NewCatalog(resources), nil
}

// Grades returns the distinct grades present in the catalog, sorted.
func (c *Catalog) Grades() []string {
	return c.distinct(func(r Resource) (string, bool) {
		return r.Grade, true
	})
}

// Subjects returns the distinct subjects available within a grade, sorted.
func (c *Catalog) Subjects(grade string) []string {
	return c.distinct(func(r Resource) (string, bool) {
		return r.Subject, r.Grade == grade
	})
}

// Types returns the distinct resource types available within a grade and
// subject, sorted.
func (c *Catalog) Types(grade, subject string) []string {
	return c.distinct(func(r Resource) (string, bool) {
		return r.Type, r.Grade == grade && r.Subject == subject
	})
}

// Find returns the resources matching all three filters.
func (c *Catalog) Find(grade, subject, resourceType string) []Resource {
	var matches []Resource
	for _, r := range c.resources {
		if r.Grade == grade && r.Subject == subject && r.Type == resourceType {
			matches = append(matches, r)
		}
	}
	return matches
}

// Len returns the number of resources in the catalog.
func (c *Catalog) Len() int {
	return len(c.resources)
}

func (c *Catalog) distinct(pick func(r Resource) (string, bool)) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, r := range c.resources {
		value, ok := pick(r)
		if !ok {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
