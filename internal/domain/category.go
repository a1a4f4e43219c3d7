package domain

import (
	"fmt"
	"strings"
)

// Category classifies a pull request inside the release notes.
// The zero value is Basic.
type Category int

const (
	Basic Category = iota
	Breaking
	Training
)

// DefaultSectionOrder is the order in which categories appear in release notes.
var DefaultSectionOrder = []Category{Breaking, Training, Basic}

type categoryInfo struct {
	label     string
	shorthand string
}

var categories = map[Category]categoryInfo{
	Basic:    {label: "Basic"},
	Breaking: {label: "Breaking", shorthand: "b"},
	Training: {label: "Training", shorthand: "t"},
}

// categoryLookup maps every accepted answer to its category.
var categoryLookup = buildCategoryLookup()

func buildCategoryLookup() map[string]Category {
	lookup := map[string]Category{"": Basic}
	for c, info := range categories {
		name := strings.ToLower(info.label)
		lookup[name] = c
		lookup[name+" changes"] = c
		lookup[name+" change"] = c
		if info.shorthand != "" {
			lookup[info.shorthand] = c
		}
	}
	return lookup
}

// Label returns the display label, e.g. "Breaking".
func (c Category) Label() string {
	if info, ok := categories[c]; ok {
		return info.label
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Shorthand returns the one-letter answer accepted for the category, or "".
func (c Category) Shorthand() string {
	return categories[c].shorthand
}

// Header returns the release-note section header of the category.
func (c Category) Header() string {
	return fmt.Sprintf("**%s Changes:**", c.Label())
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return c.Label()
}

// LegendLine describes how to select the category interactively.
func (c Category) LegendLine() string {
	if s := c.Shorthand(); s != "" {
		return fmt.Sprintf("%s: %s", s, c.Label())
	}
	return fmt.Sprintf("<enter>: %s", c.Label())
}

// ParseCategory resolves a full label or shorthand, case-insensitively.
// An empty answer resolves to Basic.
func ParseCategory(answer string) (Category, bool) {
	c, ok := categoryLookup[strings.ToLower(strings.TrimSpace(answer))]
	return c, ok
}

// CategoryForLabels returns the category of the first label naming one.
// Only full labels count; shorthands are reserved for interactive answers.
func CategoryForLabels(labels []string) (Category, bool) {
	for _, label := range labels {
		if len(strings.TrimSpace(label)) < 2 {
			continue
		}
		if c, ok := ParseCategory(label); ok {
			return c, true
		}
	}
	return Basic, false
}
