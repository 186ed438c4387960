// Package developer implements the developer store: a single observable
// snapshot of the developers currently on display, mutated only through the
// store's actions.
package developer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category string is not one of the
// known categories.
var ErrUnknownCategory = errors.New("unknown developer category")

// Category selects which developers are on display.
type Category string

// The known categories. The zero value means no category has been loaded yet.
const (
	CategoryJunior Category = "junior"
	CategorySenior Category = "senior"
	CategoryAll    Category = "all"
)

// Categories lists every known category.
var Categories = []Category{CategoryJunior, CategorySenior, CategoryAll}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}

	return c, nil
}

// IsValid tells if c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryJunior, CategorySenior, CategoryAll:
		return true
	default:
		return false
	}
}

// Matches tells if a developer of the given category belongs to the set of
// developers selected by c.
func (c Category) Matches(other Category) bool {
	return c == CategoryAll || c == other
}

// A Developer is a named person with a category and a set of skills.
type Developer struct {
	Name     string   `json:"name"`
	Skills   []string `json:"skills"`
	Category Category `json:"category"`
}

// Clone returns a copy of the developer that shares no memory with d.
func (d Developer) Clone() Developer {
	c := d
	if d.Skills != nil {
		c.Skills = make([]string, len(d.Skills))
		copy(c.Skills, d.Skills)
	}

	return c
}

// State is the complete snapshot held by the store. Once published, a State is
// never modified; every transition builds a new one.
type State struct {
	Developers     []Developer `json:"developers"`
	ActiveCategory Category    `json:"activeCategory"`
}

// InitialState returns the empty state a store starts with when nothing else
// is provided.
func InitialState() State {
	return State{
		Developers: []Developer{},
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Developers:     cloneDevelopers(s.Developers),
		ActiveCategory: s.ActiveCategory,
	}
}

// WithDeveloper returns a copy of the state with d appended to the developer
// list.
func (s State) WithDeveloper(d Developer) State {
	next := State{
		Developers:     make([]Developer, 0, len(s.Developers)+1),
		ActiveCategory: s.ActiveCategory,
	}

	for _, existing := range s.Developers {
		next.Developers = append(next.Developers, existing.Clone())
	}
	next.Developers = append(next.Developers, d.Clone())

	return next
}

func cloneDevelopers(devs []Developer) []Developer {
	cloned := make([]Developer, len(devs))
	for i, d := range devs {
		cloned[i] = d.Clone()
	}

	return cloned
}
