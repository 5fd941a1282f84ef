package tournament

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when no tournament matches an identifier or
	// when a write affected zero rows.
	ErrNotFound = errors.New("tournament not found")

	// ErrDuplicateTitle is returned when the unique title index rejects a
	// create or update.
	ErrDuplicateTitle = errors.New("tournament title already exists")

	// ErrInvalidID is returned by ParseID for non-integer identifiers.
	ErrInvalidID = errors.New("invalid identifier")
)

// Errors is a validation report keyed by field path ("title",
// "ageCategories.1.category"). Each violated constraint is one message.
type Errors map[string][]string

func (e Errors) add(path, msg string) {
	e[path] = append(e[path], msg)
}

// Paths returns the failing field paths in sorted order.
func (e Errors) Paths() []string {
	paths := make([]string, 0, len(e))
	for p := range e {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Error implements error so a report can travel through error returns.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, p := range e.Paths() {
		label := p
		if label == "" {
			label = "(root)"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(e[p], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsErrors extracts a validation report from err.
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
