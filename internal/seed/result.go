package seed

import "fmt"

// Result tracks counts and errors from a seeding operation.
type Result struct {
	Loaded   int
	Inserted int
	Errors   []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	return fmt.Sprintf("loaded=%d inserted=%d errors=%d", r.Loaded, r.Inserted, len(r.Errors))
}
