package engine

import (
	"fmt"
	"strings"
)

// ErrorDetail is one validation error as reported by the engine: a location
// path into the input (string segments for field names, int segments for
// collection indices), a human message, and a machine error type.
type ErrorDetail struct {
	Loc     []any
	Message string
	Type    string
}

// Path renders the location as a dotted string, e.g. "addresses.0.zip_code".
// An empty location renders as the empty string (a whole-object error).
func (d ErrorDetail) Path() string {
	if len(d.Loc) == 0 {
		return ""
	}
	parts := make([]string, len(d.Loc))
	for i, seg := range d.Loc {
		parts[i] = fmt.Sprint(seg)
	}
	return strings.Join(parts, ".")
}

// TopField returns the first location segment as a string, or "" when the
// error has no location.
func (d ErrorDetail) TopField() string {
	if len(d.Loc) == 0 {
		return ""
	}
	return fmt.Sprint(d.Loc[0])
}

// Failure aggregates every error detail from one Validate call.
type Failure struct {
	Model   string
	Details []ErrorDetail
}

func (f *Failure) Error() string {
	if len(f.Details) == 1 {
		return fmt.Sprintf("%s: 1 validation error: %s: %s", f.Model, f.Details[0].Path(), f.Details[0].Message)
	}
	return fmt.Sprintf("%s: %d validation errors", f.Model, len(f.Details))
}
