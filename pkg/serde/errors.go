package serde

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaErrorKey is the reserved messages key for whole-object errors that
// cannot be attributed to a single field.
const SchemaErrorKey = "_schema"

// ValidationError is the framework's failure contract: one aggregated error
// per load/dump call, exposing a field→messages mapping. The bridge's error
// type implements it (with valid-data tracking on top), so downstream code
// written against this interface handles bridge failures transparently:
//
//	var verr serde.ValidationError
//	if errors.As(err, &verr) { ... verr.Messages() ... }
type ValidationError interface {
	error
	Messages() map[string][]string
}

// Failure is the framework's plain validation error, used for failures that
// originate inside the serialization layer itself (unknown fields, malformed
// many input, custom validators).
type Failure struct {
	messages map[string][]string
}

// NewFailure builds a Failure from a field→messages mapping. The mapping is
// copied so callers can keep mutating theirs.
func NewFailure(messages map[string][]string) *Failure {
	copied := make(map[string][]string, len(messages))
	for key, msgs := range messages {
		copied[key] = append([]string(nil), msgs...)
	}
	return &Failure{messages: copied}
}

// NewFieldFailure builds a Failure carrying messages for a single field.
func NewFieldFailure(field string, msgs ...string) *Failure {
	return &Failure{messages: map[string][]string{field: append([]string(nil), msgs...)}}
}

// NewSchemaFailure builds a Failure keyed under SchemaErrorKey.
func NewSchemaFailure(msgs ...string) *Failure {
	return NewFieldFailure(SchemaErrorKey, msgs...)
}

// Messages returns the field→messages mapping.
func (f *Failure) Messages() map[string][]string {
	return f.messages
}

func (f *Failure) Error() string {
	return FormatMessages(f.messages)
}

// FormatMessages renders a messages mapping the way the framework formats
// its exceptions: deterministic key order, semicolon-joined.
func FormatMessages(messages map[string][]string) string {
	if len(messages) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(messages[key], "; ")))
	}
	return strings.Join(parts, "; ")
}

// MergeMessages folds src into dst, appending rather than overwriting so
// multiple error sources accumulate per key.
func MergeMessages(dst map[string][]string, src map[string][]string) {
	for key, msgs := range src {
		dst[key] = append(dst[key], msgs...)
	}
}
