package serde

// Unknown selects the policy for input keys that match no declared field
// name or alias.
type Unknown string

const (
	// Raise rejects unknown keys, one message per key, all reported
	// together.
	Raise Unknown = "raise"
	// Exclude drops unknown keys before validation.
	Exclude Unknown = "exclude"
	// Include keeps unknown keys out of validation but merges them back
	// into the result mapping verbatim.
	Include Unknown = "include"
)

// Context is the arbitrary key-value bag a schema instance exposes to hooks
// and validators.
type Context map[string]any

// LoadHook transforms the raw input mapping before validation (pre-load) —
// hooks run in registration order, each receiving the previous hook's
// output.
type LoadHook func(data map[string]any, ctx Context) (map[string]any, error)

// PostLoadHook transforms the load result (typed instance or mapping) after
// validation succeeds.
type PostLoadHook func(result any, ctx Context) (any, error)

// DumpHook transforms the mapping on the dump side (pre-dump before
// serialization, post-dump after).
type DumpHook func(data map[string]any, ctx Context) (map[string]any, error)

// FieldValidator checks a single field value. Returning a ValidationError
// contributes its messages to the field's accumulator; any other error is
// recorded under the field as-is. Validators never short-circuit each other.
type FieldValidator func(value any, ctx Context) error

// SchemaValidator checks cross-field consistency over the validated mapping.
// Errors keyed by field stay on that field; everything else lands under
// SchemaErrorKey.
type SchemaValidator func(data map[string]any, ctx Context) error
