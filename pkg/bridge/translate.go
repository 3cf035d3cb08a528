package bridge

import (
	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// Error is the bridge's validation failure: the framework's field→messages
// mapping plus the original input and the valid-data side channel for
// partial-success handling. It implements serde.ValidationError, so code
// written against the framework's error contract recognizes it.
//
// Invariant: ValidData never contains a key that also appears in Messages,
// and every valid-data key was present in the original input.
type Error struct {
	messages  map[string][]string
	data      any
	validData map[string]any
}

func newError(messages map[string][]string, data any, validData map[string]any) *Error {
	return &Error{messages: messages, data: data, validData: validData}
}

// Messages returns the field→messages mapping. Dotted keys address nested
// locations ("addresses.0.zip_code"); serde.SchemaErrorKey holds
// whole-object errors.
func (e *Error) Messages() map[string][]string { return e.messages }

// ValidData returns the subset of the original input that passed validation.
func (e *Error) ValidData() map[string]any {
	if e.validData == nil {
		return map[string]any{}
	}
	return e.validData
}

// Data returns the original input the failed load was given.
func (e *Error) Data() any { return e.data }

func (e *Error) Error() string { return serde.FormatMessages(e.messages) }

// Translate converts an engine failure into the framework's error shape:
// dotted location paths, custom per-field message substitution, schema-level
// key for pathless errors, and valid-data tracking over the original input.
func Translate(failure *engine.Failure, model engine.Model, original map[string]any) *Error {
	messages := make(map[string][]string, len(failure.Details))
	failed := make(map[string]struct{})

	for _, detail := range failure.Details {
		msg := messageFor(detail, model)
		path := detail.Path()
		if path == "" {
			messages[serde.SchemaErrorKey] = append(messages[serde.SchemaErrorKey], msg)
			continue
		}
		failed[detail.TopField()] = struct{}{}
		messages[path] = append(messages[path], msg)
	}

	var validData map[string]any
	if original != nil && model != nil {
		validData = make(map[string]any)
		names := declaredNames(model)
		for key, value := range original {
			name, declared := names[key]
			if !declared {
				continue
			}
			if _, bad := failed[name]; bad {
				continue
			}
			validData[key] = value
		}
	}

	return newError(messages, original, validData)
}

// messageFor substitutes the model's custom message table for the engine's
// generic message when one is declared for the failing field: first by the
// engine error type, then the "default" entry.
func messageFor(detail engine.ErrorDetail, model engine.Model) string {
	if model == nil || len(detail.Loc) == 0 {
		return detail.Message
	}
	meta, ok := model.Descriptor().Field(detail.TopField())
	if !ok || len(meta.ErrorMessages) == 0 {
		return detail.Message
	}
	if msg, ok := meta.ErrorMessages[detail.Type]; ok {
		return msg
	}
	if msg, ok := meta.ErrorMessages["default"]; ok {
		return msg
	}
	return detail.Message
}
