package bridge

import (
	"sync"

	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// The package-level validator registry predates class-option registration
// and remains supported for compatibility: validators registered here are
// folded into every class subsequently built for the model, and run through
// the same invocation step as option-registered ones. Registering after a
// class has been built (and cached) does not retrofit the class.

var (
	legacyMu               sync.RWMutex
	legacyFieldValidators  = map[engine.Model]map[string][]serde.FieldValidator{}
	legacySchemaValidators = map[engine.Model][]schemaValidatorEntry{}
)

// Validates registers a field-level validator for every future class bound
// to the model.
func Validates(model engine.Model, field string, fn serde.FieldValidator) {
	if model == nil || fn == nil {
		return
	}
	legacyMu.Lock()
	defer legacyMu.Unlock()
	byField := legacyFieldValidators[model]
	if byField == nil {
		byField = make(map[string][]serde.FieldValidator)
		legacyFieldValidators[model] = byField
	}
	byField[field] = append(byField[field], fn)
}

// ValidatesSchema registers a schema-level validator for every future class
// bound to the model. skipOnFieldErrors mirrors the class-option behavior:
// when true the validator is skipped if field-level errors already exist.
func ValidatesSchema(model engine.Model, fn serde.SchemaValidator, skipOnFieldErrors bool) {
	if model == nil || fn == nil {
		return
	}
	legacyMu.Lock()
	defer legacyMu.Unlock()
	legacySchemaValidators[model] = append(legacySchemaValidators[model], schemaValidatorEntry{
		fn:                fn,
		skipOnFieldErrors: skipOnFieldErrors,
	})
}

func legacyFieldValidatorsFor(model engine.Model) map[string][]serde.FieldValidator {
	if model == nil {
		return nil
	}
	legacyMu.RLock()
	defer legacyMu.RUnlock()
	byField := legacyFieldValidators[model]
	if len(byField) == 0 {
		return nil
	}
	copied := make(map[string][]serde.FieldValidator, len(byField))
	for field, fns := range byField {
		copied[field] = append([]serde.FieldValidator(nil), fns...)
	}
	return copied
}

func legacySchemaValidatorsFor(model engine.Model) []schemaValidatorEntry {
	if model == nil {
		return nil
	}
	legacyMu.RLock()
	defer legacyMu.RUnlock()
	return append([]schemaValidatorEntry(nil), legacySchemaValidators[model]...)
}
