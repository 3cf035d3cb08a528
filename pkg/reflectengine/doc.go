// Package reflectengine is the reflection-backed validation engine: it
// derives engine.Model descriptors from struct types and tags, validates raw
// mappings against them with full error accumulation, and materializes typed
// instances.
//
// Struct fields map to declared fields using snake_case names, overridable
// via the `bridge` tag. The `validate` tag attaches constraint rules, the
// `default` tag a static default, and the `errmsg` tag per-error-type message
// overrides. Methods named ComputedXxx become computed properties.
//
//	type User struct {
//	    Name  string               `validate:"minlen=1"`
//	    Email reflectengine.Email  `bridge:"email"`
//	    Age   int                  `validate:"min=0,max=150" default:"0"`
//	}
//
//	model := reflectengine.ModelFor[User]()
//	class := bridge.SchemaFor(model)
package reflectengine
