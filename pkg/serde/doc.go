// Package serde is the serialization-framework surface the plugin ecosystem
// codes against: field descriptors, unknown-field policy tokens, the
// ValidationError contract, hook and validator signatures, and the base
// type→field mapping table shared with the bridge's type mapper.
//
// Downstream tooling (request parsers, API-doc generators) depends only on
// this package plus the NestedSchema interface; it never needs to know the
// backing validation engine exists.
package serde
