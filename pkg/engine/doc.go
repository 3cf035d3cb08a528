// Package engine declares the contract the bridge expects from the backing
// validation engine: a Model handle describing declared and computed fields,
// a type-expression IR rich enough to preserve optional/union/enum/nested
// shapes, structured validation failures with location paths, and an
// Undefined sentinel that distinguishes "no default" from "default of nil".
//
// The bridge core never implements validation itself; it consumes these
// interfaces and treats the engine as the final authority on correctness.
// pkg/reflectengine provides the default implementation over plain Go
// structs.
package engine
