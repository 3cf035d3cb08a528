// Package bridge synthesizes serialization schema classes from validation
// engine models and orchestrates the dual-pipeline load/dump flow across the
// two frameworks.
//
// A Class is the synthesized product: the bound model, its converted field
// descriptor set, and the validator/hook registries, built once per distinct
// (model, options) pair and cached for the process lifetime. A Schema is a
// cheap per-call-site instance of a Class carrying filtering overrides
// (only/exclude/load_only/dump_only), partial mode, unknown-field policy and
// a context bag.
//
// Load runs the seven-step pipeline: pre-load hooks, unknown-field policy,
// engine validation, field-level validators, schema-level validators, merged
// error raise, result shaping, post-load hooks. Dump mirrors it: pre-dump
// hooks, exclusion-rule computation, computed-field extraction, native
// per-field serialization, exclusion sweep, computed merge, post-dump hooks.
// Every failure surfaces as exactly one *Error per top-level call, carrying
// the field→messages mapping and the valid-data side channel.
package bridge
