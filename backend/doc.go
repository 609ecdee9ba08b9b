// Package backend defines the entry-point table of the wrapped LAME
// encoder engine.
//
// The engine is an opaque, mutable, non-reentrant native resource exposed
// through a fixed C-style ABI: create a context, get and set scalar
// parameters, finalize the parameter set, encode sample buffers, and close
// the context. This package models that ABI as a Go interface so the rest
// of the module can run against either the real libmp3lame library (see
// the native subpackage, built with the liblame tag) or the deterministic
// pure Go simulation (see the sim subpackage).
//
// Status code conventions differ between the two call families and are
// documented on the constants in this package. Callers should not consume
// this package directly; the root lame package owns handle lifetime and
// translates status codes into typed errors.
package backend
