// Package domain defines the core domain types and interfaces.
//
// This package contains the shared contracts between the record store, the
// dispatch registry, and the transport session. No implementation code -
// just types and sentinel errors. Prevents circular imports by keeping
// interfaces on the consumer side.
package domain
