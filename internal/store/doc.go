// Package store implements the file-backed record store.
//
// The whole collection lives in one JSON document that is read once at
// startup and rewritten in full on every successful insertion. Writes go
// to a temp file first and are renamed into place, and an insertion is
// only acknowledged after the document is durably on disk. All I/O
// failures are caught at this boundary and degrade the store to an
// unavailable state instead of propagating.
package store
