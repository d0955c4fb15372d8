// Package history records finished conversion batches in SQLite.
//
// The database is a lightweight audit trail, not pipeline state: the pipeline
// never reads it, and deleting the file costs nothing but the record of past
// batches. Schema changes bump schemaVersion; the store recreates tables on
// version mismatch rather than migrating.
package history
