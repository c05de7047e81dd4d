// Package history persists the outcome of every processed post in SQLite so
// batch runs never resolve the same post twice.
//
// The schema is embedded and versioned through a schema_version table; a
// version mismatch is reported as ErrSchemaMismatch rather than migrated.
package history
