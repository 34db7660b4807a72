// Package sqlite provides SQLite-backed persistence for documents,
// analysis results, query logs, and scheduler state.
//
// The Store opens a single database file in WAL mode and exposes the
// driven store interfaces through wrapper types. Schema changes are
// applied through embedded migrations on startup.
package sqlite
