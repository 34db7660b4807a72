// Package domain contains the core business entities for idplens.
// Types here have no dependencies on infrastructure - they represent
// documents, analysis verdicts, extracted items and query results as
// pure data.
package domain
