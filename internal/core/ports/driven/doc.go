// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentSource: Lists, opens, and parses development plan documents
//   - AnalysisStore: Document, verdict, item, and query log persistence
//   - SchedulerStore: Background task state persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model analysis. Without it, the deterministic
//     fallback path handles meeting detection and category extraction.
//   - Notifier: Attention report delivery. Without it, reports are only
//     printed locally.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
