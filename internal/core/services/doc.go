// Package services implements the core use cases: ingestion into the dual
// indexes, semantic and keyword search, aggregate stats, summary lookup
// and index reconciliation.
package services
