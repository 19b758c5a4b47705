// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// CaseService owns the snapshot lifecycle. Every call that crosses the
// relevance or advisory boundary goes through a per-case gate: a newer
// request for the same case cancels the older one, whose result is
// discarded with domain.ErrSuperseded. Provider failures are logged and
// degrade to empty results, except when merging records into a
// snapshot, where the snapshot is left untouched and the error returned.
//
// ReportService is read-only. It resolves a case's snapshot against the
// record store and assembles a domain.ReportPayload. Its content hash
// covers the case, the deduplicated records and the generation time.
package services
