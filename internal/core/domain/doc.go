// Package domain holds casefile's entities and their invariants.
//
// A Record is one timestamped incident note. A Case groups records under a
// ranking profile; its Snapshot is the authoritative membership list and
// carries the scores computed when each record was included. RankedHit is
// a scored record as ranking returns it, and AdvisorItem is guidance
// generated for a case.
//
// The package depends only on the standard library so every other layer
// can import it.
package domain
