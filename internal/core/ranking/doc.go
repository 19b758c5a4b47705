// Package ranking scores records against a case profile and ranks them.
//
// Everything here is a pure function over immutable inputs: no I/O,
// no goroutines, no shared state. The same inputs always produce the
// same hits in the same order with the same ranks.
//
// # Scoring
//
//	total = textSim*wText + actorMatch*wActor + relatedHits*wRelated
//
// where textSim is the share of query tokens found as substrings of the
// record summary. Whether the record falls inside the case time range
// gates inclusion but never adds to the score.
package ranking
