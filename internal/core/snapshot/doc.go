// Package snapshot maintains the persisted record membership of a case.
//
// A snapshot is a curation log: records enter it from the initial ranking
// pass or from explicit merges, and leave it only by explicit removal. The
// functions here are pure. They never mutate their inputs and always
// return a fresh Snapshot.
package snapshot
