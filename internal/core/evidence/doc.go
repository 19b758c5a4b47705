// Package evidence collapses duplicate records before they reach a report.
//
// Two records are duplicates when their fingerprints match: same calendar
// day, same actor label, same place label and the same normalised summary
// prefix. Every report view goes through Dedupe so the per-day facts and
// the full evidence table always count the same records.
package evidence
