package evidence

import (
	"strings"
	"time"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// SummaryPrefixLen is how many characters of the normalised summary take
// part in a fingerprint. Summaries differing only past this point are
// treated as the same evidence.
const SummaryPrefixLen = 160

// DateLayout is the calendar-day key format.
const DateLayout = "2006-01-02"

// Fingerprint identifies a piece of evidence for deduplication.
type Fingerprint struct {
	Date    string
	Actor   string
	Place   string
	Summary string
}

// Of returns the fingerprint of a record.
func Of(r domain.Record) Fingerprint {
	return Fingerprint{
		Date:    DateKey(r.Timestamp),
		Actor:   r.Actor.Short(),
		Place:   r.PlaceLabel(),
		Summary: Normalize(r.Summary),
	}
}

// DateKey formats the day of ts in its own location. A zero time yields "".
func DateKey(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(DateLayout)
}

// Normalize prepares a summary for comparison: zero-width characters and
// the byte order mark are removed, the text is lowercased, whitespace runs
// become single spaces, and the result is cut to SummaryPrefixLen characters.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")

	n := 0
	for i := range s {
		if n == SummaryPrefixLen {
			return s[:i]
		}
		n++
	}
	return s
}
