package evidence

import (
	"sort"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// Chronological returns a copy of records ordered by timestamp, then id.
// Records without a timestamp sort last.
func Chronological(records []domain.Record) []domain.Record {
	out := append([]domain.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Timestamp.IsZero() != b.Timestamp.IsZero():
			return b.Timestamp.IsZero()
		case !a.Timestamp.Equal(b.Timestamp):
			return a.Timestamp.Before(b.Timestamp)
		default:
			return a.ID < b.ID
		}
	})
	return out
}

// Dedupe keeps the earliest record of every fingerprint and returns the
// survivors in chronological order. It is idempotent.
func Dedupe(records []domain.Record) []domain.Record {
	seen := make(map[Fingerprint]struct{}, len(records))
	out := make([]domain.Record, 0, len(records))
	for _, r := range Chronological(records) {
		fp := Of(r)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Day is the deduplicated evidence of one calendar day.
type Day struct {
	Date    string
	Records []domain.Record
}

// GroupByDay deduplicates records and groups the survivors per calendar day,
// oldest day first. Undated records form a final group with an empty Date.
func GroupByDay(records []domain.Record) []Day {
	var days []Day
	for _, r := range Dedupe(records) {
		key := DateKey(r.Timestamp)
		if n := len(days); n > 0 && days[n-1].Date == key {
			days[n-1].Records = append(days[n-1].Records, r)
			continue
		}
		days = append(days, Day{Date: key, Records: []domain.Record{r}})
	}
	return days
}
