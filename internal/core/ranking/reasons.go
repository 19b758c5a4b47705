package ranking

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

type reason struct {
	magnitude float64
	text      string
}

// Reasons explains a score as human-readable lines, one per nonzero
// component, largest contribution first. Equal contributions keep the
// order actor, keyword, related.
func Reasons(c domain.RankedComponents) []string {
	var parts []reason

	if c.ActorScore > 0 {
		text := "actor match"
		if c.IsMainActor {
			text = "main-actor match"
		}
		parts = append(parts, reason{c.ActorScore, text})
	}
	if c.KeywordScore > 0 {
		parts = append(parts, reason{c.KeywordScore, fmt.Sprintf("keyword %d/%d", c.QHit, c.QTotal)})
	}
	if c.RelatedScore > 0 {
		parts = append(parts, reason{c.RelatedScore, fmt.Sprintf("related actor ×%d", c.RelatedHits)})
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].magnitude > parts[j].magnitude
	})

	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.text
	}
	return out
}
