package ranking

import (
	"strings"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// ActorEq reports whether two actor references name the same person.
// Types and names are compared after trimming; names are case-sensitive.
func ActorEq(a, b domain.ActorRef) bool {
	return strings.TrimSpace(string(a.Type)) == strings.TrimSpace(string(b.Type)) &&
		strings.TrimSpace(a.Name) == strings.TrimSpace(b.Name)
}

// ActorKey returns the canonical lookup key "{type}::{name}".
func ActorKey(a domain.ActorRef) string {
	return strings.TrimSpace(string(a.Type)) + "::" + strings.TrimSpace(a.Name)
}

// KeySet builds the set of actor keys for a list of actors.
func KeySet(actors []domain.ActorRef) map[string]struct{} {
	set := make(map[string]struct{}, len(actors))
	for _, a := range actors {
		set[ActorKey(a)] = struct{}{}
	}
	return set
}
