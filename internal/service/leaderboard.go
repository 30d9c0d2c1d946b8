package service

import (
	"sort"

	"coinbot/internal/domain"
)

// Accounts returns read-only copies of the records whose ids appear in
// scope, in unspecified order. The scope comes from the caller (who is
// present in the chat); the ledger itself has no notion of membership.
func (e *Economy) Accounts(scope []domain.UserID) []*domain.Account {
	in := make(map[domain.UserID]bool, len(scope))
	for _, id := range scope {
		in[id] = true
	}
	var out []*domain.Account
	for _, acc := range e.store.Snapshot() {
		if in[acc.ID] {
			out = append(out, acc)
		}
	}
	return out
}

// Leaderboard ranks the scoped accounts by balance, richest first, ties
// broken by id ascending so the order is deterministic. Read-only.
func (e *Economy) Leaderboard(scope []domain.UserID, limit int) []*domain.Account {
	ranked := e.Accounts(scope)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Balance != ranked[j].Balance {
			return ranked[i].Balance > ranked[j].Balance
		}
		return ranked[i].ID < ranked[j].ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
