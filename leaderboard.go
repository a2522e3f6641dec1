package khalon

import (
	"cmp"
	"slices"
	"strings"
)

// Standing is one leaderboard row.
type Standing struct {
	AccountID string
	Balance   Money
}

// TopAccounts returns up to n accounts ranked by descending balance, ties
// broken by ascending account id so the order is deterministic. It is a pure
// read: no account is created, nothing is persisted.
func (l *Ledger) TopAccounts(n int) []Standing {
	l.mu.RLock()
	defer l.mu.RUnlock()

	standings := make([]Standing, 0, len(l.accounts))
	for id, account := range l.accounts {
		standings = append(standings, Standing{AccountID: id, Balance: account.Balance})
	}
	slices.SortFunc(standings, func(a, b Standing) int {
		if c := cmp.Compare(b.Balance.Int64(), a.Balance.Int64()); c != 0 {
			return c
		}
		return strings.Compare(a.AccountID, b.AccountID)
	})

	if n < 0 {
		n = 0
	}
	if len(standings) > n {
		standings = standings[:n]
	}
	return standings
}
