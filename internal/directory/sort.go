package directory

import (
	"slices"
	"time"
)

var epoch = time.Unix(0, 0).UTC()

// sortKey treats a missing creation time as the Unix epoch.
func sortKey(a Account) time.Time {
	if a.CreatedAt.IsZero() {
		return epoch
	}
	return a.CreatedAt
}

// SortedByCreatedDesc returns a new slice ordered newest first. Accounts with
// equal CreatedAt keep their relative order; a zero CreatedAt sorts as the
// Unix epoch. The input is not modified.
func SortedByCreatedDesc(accounts []Account) []Account {
	out := slices.Clone(accounts)
	slices.SortStableFunc(out, func(a, b Account) int {
		return sortKey(b).Compare(sortKey(a))
	})
	return out
}

// Without returns a copy of accounts minus the entry with the given id, and
// whether such an entry existed. Order of the remaining entries is kept.
func Without(accounts []Account, id string) ([]Account, bool) {
	out := make([]Account, 0, len(accounts))
	found := false
	for _, a := range accounts {
		if a.ID == id {
			found = true
			continue
		}
		out = append(out, a)
	}
	return out, found
}

// Find returns the account with the given id.
func Find(accounts []Account, id string) (Account, bool) {
	i := slices.IndexFunc(accounts, func(a Account) bool { return a.ID == id })
	if i < 0 {
		return Account{}, false
	}
	return accounts[i], true
}
