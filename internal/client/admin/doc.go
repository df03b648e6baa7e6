// Package admin is the client-side core of the user directory: Store loads
// the account list with its subscription stats and keeps it in memory,
// MutationController deletes single accounts and reconciles the list
// locally.
//
// Store moves through Idle, Loading and then Loaded or Errored. A failed
// load leaves the previous list and stats in place. Every failure the
// operator should see goes through the Notifier; every error returned
// matches one of ErrNotFound, ErrForbidden, ErrTransient,
// ErrAlreadyInProgress or ErrClosed.
package admin
