package admin

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/saasadmin/internal/client/client"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrForbidden         = errors.New("forbidden")
	ErrTransient         = errors.New("temporary failure")
	ErrAlreadyInProgress = errors.New("deletion already in progress")
	ErrClosed            = errors.New("store closed")
)

// Notification texts.
const (
	MsgUserNotFound   = "user not found"
	MsgUnauthorized   = "unauthorized"
	MsgSelfDeletion   = "cannot delete yourself"
	MsgUserDeleted    = "user deleted"
	MsgDeleteFailed   = "failed to delete user"
	MsgLoadFailed     = "failed to load users"
	MsgDeleteInFlight = "deletion already in progress"
)

// classify maps a transport error onto the core taxonomy, keeping the
// original in the chain.
func classify(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden):
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case errors.Is(err, client.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
}

// serverMessage returns the message the server attached to err, or fallback.
func serverMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
