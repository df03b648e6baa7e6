package admin

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
)

// Deleter removes one account on the server.
type Deleter interface {
	DeleteUser(ctx context.Context, id string) error
}

type deletion struct {
	done chan struct{}
	err  error
}

// MutationController deletes accounts listed in a Store. At most one request
// per id is ever in flight.
type MutationController struct {
	store      *Store
	deleter    Deleter
	session    identity.SessionProvider
	policy     identity.AuthorizationPolicy
	notifier   Notifier
	logger     logging.Logger
	timeout    time.Duration
	duplicates DuplicatePolicy

	mu       sync.Mutex
	inflight map[string]*deletion
}

func NewMutationController(
	store *Store,
	deleter Deleter,
	session identity.SessionProvider,
	policy identity.AuthorizationPolicy,
	notifier Notifier,
	logger logging.Logger,
	opts ...Option,
) *MutationController {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	o := buildOptions(opts)
	return &MutationController{
		store:      store,
		deleter:    deleter,
		session:    session,
		policy:     policy,
		notifier:   notifier,
		logger:     logger.With("module", "mutations"),
		timeout:    o.timeout,
		duplicates: o.duplicates,
		inflight:   make(map[string]*deletion),
	}
}

// DeleteAccount deletes the account id after the operator confirmed it by
// typing its email. Checks run in this order: the id must be listed with a
// matching email, the caller must be an administrator, and the caller must
// not be the target. On success the account is removed from the store
// without reloading.
func (c *MutationController) DeleteAccount(ctx context.Context, id, confirmedEmail string) error {
	target, ok := c.store.Lookup(id)
	if !ok || !strings.EqualFold(strings.TrimSpace(confirmedEmail), target.Email) {
		c.notifier.NotifyError(MsgUserNotFound)
		return ErrNotFound
	}

	actor, err := c.session.CurrentUser(ctx)
	if err != nil || actor == nil || !c.policy.IsAdmin(actor.Email) {
		c.logger.Warn(ctx, "delete refused", "id", id, "reason", "not an administrator", "error", err)
		c.notifier.NotifyError(MsgUnauthorized)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrForbidden, err)
		}
		return ErrForbidden
	}
	if actor.ID == id {
		c.notifier.NotifyError(MsgSelfDeletion)
		return fmt.Errorf("%w: %s", ErrForbidden, MsgSelfDeletion)
	}

	c.mu.Lock()
	if d, ok := c.inflight[id]; ok {
		c.mu.Unlock()
		return c.joinInFlight(ctx, d)
	}
	d := &deletion{done: make(chan struct{})}
	c.inflight[id] = d
	c.mu.Unlock()

	d.err = c.send(ctx, id)

	c.mu.Lock()
	delete(c.inflight, id)
	c.mu.Unlock()
	close(d.done)

	return d.err
}

func (c *MutationController) joinInFlight(ctx context.Context, d *deletion) error {
	if c.duplicates == DuplicateReject {
		c.notifier.NotifyError(MsgDeleteInFlight)
		return ErrAlreadyInProgress
	}
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTransient, ctx.Err())
	}
}

func (c *MutationController) send(ctx context.Context, id string) error {
	// The list may have been replaced while the checks ran.
	if _, ok := c.store.Lookup(id); !ok {
		c.notifier.NotifyError(MsgUserNotFound)
		return ErrNotFound
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.deleter.DeleteUser(reqCtx, id); err != nil {
		if c.store.isClosed() {
			return ErrClosed
		}
		c.logger.Error(ctx, "delete user failed", "id", id, "error", err)
		c.notifier.NotifyError(serverMessage(err, MsgDeleteFailed))
		return classify(err)
	}

	if err := c.store.remove(id); err != nil {
		return err
	}
	c.logger.Info(ctx, "user deleted", "id", id)
	c.notifier.NotifySuccess(MsgUserDeleted)
	return nil
}

// IsBusy reports whether a deletion of id is in flight.
func (c *MutationController) IsBusy(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[id]
	return ok
}

// Busy lists the ids with a deletion in flight, sorted.
func (c *MutationController) Busy() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.inflight))
}
