package admin

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
	"golang.org/x/sync/singleflight"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Lister fetches the full directory.
type Lister interface {
	ListUsers(ctx context.Context) (*adminapi.Listing, error)
}

const loadKey = "load"

// Store is the in-memory user directory. It is safe for concurrent use.
type Store struct {
	lister   Lister
	session  identity.SessionProvider
	notifier Notifier
	logger   logging.Logger
	timeout  time.Duration

	// ctx is cancelled by Close and parents every load.
	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu       sync.RWMutex
	state    State
	accounts []directory.Account
	stats    directory.Stats
	err      error
	loadedAt time.Time
	closed   bool
}

func NewStore(lister Lister, session identity.SessionProvider, notifier Notifier, logger logging.Logger, opts ...Option) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	o := buildOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		lister:   lister,
		session:  session,
		notifier: notifier,
		logger:   logger.With("module", "store"),
		timeout:  o.timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Load fetches the directory. Concurrent calls share one request. If ctx
// ends first Load returns early; the shared request still completes and
// applies its result.
func (s *Store) Load(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	ch := s.group.DoChan(loadKey, func() (any, error) {
		return nil, s.load(s.ctx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTransient, ctx.Err())
	}
}

func (s *Store) load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = StateLoading
	s.mu.Unlock()

	actor, err := s.session.CurrentUser(ctx)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("%w: %w", ErrForbidden, err), MsgUnauthorized)
	}
	if actor == nil {
		return s.fail(ctx, fmt.Errorf("%w: no session", ErrForbidden), MsgUnauthorized)
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	listing, err := s.lister.ListUsers(reqCtx)
	if err != nil {
		return s.fail(ctx, classify(err), serverMessage(err, MsgLoadFailed))
	}
	stats := s.reconcileStats(ctx, listing)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.accounts = listing.Accounts
	s.stats = stats
	s.state = StateLoaded
	s.err = nil
	s.loadedAt = time.Now()
	s.mu.Unlock()

	if listing.Dropped > 0 {
		s.logger.Warn(ctx, "dropped malformed user records", "count", listing.Dropped)
	}
	s.logger.Info(ctx, "users loaded", "count", len(listing.Accounts), "elapsed", time.Since(started))
	return nil
}

// fail records err unless the store was closed meanwhile, in which case
// nothing is applied or shown.
func (s *Store) fail(ctx context.Context, err error, msg string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = StateErrored
	s.err = err
	s.mu.Unlock()

	s.logger.Error(ctx, "load users failed", "error", err)
	s.notifier.NotifyError(msg)
	return err
}

// reconcileStats prefers the server's stats when they are consistent.
func (s *Store) reconcileStats(ctx context.Context, l *adminapi.Listing) directory.Stats {
	computed := directory.ComputeStats(l.Accounts)
	if l.Stats == nil {
		return computed
	}
	if !l.Stats.Valid() {
		s.logger.Warn(ctx, "discarding inconsistent server stats", "server", *l.Stats, "computed", computed)
		return computed
	}
	if !l.Stats.Equal(computed) {
		s.logger.Warn(ctx, "server stats disagree with user list", "server", *l.Stats, "computed", computed)
	}
	return *l.Stats
}

// remove drops id after a confirmed deletion and recomputes stats from the
// remaining list. A missing id is not an error: a newer load may already
// have replaced the list.
func (s *Store) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if accounts, ok := directory.Without(s.accounts, id); ok {
		s.accounts = accounts
		s.stats = directory.ComputeStats(accounts)
	}
	return nil
}

// Close discards the store. In-flight requests are cancelled and their
// results dropped.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Accounts returns a copy of the list in server order.
func (s *Store) Accounts() []directory.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.accounts)
}

// SortedView returns a new slice ordered by creation time, newest first.
func (s *Store) SortedView() []directory.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return directory.SortedByCreatedDesc(s.accounts)
}

func (s *Store) Stats() directory.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err is the error of the last failed load, nil after a success.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// LoadedAt is the completion time of the last successful load.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Store) Lookup(id string) (directory.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return directory.Find(s.accounts, id)
}
