package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/saasadmin/internal/client/admin"
	"github.com/dmitrijs2005/saasadmin/internal/client/client"
	"github.com/dmitrijs2005/saasadmin/internal/client/config"
	"github.com/dmitrijs2005/saasadmin/internal/client/session"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
)

type App struct {
	config  *config.Config
	api     client.Client
	session *session.TokenSession
	policy  identity.AuthorizationPolicy
	store   *admin.Store
	ctrl    *admin.MutationController
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	styles  Styles

	// pending tracks deletions running in the background.
	pending sync.WaitGroup
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, "text", os.Stderr)
	if err != nil {
		return nil, err
	}

	duplicates, err := admin.ParseDuplicatePolicy(c.DuplicateDeletePolicy)
	if err != nil {
		return nil, err
	}

	sess := session.New(c.AccessToken)

	api, err := newAPIClient(c, sess)
	if err != nil {
		return nil, err
	}

	return newApp(c, api, sess, bufio.NewReader(os.Stdin), os.Stdout, logger, duplicates), nil
}

func newAPIClient(c *config.Config, tokens client.TokenSource) (client.Client, error) {
	switch c.Transport {
	case config.TransportHTTP:
		return client.NewHTTPClient(c.ServerEndpointAddr, tokens, nil)
	case config.TransportGRPC:
		return client.NewGRPCClient(c.GRPCEndpointAddr, tokens)
	default:
		return nil, fmt.Errorf("unknown transport %q", c.Transport)
	}
}

func newApp(
	c *config.Config,
	api client.Client,
	sess *session.TokenSession,
	reader *bufio.Reader,
	out io.Writer,
	logger logging.Logger,
	duplicates admin.DuplicatePolicy,
) *App {
	out = &lockedWriter{w: out}
	styles := DefaultStyles()
	notifier := NewNotifier(out, styles)
	policy := identity.NewAllowList(c.AdminEmails...)

	store := admin.NewStore(api, sess, notifier, logger, admin.WithTimeout(c.RequestTimeout))
	ctrl := admin.NewMutationController(store, api, sess, policy, notifier, logger,
		admin.WithTimeout(c.RequestTimeout),
		admin.WithDuplicatePolicy(duplicates),
	)

	return &App{
		config:  c,
		api:     api,
		session: sess,
		policy:  policy,
		store:   store,
		ctrl:    ctrl,
		logger:  logger,
		reader:  reader,
		out:     out,
		styles:  styles,
	}
}

// Run asks for a token if none is configured, loads the directory and
// serves commands until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, a.styles.Title.Render("saasadmin CLI (type 'help' for commands)"))

	if token, _ := a.session.Token(ctx); token == "" {
		if err := a.Token(ctx); err != nil {
			a.logger.Error(ctx, "reading access token", "error", err)
			return
		}
	} else {
		_ = a.Reload(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// Close waits for background deletions and releases the connection.
func (a *App) Close() {
	a.pending.Wait()
	a.store.Close()
	if err := a.api.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing client", "error", err)
	}
}

func (a *App) getStatus() string {
	s := ""
	if p, err := a.session.CurrentUser(context.Background()); err == nil && p != nil {
		s = p.Email + " "
	}
	s += a.store.State().String()
	if n := len(a.ctrl.Busy()); n > 0 {
		s += fmt.Sprintf(", %d deleting", n)
	}
	return fmt.Sprintf("(%s)", s)
}
