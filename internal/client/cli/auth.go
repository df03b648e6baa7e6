package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/saasadmin/internal/client/admin"
)

// getSecret is an indirection used to facilitate testing.
var getSecret = GetSecret

// Token reads a new access token without echo, installs it and reloads the
// directory.
func (a *App) Token(ctx context.Context) error {
	token, err := getSecret(a.reader, "Access token", a.out)
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(a.out, a.styles.Muted.Render("token unchanged"))
		return nil
	}
	a.session.Set(token)

	if _, err := a.session.CurrentUser(ctx); err != nil {
		fmt.Fprintln(a.out, a.styles.Error.Render("✘ "+err.Error()))
		return err
	}
	return a.Reload(ctx)
}

// WhoAmI prints the principal from the token, whether the local allow-list
// treats it as an administrator, and what the server says.
func (a *App) WhoAmI(ctx context.Context) error {
	p, err := a.session.CurrentUser(ctx)
	if err != nil {
		fmt.Fprintln(a.out, a.styles.Error.Render("✘ "+err.Error()))
		return err
	}
	if p == nil {
		fmt.Fprintln(a.out, a.styles.Muted.Render("not signed in"))
		return nil
	}

	fmt.Fprintf(a.out, "id:    %s\nemail: %s\nadmin: %t (local)", p.ID, p.Email, a.policy.IsAdmin(p.Email))

	timeout := a.config.RequestTimeout
	if timeout <= 0 {
		timeout = admin.DefaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	isAdmin, err := a.api.CheckAdmin(reqCtx)
	if err != nil {
		fmt.Fprintln(a.out, ", server check failed")
		a.logger.Warn(ctx, "check-admin failed", "error", err)
		return err
	}
	fmt.Fprintf(a.out, ", %t (server)\n", isAdmin)
	return nil
}
