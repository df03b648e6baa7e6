package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/saasadmin/internal/client/admin"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
)

const dateLayout = "02/01/2006 15:04"

// displayLocation is the zone dates are rendered in; tests pin it.
var displayLocation = time.Local

func (a *App) Reload(ctx context.Context) error {
	return a.store.Load(ctx)
}

// List prints the directory newest first. The first call loads it.
func (a *App) List(ctx context.Context) error {
	if a.store.State() == admin.StateIdle {
		if err := a.store.Load(ctx); err != nil {
			return err
		}
	}
	if st := a.store.State(); st == admin.StateErrored {
		fmt.Fprintln(a.out, a.styles.Muted.Render("showing data from the last successful load"))
	}

	renderTable(a.out, a.store.SortedView(), a.ctrl.IsBusy, a.styles)
	renderStats(a.out, a.store.Stats(), a.styles)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if a.store.State() == admin.StateIdle {
		if err := a.store.Load(ctx); err != nil {
			return err
		}
	}
	renderStats(a.out, a.store.Stats(), a.styles)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(displayLocation).Format(dateLayout)
}

func formatLastSignIn(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return formatDate(*t)
}

func renderTable(w io.Writer, accounts []directory.Account, busy func(id string) bool, styles Styles) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("no users"))
		return
	}

	header := []string{"ID", "EMAIL", "NAME", "PROVIDER", "CREATED", "LAST SIGN-IN", "PLAN"}
	rows := make([][]string, 0, len(accounts))
	for _, acc := range accounts {
		plan := "free"
		if acc.IsSubscribed {
			plan = "subscribed"
		}
		if busy != nil && busy(acc.ID) {
			plan = "deleting…"
		}
		rows = append(rows, []string{
			acc.ID, acc.Email, acc.DisplayName, acc.AuthProvider,
			formatDate(acc.CreatedAt), formatLastSignIn(acc.LastSignInAt), plan,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	fmt.Fprintln(w, styles.Header.Render(joinCells(header, widths)))
	for i, r := range rows {
		line := joinCells(r, widths)
		if busy != nil && busy(accounts[i].ID) {
			line = styles.Busy.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

func joinCells(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c)))
		}
	}
	return b.String()
}

func renderStats(w io.Writer, s directory.Stats, styles Styles) {
	fmt.Fprintln(w, styles.Title.Render("Subscriptions"))
	fmt.Fprintf(w, "  total: %d  subscribed: %d  free: %d  conversion: %.1f%%\n",
		s.Total, s.Subscribed, s.NonSubscribed, s.ConversionRate)
}
