package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/saasadmin/internal/client/admin"
)

var _ admin.Notifier = (*Notifier)(nil)

// Notifier prints admin notifications as styled lines.
type Notifier struct {
	w      io.Writer
	styles Styles
}

func NewNotifier(w io.Writer, styles Styles) *Notifier {
	return &Notifier{w: w, styles: styles}
}

func (n *Notifier) NotifySuccess(msg string) {
	fmt.Fprintln(n.w, n.styles.Success.Render("✔ "+msg))
}

func (n *Notifier) NotifyError(msg string) {
	fmt.Fprintln(n.w, n.styles.Error.Render("✘ "+msg))
}
