package cli

import (
	"context"
	"fmt"
	"strings"
)

// getSimpleText is an indirection used to facilitate testing.
var getSimpleText = GetSimpleText

// Delete asks for the user id (unless given) and for the account email as
// confirmation, then starts the deletion in the background. The outcome is
// reported by the notifier.
func (a *App) Delete(ctx context.Context, args []string) error {
	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		id, err = getSimpleText(a.reader, "Enter user id to delete", a.out)
		if err != nil {
			return err
		}
	}
	if id == "" {
		return nil
	}

	prompt := "Type the email of the user to confirm deletion"
	if acc, ok := a.store.Lookup(id); ok {
		prompt = fmt.Sprintf("Type %q to delete %s permanently", acc.Email, acc.DisplayName)
	}
	confirm, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(confirm) == "" {
		fmt.Fprintln(a.out, a.styles.Muted.Render("deletion cancelled"))
		return nil
	}

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		_ = a.ctrl.DeleteAccount(ctx, id, confirm)
	}()
	return nil
}

// Busy prints the ids whose deletion is still in flight.
func (a *App) Busy(context.Context) error {
	ids := a.ctrl.Busy()
	if len(ids) == 0 {
		fmt.Fprintln(a.out, a.styles.Muted.Render("no deletions in flight"))
		return nil
	}
	for _, id := range ids {
		label := id
		if acc, ok := a.store.Lookup(id); ok {
			label = fmt.Sprintf("%s (%s)", id, acc.Email)
		}
		fmt.Fprintln(a.out, a.styles.Busy.Render("deleting "+label))
	}
	return nil
}
