package admin

// Notifier shows operator-facing messages. Implementations must not call
// back into the Store or MutationController.
type Notifier interface {
	NotifySuccess(msg string)
	NotifyError(msg string)
}

type NopNotifier struct{}

func (NopNotifier) NotifySuccess(string) {}
func (NopNotifier) NotifyError(string)   {}
