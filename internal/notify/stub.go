//go:build !linux

package notify

type stubNotifier struct{}

func (stubNotifier) Notify(Notification) (uint32, error) { return 0, nil }

// New returns a no-op notifier on non-Linux platforms.
func New() Notifier {
	return stubNotifier{}
}
