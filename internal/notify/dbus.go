//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
)

// dbusNotifier sends notifications via D-Bus.
type dbusNotifier struct {
	obj dbus.BusObject
}

// New creates a Notifier on the session bus. Without a session bus it
// returns a notifier that drops everything.
func New() Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		return stubNotifier{}
	}
	return &dbusNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}
}

// Notify sends a notification via D-Bus.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant("sdplay"),
	}

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.Call(
		dbusNotifyInterface+".Notify",
		0,
		"sdplay",
		notif.ReplacesID,
		"audio-x-generic",
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

type stubNotifier struct{}

func (stubNotifier) Notify(Notification) (uint32, error) { return 0, nil }
