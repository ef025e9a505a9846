// Package notify shows desktop notifications for playback events.
package notify

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // summary
	Body       string  // optional
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID, or 0 when
	// notifications are unavailable.
	Notify(n Notification) (uint32, error)
}
