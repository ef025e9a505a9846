package notify

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/llehouerou/sdplay/internal/player"
)

const trackTimeout = 5000 // ms

// Announcer turns controller events into notifications. Track
// notifications replace each other so only the current one is shown.
type Announcer struct {
	n      Notifier
	logger *slog.Logger
	lastID uint32
}

// NewAnnouncer creates an announcer sending to n.
func NewAnnouncer(n Notifier, logger *slog.Logger) *Announcer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Announcer{n: n, logger: logger}
}

// Run announces events from sub until ctx is done or the controller
// closes. Notification failures are logged, never returned.
func (a *Announcer) Run(ctx context.Context, sub *player.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sub.Done:
			return nil
		case e := <-sub.TrackChanged:
			a.send(trackNotification(e.Current, a.lastID), true)
		case e := <-sub.Error:
			a.send(errorNotification(e), false)
		}
	}
}

func (a *Announcer) send(n Notification, replace bool) {
	id, err := a.n.Notify(n)
	if err != nil {
		a.logger.Warn("notification failed", "title", n.Title, "error", err)
		return
	}
	if replace && id != 0 {
		a.lastID = id
	}
}

func trackNotification(now player.NowPlaying, replaces uint32) Notification {
	n := Notification{
		Title:      now.Name,
		Timeout:    trackTimeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
	if now.Index >= 0 {
		n.Body = fmt.Sprintf("Track %d", now.Index+1)
	}
	return n
}

func errorNotification(e player.ErrorEvent) Notification {
	return Notification{
		Title:   "Cannot play " + path.Base(e.Path),
		Body:    e.Err.Error(),
		Timeout: -1,
		Urgency: UrgencyNormal,
	}
}
