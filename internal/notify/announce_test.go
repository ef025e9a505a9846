package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
)

type recorder struct {
	mu    sync.Mutex
	sent  []Notification
	calls int
	err   error
}

func (r *recorder) Notify(n Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	r.sent = append(r.sent, n)
	return uint32(len(r.sent)), nil
}

func (r *recorder) notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func (r *recorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// runAnnouncer emits events, waits for wantCalls notifications, then closes
// the controller and waits for the announcer to stop.
func runAnnouncer(t *testing.T, r *recorder, wantCalls int, emit func(m *player.Mock)) {
	t.Helper()
	m := player.NewMock()
	sub := m.Subscribe()

	done := make(chan error, 1)
	go func() { done <- NewAnnouncer(r, nil).Run(context.Background(), sub) }()

	emit(m)
	require.Eventually(t, func() bool { return r.callCount() == wantCalls }, 5*time.Second, time.Millisecond)
	require.NoError(t, m.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("announcer did not stop")
	}
}

func TestAnnouncer_TrackChanges(t *testing.T) {
	r := &recorder{}
	a := playlist.NewTrack("album/01.wav")

	n := trackNotification(player.NowPlaying{Name: "01", Track: a, Index: 0}, 0)
	assert.Equal(t, Notification{Title: "01", Body: "Track 1", Timeout: trackTimeout, Urgency: UrgencyLow}, n)

	runAnnouncer(t, r, 2, func(m *player.Mock) {
		m.EmitTrack(player.TrackChange{Current: player.NowPlaying{Name: "01", Track: a, Index: 0}})
		m.EmitError(player.ErrorEvent{Operation: "open", Path: "album/02.wav", Err: errors.New("truncated")})
	})

	var titles []string
	for _, n := range r.notifications() {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"01", "Cannot play 02.wav"}, titles)
}

func TestAnnouncer_ReplacesPreviousTrack(t *testing.T) {
	r := &recorder{}
	an := NewAnnouncer(r, nil)

	an.send(trackNotification(player.NowPlaying{Name: "a", Index: 0}, an.lastID), true)
	an.send(trackNotification(player.NowPlaying{Name: "b", Index: 1}, an.lastID), true)
	an.send(errorNotification(player.ErrorEvent{Path: "x.mp3", Err: errors.New("bad frame")}), false)
	an.send(trackNotification(player.NowPlaying{Name: "440 Hz", Index: -1}, an.lastID), true)

	sent := r.notifications()
	require.Len(t, sent, 4)
	assert.Zero(t, sent[0].ReplacesID)
	assert.Equal(t, uint32(1), sent[1].ReplacesID)
	assert.Zero(t, sent[2].ReplacesID, "errors stay on screen on their own")
	assert.Equal(t, uint32(2), sent[3].ReplacesID, "tracks replace the last track, not the error")
	assert.Empty(t, sent[3].Body, "synthesized sources have no track number")
}

func TestErrorNotification(t *testing.T) {
	n := errorNotification(player.ErrorEvent{Operation: "open", Path: "music/bad.wav", Err: errors.New("malformed header")})

	assert.Equal(t, "Cannot play bad.wav", n.Title)
	assert.Equal(t, "malformed header", n.Body)
	assert.Equal(t, UrgencyNormal, n.Urgency)
}

func TestAnnouncer_NotifyErrorsAreSwallowed(t *testing.T) {
	r := &recorder{err: errors.New("no daemon")}

	runAnnouncer(t, r, 1, func(m *player.Mock) {
		m.EmitTrack(player.TrackChange{Current: player.NowPlaying{Name: "a"}})
	})

	assert.Empty(t, r.notifications())
}

func TestAnnouncer_StopsOnContext(t *testing.T) {
	m := player.NewMock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewAnnouncer(&recorder{}, nil).Run(ctx, m.Subscribe())

	assert.ErrorIs(t, err, context.Canceled)
}
