package playback

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sdplay/internal/pcm"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
	"github.com/llehouerou/sdplay/internal/tone"
)

var testFormat = pcm.Format{SampleRate: 16000, Channels: 2}

func testTracks() []playlist.Track {
	a := playlist.NewTrack("music/a.wav")
	a.Title = "Opening"
	return []playlist.Track{
		a,
		playlist.NewTrack("music/b.mp3"),
		playlist.NewTrack("music/c.wav"),
	}
}

func newTestService(opts ...Option) (*player.Mock, Service) {
	p := player.NewMock()
	return p, New(p, testTracks(), testFormat, 160, opts...)
}

func TestService_ListTracks_ReturnsCopy(t *testing.T) {
	_, svc := newTestService()

	tracks := svc.ListTracks()
	tracks[0].Path = "changed"

	if got := svc.ListTracks()[0].Path; got != "music/a.wav" {
		t.Errorf("ListTracks()[0].Path = %q, want music/a.wav", got)
	}
}

func TestService_Play(t *testing.T) {
	p, svc := newTestService()

	require.NoError(t, svc.Play("music/a.wav"))

	assert.Equal(t, []string{"music/a.wav"}, p.PlayCalls())
	now, ok := svc.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "Opening", now.Name, "library metadata is used")
	assert.Equal(t, player.Playing, svc.State())
}

func TestService_Play_OutsideLibrary(t *testing.T) {
	p, svc := newTestService()

	require.NoError(t, svc.Play("other/x.mp3"))

	assert.Equal(t, []string{"other/x.mp3"}, p.PlayCalls())
	now, _ := svc.CurrentTrack()
	assert.Equal(t, "x", now.Name)
}

func TestService_Play_Error(t *testing.T) {
	p, svc := newTestService()
	boom := errors.New("boom")
	p.SetPlayError(boom)

	assert.ErrorIs(t, svc.Play("music/a.wav"), boom)
	assert.Equal(t, player.Idle, svc.State())
}

func TestService_PlayAll(t *testing.T) {
	p, svc := newTestService()

	require.NoError(t, svc.PlayAll(false, playlist.RepeatAll))

	l := p.Playlist()
	require.NotNil(t, l)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, playlist.RepeatAll, l.Repeat())
	assert.False(t, l.Shuffle())
	assert.Equal(t, []string{"music/a.wav"}, p.PlayCalls())
	assert.Equal(t, playlist.RepeatAll, svc.RepeatMode())
	assert.False(t, svc.Shuffle())
}

func TestService_PlayAll_Shuffle(t *testing.T) {
	p, svc := newTestService(WithRand(rand.New(rand.NewPCG(1, 2))))

	require.NoError(t, svc.PlayAll(true, playlist.RepeatOff))

	l := p.Playlist()
	require.NotNil(t, l)
	assert.True(t, l.Shuffle())
	order := l.Order()
	sorted := slices.Sorted(slices.Values(order))
	assert.Equal(t, []int{0, 1, 2}, sorted)
	assert.Equal(t, []string{testTracks()[order[0]].Path}, p.PlayCalls())
	assert.True(t, svc.Shuffle())
}

func TestService_EmptyLibrary(t *testing.T) {
	p := player.NewMock()
	svc := New(p, nil, testFormat, 160)

	assert.ErrorIs(t, svc.PlayAll(false, playlist.RepeatOff), ErrEmptyLibrary)
	assert.ErrorIs(t, svc.PlayTrack(1), ErrEmptyLibrary)
	assert.Empty(t, p.PlayCalls())
}

func TestService_PlayTrack(t *testing.T) {
	tests := []struct {
		n       int
		want    string
		wantErr error
	}{
		{1, "music/a.wav", nil},
		{3, "music/c.wav", nil},
		{0, "", playlist.ErrIndexOutOfRange},
		{4, "", playlist.ErrIndexOutOfRange},
		{-1, "", playlist.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		p, svc := newTestService()
		err := svc.PlayTrack(tt.n)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "track %d", tt.n)
			assert.Empty(t, p.PlayCalls(), "track %d", tt.n)
			continue
		}
		require.NoError(t, err, "track %d", tt.n)
		assert.Equal(t, []string{tt.want}, p.PlayCalls())
	}
}

func TestService_PlayTrack_InPlaylist(t *testing.T) {
	p, svc := newTestService()
	require.NoError(t, svc.PlayAll(false, playlist.RepeatAll))

	require.NoError(t, svc.PlayTrack(3))

	assert.Equal(t, []int{2}, p.IndexCalls())
	assert.Equal(t, []string{"music/a.wav", "music/c.wav"}, p.PlayCalls())
	assert.Equal(t, playlist.RepeatAll, p.Playlist().Repeat(), "playlist modes kept")
	now, _ := svc.CurrentTrack()
	assert.Equal(t, 2, now.Index)

	assert.ErrorIs(t, svc.PlayTrack(4), playlist.ErrIndexOutOfRange)
	assert.Len(t, p.IndexCalls(), 1, "out of range never reaches the player")

	require.NoError(t, svc.Play("music/b.mp3"))
	require.NoError(t, svc.PlayTrack(1))
	assert.Len(t, p.IndexCalls(), 1, "single track play leaves the playlist")
}

func TestService_StateFollowsPlayer(t *testing.T) {
	p, svc := newTestService()

	for _, s := range []player.State{player.Loading, player.Draining, player.Idle} {
		p.SetState(s)
		assert.Equal(t, s, svc.State())
		assert.Equal(t, s, svc.Stats().State)
	}
}

func TestService_Transport(t *testing.T) {
	p, svc := newTestService()
	require.NoError(t, svc.PlayAll(false, playlist.RepeatOff))

	require.NoError(t, svc.Pause())
	assert.Equal(t, player.Paused, svc.State())
	require.NoError(t, svc.Resume())
	assert.Equal(t, player.Playing, svc.State())
	require.NoError(t, svc.Toggle())
	assert.Equal(t, player.Paused, svc.State())
	require.NoError(t, svc.Toggle())

	require.NoError(t, svc.Next())
	assert.Equal(t, 1, p.SkipCalls())
	now, _ := svc.CurrentTrack()
	assert.Equal(t, 1, now.Index)

	require.NoError(t, svc.Stop())
	assert.Equal(t, player.Idle, svc.State())
}

func TestService_PlayTone(t *testing.T) {
	p, svc := newTestService()

	require.NoError(t, svc.PlayTone(440, time.Second))
	assert.Equal(t, []string{"440 Hz"}, p.SourceCalls())

	err := svc.PlayTone(9000, time.Second)
	assert.ErrorIs(t, err, tone.ErrInvalidTone, "above Nyquist at 16 kHz")
	assert.ErrorIs(t, svc.PlayTone(440, 0), tone.ErrInvalidTone)
	assert.Len(t, p.SourceCalls(), 1)
}

func TestService_PlayNote(t *testing.T) {
	t.Run("no resolver", func(t *testing.T) {
		_, svc := newTestService()
		assert.ErrorIs(t, svc.PlayNote("A4", time.Second), ErrNoteUnresolved)
	})

	t.Run("resolved", func(t *testing.T) {
		p, svc := newTestService(WithNotes(EqualTemperament))
		require.NoError(t, svc.PlayNote("A4", time.Second))
		assert.Equal(t, []string{"A4"}, p.SourceCalls())
	})

	t.Run("unknown", func(t *testing.T) {
		p, svc := newTestService(WithNotes(EqualTemperament))
		assert.ErrorIs(t, svc.PlayNote("H2", time.Second), ErrNoteUnresolved)
		assert.Empty(t, p.SourceCalls())
	})
}

func TestService_ModeControl(t *testing.T) {
	p, svc := newTestService()

	_, err := svc.CycleRepeatMode()
	assert.ErrorIs(t, err, player.ErrNoPlaylist)
	_, err = svc.ToggleShuffle()
	assert.ErrorIs(t, err, player.ErrNoPlaylist)

	require.NoError(t, svc.PlayAll(false, playlist.RepeatOff))

	for _, want := range []playlist.RepeatMode{playlist.RepeatAll, playlist.RepeatOne, playlist.RepeatOff} {
		got, err := svc.CycleRepeatMode()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want, p.Playlist().Repeat())
	}

	on, err := svc.ToggleShuffle()
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, p.Playlist().Shuffle())

	// A single track leaves playlist mode.
	require.NoError(t, svc.Play("music/b.mp3"))
	_, err = svc.ToggleShuffle()
	assert.ErrorIs(t, err, player.ErrNoPlaylist)
}

func TestService_SetModes(t *testing.T) {
	p, svc := newTestService()

	assert.ErrorIs(t, svc.SetRepeatMode(playlist.RepeatOne), player.ErrNoPlaylist)
	assert.ErrorIs(t, svc.SetShuffle(true), player.ErrNoPlaylist)
	assert.Equal(t, playlist.RepeatOff, svc.RepeatMode())

	require.NoError(t, svc.PlayAll(true, playlist.RepeatAll))
	assert.True(t, svc.Shuffle())

	require.NoError(t, svc.SetRepeatMode(playlist.RepeatOne))
	require.NoError(t, svc.SetShuffle(false))

	assert.Equal(t, playlist.RepeatOne, svc.RepeatMode())
	assert.False(t, svc.Shuffle())
	assert.Equal(t, playlist.RepeatOne, p.Playlist().Repeat())
	assert.False(t, p.Playlist().Shuffle())
}

func TestService_Close(t *testing.T) {
	_, svc := newTestService()
	sub := svc.Subscribe()

	require.NoError(t, svc.Close())

	assert.Equal(t, player.Stopped, svc.State())
	<-sub.Done
}

func TestEqualTemperament(t *testing.T) {
	tests := []struct {
		name string
		want float64
		ok   bool
	}{
		{"A4", 440, true},
		{"a4", 440, true},
		{" A4 ", 440, true},
		{"C4", 261.6256, true},
		{"A#4", 466.1638, true},
		{"Bb4", 466.1638, true},
		{"A0", 27.5, true},
		{"C8", 4186.0090, true},
		{"H4", 0, false},
		{"A", 0, false},
		{"A#", 0, false},
		{"A10", 0, false},
		{"A-1", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EqualTemperament(tt.name)
			if ok != tt.ok {
				t.Fatalf("EqualTemperament(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			assert.InDelta(t, tt.want, got, 1e-3)
		})
	}
}
