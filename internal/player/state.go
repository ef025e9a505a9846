package player

// State is the playback state. Only the controller's run loop assigns it.
//
//	          play              first frame buffered
//	 Idle ───────────▶ Loading ─────────────────────▶ Playing ◀──┐
//	  ▲ ▲                 ▲                            │  │      │ resume
//	  │ │                 └─── track ended, next ──────┘  │ pause│
//	  │ │                                                 ▼      │
//	  │ │  buffer empty          track ended, no next            Paused
//	  │ └──────────────── Draining ◀──────── Playing
//	  │
//	  └── stop (from any state but Stopped)
//
//	Close moves any state to Stopped, which is final.
//
// Skip and Play on a busy controller are a stop followed by a play.
type State int32

const (
	Idle State = iota
	Loading
	Playing
	Paused
	Draining
	Stopped
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Draining:
		return "Draining"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a track is loaded (Loading through Draining).
func (s State) IsActive() bool {
	return s == Loading || s == Playing || s == Paused || s == Draining
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}

// consuming reports whether the sink should read from the buffer.
func (s State) consuming() bool {
	return s == Loading || s == Playing || s == Draining
}
