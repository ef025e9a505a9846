package player

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Events are dropped
// for a subscriber whose buffer is full.
type Subscription struct {
	StateChanged <-chan StateChange
	TrackChanged <-chan TrackChange
	Underrun     <-chan UnderrunEvent
	Error        <-chan ErrorEvent
	Done         <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	underrunCh chan UnderrunEvent
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		underrunCh: make(chan UnderrunEvent, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.Underrun = s.underrunCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
	}
}

func (s *Subscription) sendUnderrun(e UnderrunEvent) {
	select {
	case s.underrunCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
