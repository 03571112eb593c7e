package game

// EventType names a session notification
type EventType string

const (
	EventState     EventType = "state"
	EventFeedback  EventType = "feedback"
	EventAdvance   EventType = "advance"
	EventTick      EventType = "tick"
	EventCelebrate EventType = "celebrate"
	EventCompleted EventType = "completed"
)

// Event carries a state change to subscribers
type Event struct {
	Type    EventType `json:"type"`
	State   Snapshot  `json:"state"`
	Outcome *Outcome  `json:"outcome,omitempty"`
}

// Listener receives session events. Listeners run on the goroutine that
// caused the change and should not block.
type Listener func(Event)

// Subscribe registers l and returns a function that removes it
func (s *Session) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) listenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func dispatch(listeners []Listener, events []Event) {
	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}
