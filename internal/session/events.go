package session

type State string

const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateAnswering State = "answering"
	StateScored    State = "scored"
	StateCompleted State = "completed"
	StateErrored   State = "errored"
	StateClosed    State = "closed"
)

// Terminal reports whether no further transition except Close can happen.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateErrored || s == StateClosed
}

type EventType string

const (
	EventQuestion  EventType = "question"
	EventTick      EventType = "tick"
	EventScored    EventType = "scored"
	EventTimeUp    EventType = "time_up"
	EventCompleted EventType = "completed"
	EventErrored   EventType = "errored"
)

type Event struct {
	Type      EventType
	SessionID string
	Index     int
	Remaining int
	Correct   bool
	Message   string
}
