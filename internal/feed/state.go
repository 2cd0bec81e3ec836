package feed

// State is the lifecycle state of a board's feed.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateLive
	StateReconnecting
	StateStalled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateLive:
		return "live"
	case StateReconnecting:
		return "reconnecting"
	case StateStalled:
		return "stalled"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var transitions = map[State][]State{
	StateIdle:         {StateFetching},
	StateFetching:     {StateLive, StateIdle},
	StateLive:         {StateReconnecting, StateIdle},
	StateReconnecting: {StateLive, StateStalled, StateIdle},
	StateStalled:      {StateFetching, StateIdle},
}

// CanTransition reports whether moving from s to next is allowed.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
