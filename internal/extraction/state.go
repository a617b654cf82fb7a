package extraction

// State is a step of one extraction call.
type State string

const (
	StateStart           State = "START"
	StateValidating      State = "VALIDATING"
	StateDirectAttempt   State = "DIRECT_ATTEMPT"
	StateFallbackAttempt State = "FALLBACK_ATTEMPT"
	StateSuccess         State = "SUCCESS"
	StateFailure         State = "FAILURE"
)

// transitions lists the legal successors of each state.
var transitions = map[State][]State{
	StateStart:           {StateValidating, StateFailure},
	StateValidating:      {StateDirectAttempt, StateFailure},
	StateDirectAttempt:   {StateSuccess, StateFallbackAttempt, StateFailure},
	StateFallbackAttempt: {StateSuccess, StateFailure},
}

// CanTransition reports whether next may follow s.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the call.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailure
}
