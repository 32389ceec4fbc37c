/*
transition.go - The punch sequence state machine

PURPOSE:
  Enforces the legal order of punch types within one work-day:

    NOT_STARTED -> IN -> {OUTSIDE <-> RETURN} -> OUT (terminal)

  IN is the unique entry point, OUTSIDE/RETURN form a nested excursion
  loop that must close before OUT, and OUT is terminal so a closed
  work-day cannot be resurrected (corrections are a distinct, audited
  operation outside this core).

SINGLE SOURCE OF TRUTH:
  The transition table below is the whole rule. No type coercion and no
  inference of "missing" punches happens here; a correction-suggestion
  collaborator owns that.

SEE ALSO:
  - errors.go: SequenceError carries current state + requested type
  - engine in the attendance package: runs this as the last gate
*/
package punch

// =============================================================================
// STATES
// =============================================================================

// State is the work-day position derived from the last accepted punch.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateIn         State = "IN"
	StateOutside    State = "OUTSIDE"
	StateReturn     State = "RETURN"
	StateOut        State = "OUT"
)

// transitions maps each state to the punch types legal from it.
// This table is the single source of truth for sequence validation.
var transitions = map[State][]Type{
	StateNotStarted: {TypeIn},
	StateIn:         {TypeOutside, TypeOut},
	StateOutside:    {TypeReturn},
	StateReturn:     {TypeOutside, TypeOut},
	StateOut:        {}, // terminal
}

// CurrentState derives the work-day state from its ordered punch list.
func CurrentState(punches []Punch) State {
	if len(punches) == 0 {
		return StateNotStarted
	}
	switch punches[len(punches)-1].Type {
	case TypeIn:
		return StateIn
	case TypeOutside:
		return StateOutside
	case TypeReturn:
		return StateReturn
	case TypeOut:
		return StateOut
	default:
		return StateNotStarted
	}
}

// AllowedNext returns the punch types legal from the given state.
func AllowedNext(state State) []Type {
	next := transitions[state]
	out := make([]Type, len(next))
	copy(out, next)
	return out
}

// ValidateTransition checks whether requested is a legal next punch for
// the ordered work-day punch list. Returns a SequenceError on rejection.
func ValidateTransition(employeeID EmployeeID, punches []Punch, requested Type) error {
	state := CurrentState(punches)
	for _, t := range transitions[state] {
		if t == requested {
			return nil
		}
	}
	return &SequenceError{EmployeeID: employeeID, Current: state, Requested: requested}
}
