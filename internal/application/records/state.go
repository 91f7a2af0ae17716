package records

// Mode is the state of the create/edit modal
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "closed"
	}
}

// FormState is one of Closed, Creating or Editing(record). The record is
// only reachable while editing, so a closed or creating form can never
// carry a stale selection.
type FormState[T any] struct {
	mode   Mode
	record T
}

// Closed is the state with no modal open
func Closed[T any]() FormState[T] {
	return FormState[T]{mode: ModeClosed}
}

// Creating is the state of a modal creating a new record
func Creating[T any]() FormState[T] {
	return FormState[T]{mode: ModeCreating}
}

// Editing is the state of a modal editing record
func Editing[T any](record T) FormState[T] {
	return FormState[T]{mode: ModeEditing, record: record}
}

// Mode returns the state tag
func (s FormState[T]) Mode() Mode {
	return s.mode
}

// IsOpen reports whether a modal is open
func (s FormState[T]) IsOpen() bool {
	return s.mode != ModeClosed
}

// Record returns the record being edited
func (s FormState[T]) Record() (T, bool) {
	if s.mode != ModeEditing {
		var zero T
		return zero, false
	}
	return s.record, true
}
