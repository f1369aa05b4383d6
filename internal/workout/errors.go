package workout

import "errors"

// validation failures, state is never mutated when one of these is returned
var (
	ErrInvalidExerciseName = errors.New("exercise name empty")
	ErrInvalidReps         = errors.New("reps must be a positive integer")
	ErrInvalidDailyGoal    = errors.New("daily goal must be positive")
)

// ErrIndexOutOfRange signals a caller contract violation (bad day or entry position).
// Both ErrDayOutOfRange and ErrEntryOutOfRange wrap it.
var ErrIndexOutOfRange = errors.New("index out of range")

var (
	ErrDayOutOfRange   = wrapRange("day")
	ErrEntryOutOfRange = wrapRange("schedule entry")
)

type rangeError struct {
	what string
}

func wrapRange(what string) error {
	return &rangeError{what: what}
}

func (e *rangeError) Error() string {
	return e.what + " " + ErrIndexOutOfRange.Error()
}

func (e *rangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

// IsValidationErr reports whether err is caused by malformed user input.
func IsValidationErr(err error) bool {
	return errors.Is(err, ErrInvalidExerciseName) ||
		errors.Is(err, ErrInvalidReps) ||
		errors.Is(err, ErrInvalidDailyGoal)
}
