package workout

import "fmt"

type ScheduledExercise struct {
	ExerciseID string `json:"exerciseId"`
	Reps       int    `json:"reps"`
	Completed  bool   `json:"completed"`
}

// DaySchedule maps a day index to the exercises planned for it, in insertion order.
// A missing day is equivalent to an empty one. encoding/json writes the keys as "0".."6".
type DaySchedule map[int][]ScheduledExercise

// Schedule is the mutable store behind DaySchedule, with one slot per week day.
type Schedule struct {
	days [DaysInWeek][]ScheduledExercise
}

// NewSchedule builds a schedule from a persisted DaySchedule.
// Entries for days outside 0..6 are dropped.
func NewSchedule(ds DaySchedule) *Schedule {
	s := &Schedule{}
	for day, entries := range ds {
		if !ValidDay(day) {
			continue
		}
		s.days[day] = append([]ScheduledExercise(nil), entries...)
	}
	return s
}

// Add appends a new, not completed, entry to the given day.
// The exercise id is kept as an opaque reference and may not resolve in the catalog.
func (s *Schedule) Add(day int, exerciseID string, reps int) error {
	if !ValidDay(day) {
		return fmt.Errorf("schedule exercise [day %d]: %w", day, ErrDayOutOfRange)
	}
	if reps <= 0 {
		return fmt.Errorf("schedule exercise [%d reps]: %w", reps, ErrInvalidReps)
	}

	s.days[day] = append(s.days[day], ScheduledExercise{
		ExerciseID: exerciseID,
		Reps:       reps,
		Completed:  false,
	})
	return nil
}

// Toggle flips the completion flag of one entry and returns its new value.
func (s *Schedule) Toggle(day, index int) (bool, error) {
	if !ValidDay(day) {
		return false, fmt.Errorf("toggle completion [day %d]: %w", day, ErrDayOutOfRange)
	}
	if index < 0 || index >= len(s.days[day]) {
		return false, fmt.Errorf("toggle completion [day %d, entry %d of %d]: %w", day, index, len(s.days[day]), ErrEntryOutOfRange)
	}

	entry := &s.days[day][index]
	entry.Completed = !entry.Completed
	return entry.Completed, nil
}

// Snapshot returns a deep copy holding all seven days, empty ones included.
func (s *Schedule) Snapshot() DaySchedule {
	ds := make(DaySchedule, DaysInWeek)
	for day := range s.days {
		ds[day] = append([]ScheduledExercise{}, s.days[day]...)
	}
	return ds
}

func (s *Schedule) entries(day int) []ScheduledExercise {
	return s.days[day]
}
