package workout

import "math"

const FullPercentage = 100.0

type ExerciseLookup interface {
	Lookup(id string) (Exercise, bool)
}

// WeightedUnits sums reps * coefficient over the completed entries.
// Entries pointing to an unknown exercise count as zero.
func WeightedUnits(entries []ScheduledExercise, lookup ExerciseLookup) float64 {
	var total float64
	for _, entry := range entries {
		if !entry.Completed {
			continue
		}
		exercise, ok := lookup.Lookup(entry.ExerciseID)
		if !ok {
			continue
		}
		total += float64(entry.Reps) * exercise.Coefficient
	}
	return total
}

// DayPercentage computes how much of the daily goal the completed entries cover,
// clamped to [0, 100]. A non-positive goal always yields 0.
func DayPercentage(entries []ScheduledExercise, lookup ExerciseLookup, dailyGoal int) float64 {
	if dailyGoal <= 0 {
		return 0
	}

	p := WeightedUnits(entries, lookup) * FullPercentage / float64(dailyGoal)
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, FullPercentage)
}
