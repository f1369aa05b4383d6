package workout

import "fmt"

// ResolvedEntry is a scheduled exercise joined with its catalog definition.
// Known is false for dangling references, which render as UnknownExerciseName.
type ResolvedEntry struct {
	Index         int     `json:"index"`
	ExerciseID    string  `json:"exerciseId"`
	Name          string  `json:"name"`
	Icon          string  `json:"icon"`
	Coefficient   float64 `json:"coefficient"`
	Reps          int     `json:"reps"`
	Completed     bool    `json:"completed"`
	Known         bool    `json:"known"`
	WeightedUnits float64 `json:"weightedUnits"`
}

type DayView struct {
	Day        int             `json:"day"`
	DayName    string          `json:"dayName"`
	IsToday    bool            `json:"isToday"`
	Entries    []ResolvedEntry `json:"entries"`
	DailyGoal  int             `json:"dailyGoal"`
	Percentage float64         `json:"percentage"`
}

type Dashboard struct {
	TodayIndex      int          `json:"todayIndex"`
	TodayPercentage float64      `json:"todayPercentage"`
	DailyGoal       int          `json:"dailyGoal"`
	Streak          StreakState  `json:"streak"`
	WeeklyRecord    WeeklyRecord `json:"weeklyRecord"`
}

func (t *Tracker) DayView(day int) (*DayView, error) {
	if !ValidDay(day) {
		return nil, fmt.Errorf("day view [day %d]: %w", day, ErrDayOutOfRange)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.schedule.entries(day)
	resolved := make([]ResolvedEntry, 0, len(entries))
	for i, entry := range entries {
		re := ResolvedEntry{
			Index:      i,
			ExerciseID: entry.ExerciseID,
			Name:       UnknownExerciseName,
			Reps:       entry.Reps,
			Completed:  entry.Completed,
		}
		if exercise, ok := t.catalog.Lookup(entry.ExerciseID); ok {
			re.Known = true
			re.Name = exercise.Name
			re.Icon = exercise.Icon
			re.Coefficient = exercise.Coefficient
			re.WeightedUnits = float64(entry.Reps) * exercise.Coefficient
		}
		resolved = append(resolved, re)
	}

	return &DayView{
		Day:        day,
		DayName:    DayName(day),
		IsToday:    day == NormalizeDayIndex(t.now()),
		Entries:    resolved,
		DailyGoal:  t.dailyGoal,
		Percentage: t.dayPercentage(day),
	}, nil
}

func (t *Tracker) Dashboard() *Dashboard {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := NormalizeDayIndex(t.now())
	return &Dashboard{
		TodayIndex:      today,
		TodayPercentage: t.dayPercentage(today),
		DailyGoal:       t.dailyGoal,
		Streak:          t.streak,
		WeeklyRecord:    t.weekly.clone(),
	}
}
