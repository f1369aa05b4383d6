package workout

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultDailyGoal = 100

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=workout_test

// StateSaver persists the tracker state after every mutation.
// Errors are logged by the tracker and never fail the operation that caused the write.
type StateSaver interface {
	SaveExercises(ctx context.Context, exercises []Exercise) error
	SaveSchedule(ctx context.Context, schedule DaySchedule) error
	SaveDailyGoal(ctx context.Context, goal int) error
	SaveStreak(ctx context.Context, streak StreakState) error
	SaveWeeklyRecord(ctx context.Context, record WeeklyRecord) error
}

// Snapshot is the complete tracker state, as loaded from or handed to persistence.
// Zero values mean "nothing persisted yet" and are replaced by defaults in NewTracker.
type Snapshot struct {
	Exercises    []Exercise   `json:"exercises"`
	Schedule     DaySchedule  `json:"schedule"`
	DailyGoal    int          `json:"dailyGoal"`
	Streak       StreakState  `json:"streak"`
	WeeklyRecord WeeklyRecord `json:"weeklyRecord"`
}

type ToggleResult struct {
	Day                int         `json:"day"`
	Index              int         `json:"index"`
	Completed          bool        `json:"completed"`
	PreviousPercentage float64     `json:"previousPercentage"`
	Percentage         float64     `json:"percentage"`
	IsToday            bool        `json:"isToday"`
	StreakAdvanced     bool        `json:"streakAdvanced"`
	Streak             StreakState `json:"streak"`
}

type NewTrackerParams struct {
	Snapshot *Snapshot
	Saver    StateSaver
	// Now defaults to time.Now
	Now func() time.Time
	// NewExerciseID defaults to ids derived from the creation instant
	NewExerciseID func() string
}

// Tracker is the state container for the whole session: catalog, schedule, daily goal,
// streak and weekly record. All operations are serialized.
type Tracker struct {
	mu sync.Mutex

	catalog   *Catalog
	schedule  *Schedule
	dailyGoal int
	streak    StreakState
	weekly    WeeklyRecord

	saver StateSaver
	now   func() time.Time
}

func NewTracker(params NewTrackerParams) *Tracker {
	snapshot := params.Snapshot
	if snapshot == nil {
		snapshot = &Snapshot{}
	}

	exercises := snapshot.Exercises
	if exercises == nil {
		exercises = DefaultExercises()
	}

	dailyGoal := snapshot.DailyGoal
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}

	streak := snapshot.Streak
	if streak.Current < 0 {
		streak.Current = 0
	}
	if streak.Best < streak.Current {
		streak.Best = streak.Current
	}

	weekly := NewWeeklyRecord()
	if snapshot.WeeklyRecord != nil {
		weekly = normalizeWeeklyRecord(snapshot.WeeklyRecord)
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &Tracker{
		catalog:   NewCatalog(exercises, params.NewExerciseID),
		schedule:  NewSchedule(snapshot.Schedule),
		dailyGoal: dailyGoal,
		streak:    streak,
		weekly:    weekly,
		saver:     params.Saver,
		now:       now,
	}
}

func (t *Tracker) AddExercise(ctx context.Context, name, icon string, coefficient float64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.catalog.Add(name, icon, coefficient)
	if err != nil {
		return "", fmt.Errorf("add exercise: %w", err)
	}

	log.Debugf("exercise added [%s]: %s", id, name)
	t.persist(ctx, func(ctx context.Context, saver StateSaver) error {
		return saver.SaveExercises(ctx, t.catalog.List())
	})

	return id, nil
}

func (t *Tracker) ScheduleExercise(ctx context.Context, day int, exerciseID string, reps int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.schedule.Add(day, exerciseID, reps); err != nil {
		if !IsValidationErr(err) {
			log.Errorf("schedule exercise: %s", err)
		}
		return err
	}

	if _, ok := t.catalog.Lookup(exerciseID); !ok {
		log.Warnf("exercise [%s] scheduled on day %d does not exist in the catalog", exerciseID, day)
	}

	t.persist(ctx, func(ctx context.Context, saver StateSaver) error {
		return saver.SaveSchedule(ctx, t.schedule.Snapshot())
	})

	return nil
}

// ToggleCompletion flips one entry, then refreshes the weekly record for that day and,
// when the day is today, advances the streak. Everything happens under one lock so
// the recomputation always sees the post-toggle state.
func (t *Tracker) ToggleCompletion(ctx context.Context, day, index int) (*ToggleResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !ValidDay(day) {
		err := fmt.Errorf("toggle completion [day %d]: %w", day, ErrDayOutOfRange)
		log.Error(err)
		return nil, err
	}

	before := t.dayPercentage(day)
	completed, err := t.schedule.Toggle(day, index)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	after := t.dayPercentage(day)

	t.weekly[day].Percentage = after

	isToday := day == NormalizeDayIndex(t.now())
	advanced := false
	if isToday {
		advanced = t.streak.Advance(before, after)
	}

	if advanced {
		log.Infof("daily goal reached, streak now %d (best %d)", t.streak.Current, t.streak.Best)
	}

	t.persist(ctx, func(ctx context.Context, saver StateSaver) error {
		return saver.SaveSchedule(ctx, t.schedule.Snapshot())
	})
	t.persist(ctx, func(ctx context.Context, saver StateSaver) error {
		return saver.SaveWeeklyRecord(ctx, t.weekly.clone())
	})
	if advanced {
		t.persist(ctx, func(ctx context.Context, saver StateSaver) error {
			return saver.SaveStreak(ctx, t.streak)
		})
	}

	return &ToggleResult{
		Day:                day,
		Index:              index,
		Completed:          completed,
		PreviousPercentage: before,
		Percentage:         after,
		IsToday:            isToday,
		StreakAdvanced:     advanced,
		Streak:             t.streak,
	}, nil
}

// SetDailyGoal changes the goal shared by all days. Stored weekly percentages are
// not recomputed, they are refreshed on the next toggle of each day.
func (t *Tracker) SetDailyGoal(ctx context.Context, goal int) error {
	if goal <= 0 {
		return fmt.Errorf("set daily goal [%d]: %w", goal, ErrInvalidDailyGoal)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.dailyGoal = goal
	t.persist(ctx, func(ctx context.Context, saver StateSaver) error {
		return saver.SaveDailyGoal(ctx, goal)
	})

	return nil
}

func (t *Tracker) ComputeDayPercentage(day int) (float64, error) {
	if !ValidDay(day) {
		return 0, fmt.Errorf("compute day percentage [day %d]: %w", day, ErrDayOutOfRange)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.dayPercentage(day), nil
}

func (t *Tracker) TodayIndex() int {
	return NormalizeDayIndex(t.now())
}

func (t *Tracker) Exercises() []Exercise {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.List()
}

// Exercise resolves one catalog entry, ok is false when the id is unknown.
func (t *Tracker) Exercise(id string) (Exercise, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.Lookup(id)
}

func (t *Tracker) Schedule() DaySchedule {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.schedule.Snapshot()
}

func (t *Tracker) DailyGoal() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dailyGoal
}

func (t *Tracker) Streak() StreakState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streak
}

func (t *Tracker) WeeklyRecord() WeeklyRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.weekly.clone()
}

func (t *Tracker) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return &Snapshot{
		Exercises:    t.catalog.List(),
		Schedule:     t.schedule.Snapshot(),
		DailyGoal:    t.dailyGoal,
		Streak:       t.streak,
		WeeklyRecord: t.weekly.clone(),
	}
}

// must be called with t.mu held and a valid day
func (t *Tracker) dayPercentage(day int) float64 {
	return DayPercentage(t.schedule.entries(day), t.catalog, t.dailyGoal)
}

// persist runs a single write against the saver and only logs its failure.
// Must be called with t.mu held, so writes reach the saver in mutation order.
func (t *Tracker) persist(ctx context.Context, save func(ctx context.Context, saver StateSaver) error) {
	if t.saver == nil {
		return
	}
	if err := save(ctx, t.saver); err != nil {
		log.Errorf("persist tracker state: %s", err)
	}
}
