package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/2beens/fitperso/internal/telemetry/tracing"
	"github.com/2beens/fitperso/internal/workout"
)

// keys of the persisted state, one value per key
const (
	KeyExercises    = "fitperso-exercises"
	KeySchedule     = "fitperso-programs"
	KeyDailyGoal    = "fitperso-goal"
	KeyStreak       = "fitperso-streak"
	KeyBestStreak   = "fitperso-best-streak"
	KeyWeeklyRecord = "fitperso-weekly-data"
)

// StateRepo maps the tracker state onto a KV store.
// It implements workout.StateSaver.
type StateRepo struct {
	kv KV
}

var _ workout.StateSaver = (*StateRepo)(nil)

func NewStateRepo(kv KV) *StateRepo {
	return &StateRepo{
		kv: kv,
	}
}

// Load reads every key. Keys never written are left to their zero value, and so are
// values that cannot be parsed (a warning is logged), so the tracker falls back to
// its defaults. Only store failures are returned.
func (r *StateRepo) Load(ctx context.Context) (_ *workout.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.state.load")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	snapshot := &workout.Snapshot{}

	if snapshot.Exercises, err = loadJSON[[]workout.Exercise](ctx, r.kv, KeyExercises); err != nil {
		return nil, err
	}
	if snapshot.Schedule, err = loadJSON[workout.DaySchedule](ctx, r.kv, KeySchedule); err != nil {
		return nil, err
	}
	if snapshot.WeeklyRecord, err = loadJSON[workout.WeeklyRecord](ctx, r.kv, KeyWeeklyRecord); err != nil {
		return nil, err
	}
	if snapshot.DailyGoal, err = r.loadInt(ctx, KeyDailyGoal); err != nil {
		return nil, err
	}
	if snapshot.Streak.Current, err = r.loadInt(ctx, KeyStreak); err != nil {
		return nil, err
	}
	if snapshot.Streak.Best, err = r.loadInt(ctx, KeyBestStreak); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("exercises", len(snapshot.Exercises)),
		attribute.Int("streak.current", snapshot.Streak.Current),
	)
	log.Debugf("state loaded: %d exercises, goal %d, streak %d/%d",
		len(snapshot.Exercises), snapshot.DailyGoal, snapshot.Streak.Current, snapshot.Streak.Best)

	return snapshot, nil
}

func (r *StateRepo) SaveExercises(ctx context.Context, exercises []workout.Exercise) error {
	return r.saveJSON(ctx, KeyExercises, exercises)
}

func (r *StateRepo) SaveSchedule(ctx context.Context, schedule workout.DaySchedule) error {
	return r.saveJSON(ctx, KeySchedule, schedule)
}

func (r *StateRepo) SaveWeeklyRecord(ctx context.Context, record workout.WeeklyRecord) error {
	return r.saveJSON(ctx, KeyWeeklyRecord, record)
}

func (r *StateRepo) SaveDailyGoal(ctx context.Context, goal int) error {
	return r.save(ctx, KeyDailyGoal, strconv.Itoa(goal))
}

// SaveStreak writes both counters, attempting the second even when the first fails.
func (r *StateRepo) SaveStreak(ctx context.Context, streak workout.StreakState) error {
	var err error
	err = multierr.Append(err, r.save(ctx, KeyStreak, strconv.Itoa(streak.Current)))
	err = multierr.Append(err, r.save(ctx, KeyBestStreak, strconv.Itoa(streak.Best)))
	return err
}

func (r *StateRepo) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal [%s]: %w", key, err)
	}
	return r.save(ctx, key, string(raw))
}

func (r *StateRepo) save(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.state.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("key", key))

	if err := r.kv.Set(ctx, key, value); err != nil {
		return fmt.Errorf("save [%s]: %w", key, err)
	}
	return nil
}

func loadJSON[T any](ctx context.Context, kv KV, key string) (T, error) {
	var v T
	value, found, err := kv.Get(ctx, key)
	if err != nil {
		return v, fmt.Errorf("load [%s]: %w", key, err)
	}
	if !found {
		return v, nil
	}
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		log.Warnf("stored value of [%s] is corrupt, using defaults: %s", key, err)
		var zero T
		return zero, nil
	}
	return v, nil
}

func (r *StateRepo) loadInt(ctx context.Context, key string) (int, error) {
	value, found, err := r.kv.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load [%s]: %w", key, err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("stored value of [%s] is not an integer, using defaults: %s", key, err)
		return 0, nil
	}
	return n, nil
}
