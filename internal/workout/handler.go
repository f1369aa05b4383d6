package workout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitperso/internal/telemetry/metrics"
	"github.com/2beens/fitperso/internal/telemetry/tracing"
	"github.com/2beens/fitperso/pkg"
)

type AddExerciseRequest struct {
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Coefficient float64 `json:"coefficient"`
}

type AddExerciseResponse struct {
	ID       string   `json:"id"`
	Exercise Exercise `json:"exercise"`
}

type ListExercisesResponse struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
}

type ScheduleExerciseRequest struct {
	ExerciseID string `json:"exerciseId"`
	Reps       int    `json:"reps"`
}

type DailyGoalRequest struct {
	Goal int `json:"goal"`
}

type DailyGoalResponse struct {
	Goal int `json:"goal"`
}

type DayProgressResponse struct {
	Day        int     `json:"day"`
	Percentage float64 `json:"percentage"`
}

type Handler struct {
	tracker *Tracker
	metrics *metrics.Manager
}

func NewHandler(tracker *Tracker, metricsManager *metrics.Manager) *Handler {
	handler := &Handler{
		tracker: tracker,
		metrics: metricsManager,
	}
	handler.refreshGauges()
	return handler
}

// SetupRoutes registers all routes. mutation, when not nil, wraps the state changing ones
// (e.g. with a rate limiter).
func (handler *Handler) SetupRoutes(router *mux.Router, mutation func(http.Handler) http.Handler) {
	if mutation == nil {
		mutation = func(next http.Handler) http.Handler { return next }
	}
	mutate := func(h http.HandlerFunc) http.Handler {
		return mutation(h)
	}

	router.HandleFunc("/exercises", handler.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	router.Handle("/exercises", mutate(handler.HandleAddExercise)).Methods("POST", "OPTIONS").Name("add-exercise")
	router.HandleFunc("/schedule", handler.HandleGetSchedule).Methods("GET", "OPTIONS").Name("get-schedule")
	router.HandleFunc("/schedule/{day}", handler.HandleGetDay).Methods("GET", "OPTIONS").Name("get-day")
	router.Handle("/schedule/{day}", mutate(handler.HandleScheduleExercise)).Methods("POST", "OPTIONS").Name("schedule-exercise")
	router.Handle("/schedule/{day}/entry/{index}/toggle", mutate(handler.HandleToggleCompletion)).Methods("POST", "OPTIONS").Name("toggle-completion")
	router.HandleFunc("/goal", handler.HandleGetDailyGoal).Methods("GET", "OPTIONS").Name("get-goal")
	router.Handle("/goal", mutate(handler.HandleSetDailyGoal)).Methods("PUT", "OPTIONS").Name("set-goal")
	router.HandleFunc("/progress/{day}", handler.HandleDayProgress).Methods("GET", "OPTIONS").Name("day-progress")
	router.HandleFunc("/today", handler.HandleToday).Methods("GET", "OPTIONS").Name("today")
	router.HandleFunc("/streak", handler.HandleStreak).Methods("GET", "OPTIONS").Name("streak")
	router.HandleFunc("/weekly", handler.HandleWeekly).Methods("GET", "OPTIONS").Name("weekly")
	router.HandleFunc("/dashboard", handler.HandleDashboard).Methods("GET", "OPTIONS").Name("dashboard")
}

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises := handler.tracker.Exercises()
	pkg.WriteJSON(w, ListExercisesResponse{
		Exercises: exercises,
		Total:     len(exercises),
	}, http.StatusOK)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.add-exercise")
	defer span.End()

	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed, invalid json", http.StatusBadRequest)
		return
	}

	id, err := handler.tracker.AddExercise(ctx, req.Name, req.Icon, req.Coefficient)
	if err != nil {
		handler.writeError(w, err, "add exercise")
		return
	}
	span.SetAttributes(attribute.String("exercise.id", id))

	exercise, _ := handler.tracker.Exercise(id)
	if handler.metrics != nil {
		handler.metrics.CounterExercisesAdded.Inc()
	}

	log.Debugf("new exercise added: [%s] %s", id, exercise.Name)
	pkg.WriteJSON(w, AddExerciseResponse{
		ID:       id,
		Exercise: exercise,
	}, http.StatusCreated)
}

func (handler *Handler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.tracker.Schedule(), http.StatusOK)
}

func (handler *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayFromVars(w, r)
	if !ok {
		return
	}

	dayView, err := handler.tracker.DayView(day)
	if err != nil {
		handler.writeError(w, err, "get day")
		return
	}

	pkg.WriteJSON(w, dayView, http.StatusOK)
}

func (handler *Handler) HandleScheduleExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.schedule-exercise")
	defer span.End()

	day, ok := dayFromVars(w, r)
	if !ok {
		return
	}

	var req ScheduleExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("schedule exercise, unmarshal json params: %s", err)
		http.Error(w, "schedule exercise failed, invalid json", http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.Int("day", day),
		attribute.String("exercise.id", req.ExerciseID),
		attribute.Int("reps", req.Reps),
	)

	if err := handler.tracker.ScheduleExercise(ctx, day, req.ExerciseID, req.Reps); err != nil {
		handler.writeError(w, err, "schedule exercise")
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterExercisesScheduled.Inc()
	}

	dayView, err := handler.tracker.DayView(day)
	if err != nil {
		handler.writeError(w, err, "schedule exercise")
		return
	}

	pkg.WriteJSON(w, dayView, http.StatusCreated)
}

func (handler *Handler) HandleToggleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.toggle-completion")
	defer span.End()

	day, ok := dayFromVars(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "error, entry index NaN", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("day", day), attribute.Int("index", index))

	res, err := handler.tracker.ToggleCompletion(ctx, day, index)
	if err != nil {
		handler.writeError(w, err, "toggle completion")
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterCompletionToggles.WithLabelValues(strconv.FormatBool(res.Completed)).Inc()
		if res.StreakAdvanced {
			handler.metrics.CounterDailyGoalsReached.Inc()
		}
	}
	handler.refreshGauges()

	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandleGetDailyGoal(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, DailyGoalResponse{Goal: handler.tracker.DailyGoal()}, http.StatusOK)
}

func (handler *Handler) HandleSetDailyGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.set-goal")
	defer span.End()

	var req DailyGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set daily goal, unmarshal json params: %s", err)
		http.Error(w, "set daily goal failed, invalid json", http.StatusBadRequest)
		return
	}

	if err := handler.tracker.SetDailyGoal(ctx, req.Goal); err != nil {
		handler.writeError(w, err, "set daily goal")
		return
	}
	handler.refreshGauges()

	pkg.WriteJSON(w, DailyGoalResponse{Goal: req.Goal}, http.StatusOK)
}

func (handler *Handler) HandleDayProgress(w http.ResponseWriter, r *http.Request) {
	day, ok := dayFromVars(w, r)
	if !ok {
		return
	}

	percentage, err := handler.tracker.ComputeDayPercentage(day)
	if err != nil {
		handler.writeError(w, err, "day progress")
		return
	}

	pkg.WriteJSON(w, DayProgressResponse{
		Day:        day,
		Percentage: percentage,
	}, http.StatusOK)
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	dayView, err := handler.tracker.DayView(handler.tracker.TodayIndex())
	if err != nil {
		handler.writeError(w, err, "today")
		return
	}
	pkg.WriteJSON(w, dayView, http.StatusOK)
}

func (handler *Handler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.tracker.Streak(), http.StatusOK)
}

func (handler *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.tracker.WeeklyRecord(), http.StatusOK)
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.tracker.Dashboard(), http.StatusOK)
}

func (handler *Handler) writeError(w http.ResponseWriter, err error, operation string) {
	switch {
	case IsValidationErr(err):
		log.Tracef("%s, invalid input: %s", operation, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", operation, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (handler *Handler) refreshGauges() {
	if handler.metrics == nil {
		return
	}
	streak := handler.tracker.Streak()
	handler.metrics.SetProgress(streak.Current, streak.Best, handler.tracker.DailyGoal())
}

func dayFromVars(w http.ResponseWriter, r *http.Request) (int, bool) {
	dayStr := mux.Vars(r)["day"]
	if dayStr == "" {
		http.Error(w, "error, day empty", http.StatusBadRequest)
		return 0, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		http.Error(w, "error, day NaN", http.StatusBadRequest)
		return 0, false
	}
	return day, true
}
