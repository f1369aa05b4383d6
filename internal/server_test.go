package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/fitperso/internal/config"
	"github.com/2beens/fitperso/internal/stopwatch"
	"github.com/2beens/fitperso/internal/storage"
	"github.com/2beens/fitperso/internal/telemetry/metrics"
	"github.com/2beens/fitperso/internal/workout"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

// countingLimiter allows the first `allowed` requests, then refuses all.
type countingLimiter struct {
	mu      sync.Mutex
	allowed int
	calls   int
}

func (l *countingLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls > l.allowed {
		return &redis_rate.Result{Allowed: 0, RetryAfter: time.Second}, nil
	}
	return &redis_rate.Result{Allowed: 1}, nil
}

func newTestServer(t *testing.T, limiter *countingLimiter) (*Server, *storage.TestKV) {
	t.Helper()

	kv := storage.NewTestKV()
	monday := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	metricsManager, promRegistry := metrics.NewTestManagerAndRegistry()

	s := &Server{
		config: &config.Config{
			AllowedOrigins:     []string{"http://localhost:3000"},
			MutationsPerMinute: 10,
		},
		kv:          kv,
		rateLimiter: limiter,
		tracker: workout.NewTracker(workout.NewTrackerParams{
			Saver: storage.NewStateRepo(kv),
			Now:   func() time.Time { return monday },
		}),
		stopwatch:      stopwatch.New(time.Hour),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}
	t.Cleanup(s.stopwatch.Close)

	return s, kv
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestServer_WorkoutFlow(t *testing.T) {
	s, kv := newTestServer(t, &countingLimiter{allowed: 100})
	router := s.routerSetup()

	rr := doRequest(t, router, "POST", "/exercises", `{"name":"Gainage","icon":"🧱","coefficient":0.5}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var added workout.AddExerciseResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))

	rr = doRequest(t, router, "POST", "/schedule/0", `{"exerciseId":"`+added.ID+`","reps":200}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	rr = doRequest(t, router, "POST", "/schedule/0/entry/0/toggle", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "GET", "/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var dashboard workout.Dashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.Equal(t, 100.0, dashboard.TodayPercentage)
	assert.Equal(t, workout.StreakState{Current: 1, Best: 1}, dashboard.Streak)

	// every mutation reached the store
	ctx := context.Background()
	for _, key := range []string{
		storage.KeyExercises,
		storage.KeySchedule,
		storage.KeyWeeklyRecord,
		storage.KeyStreak,
		storage.KeyBestStreak,
	} {
		_, found, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, key)
	}
	streak, _, _ := kv.Get(ctx, storage.KeyStreak)
	assert.Equal(t, "1", streak)
}

func TestServer_RateLimitOnlyOnMutations(t *testing.T) {
	limiter := &countingLimiter{allowed: 1}
	s, _ := newTestServer(t, limiter)
	router := s.routerSetup()

	rr := doRequest(t, router, "PUT", "/goal", `{"goal":80}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "PUT", "/goal", `{"goal":90}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 80, s.tracker.DailyGoal())
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metricsManager.CounterRateLimitedRequests))

	// reads and preflights are not limited
	for i := 0; i < 5; i++ {
		rr = doRequest(t, router, "GET", "/goal", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		rr = doRequest(t, router, "OPTIONS", "/goal", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, 2, limiter.calls)
}

func TestServer_CorsAndUnknownRoutes(t *testing.T) {
	s, _ := newTestServer(t, &countingLimiter{allowed: 100})
	router := s.routerSetup()

	req := httptest.NewRequest("GET", "/streak", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, router, "GET", "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, router, "POST", "/timer/start", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"running":true`)
}

func TestServer_MetricsRouter(t *testing.T) {
	s, _ := newTestServer(t, &countingLimiter{allowed: 100})

	s.metricsManager.GaugeLifeSignal.Set(1)
	rr := httptest.NewRecorder()
	s.metricsRouterSetup().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "fitperso_test_server_life_signal 1")
}

func TestServer_GracefulShutdownWithoutServing(t *testing.T) {
	s, _ := newTestServer(t, &countingLimiter{})
	s.stopwatch.Start()

	s.GracefulShutdown()
	assert.False(t, s.stopwatch.State().Running)
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metricsManager.GaugeLifeSignal))
}

func TestNewServer_SqliteWithoutRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := &config.Config{
		Environment:   "development",
		Port:          9000,
		StorageEngine: storage.EngineSqlite,
		SqlitePath:    filepath.Join(t.TempDir(), "fitperso.db"),
		// nothing listens there
		RedisHost:          "127.0.0.1",
		RedisPort:          "1",
		AllowedOrigins:     []string{"http://localhost:3000"},
		MutationsPerMinute: 1,
	}

	s, err := NewServer(ctx, NewServerParams{Config: cfg})
	require.NoError(t, err)
	defer s.GracefulShutdown()
	assert.Nil(t, s.rateLimiter)

	router := s.routerSetup()

	rr := doRequest(t, router, "PUT", "/goal", `{"goal":80}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 80, s.tracker.DailyGoal())

	// above the per minute allowance, nothing limits without redis
	rr = doRequest(t, router, "POST", "/exercises", `{"name":"Gainage"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	goal, found, err := s.kv.Get(ctx, storage.KeyDailyGoal)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "80", goal)
}
