//go:build integration_test || all_tests

package integration_testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitperso/internal/workout"
)

func (s *IntegrationTestSuite) do(method, path string, body any, dest any) int {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if dest != nil && resp.StatusCode < 300 {
		require.NoError(t, json.Unmarshal(respBytes, dest), string(respBytes))
	}
	return resp.StatusCode
}

func (s *IntegrationTestSuite) TestWorkoutStatePersistsAcrossRestarts() {
	t := s.T()

	var today workout.DayView
	require.Equal(t, http.StatusOK, s.do("GET", "/today", nil, &today))

	var added workout.AddExerciseResponse
	require.Equal(t, http.StatusCreated, s.do("POST", "/exercises", workout.AddExerciseRequest{
		Name:        "Corde à sauter",
		Icon:        "🪢",
		Coefficient: 0.25,
	}, &added))

	require.Equal(t, http.StatusCreated, s.do("POST", "/schedule/"+itoa(today.Day), workout.ScheduleExerciseRequest{
		ExerciseID: added.ID,
		Reps:       400,
	}, nil))

	var toggle workout.ToggleResult
	require.Equal(t, http.StatusOK, s.do("POST", "/schedule/"+itoa(today.Day)+"/entry/0/toggle", nil, &toggle))
	assert.True(t, toggle.IsToday)
	assert.Equal(t, 100.0, toggle.Percentage)
	assert.True(t, toggle.StreakAdvanced)

	var row string
	require.NoError(t, s.DB.QueryRow(`SELECT value FROM fitperso_state WHERE key = 'fitperso-streak'`).Scan(&row))
	assert.Equal(t, "1", row)

	s.restartServer()

	var dashboard workout.Dashboard
	require.Equal(t, http.StatusOK, s.do("GET", "/dashboard", nil, &dashboard))
	assert.Equal(t, 1, dashboard.Streak.Current)
	assert.Equal(t, 100.0, dashboard.TodayPercentage)
	assert.Equal(t, 100.0, dashboard.WeeklyRecord[today.Day].Percentage)

	var exercises workout.ListExercisesResponse
	require.Equal(t, http.StatusOK, s.do("GET", "/exercises", nil, &exercises))
	assert.Equal(t, 5, exercises.Total)
}

func (s *IntegrationTestSuite) TestValidationAndRange() {
	t := s.T()

	assert.Equal(t, http.StatusBadRequest, s.do("PUT", "/goal", workout.DailyGoalRequest{Goal: 0}, nil))
	assert.Equal(t, http.StatusBadRequest, s.do("POST", "/exercises", workout.AddExerciseRequest{Name: " "}, nil))
	assert.Equal(t, http.StatusNotFound, s.do("POST", "/schedule/3/entry/99/toggle", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/progress/7", nil, nil))
}

func (s *IntegrationTestSuite) TestMetricsEndpoint() {
	t := s.T()

	resp, err := s.httpClient.Get(metricsEndpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "fitperso_main_life_signal 1")
	// postgres engine registers the pool collector
	assert.Contains(t, string(body), "pgxpool_")
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
