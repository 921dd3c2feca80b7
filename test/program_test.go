package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/workouts"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) generateProgramRequest(ctx context.Context, token string) program.GenerateResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/program/generate", serverEndpoint),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-GYMLOG-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var generateResp program.GenerateResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &generateResp))

	return generateResp
}

func (s *IntegrationTestSuite) programWeekRequest(ctx context.Context, token string, week int) program.WeekResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/program/week/%d", serverEndpoint, week),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-GYMLOG-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var weekResp program.WeekResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &weekResp))

	return weekResp
}

func (s *IntegrationTestSuite) dayPlanRequest(ctx context.Context, token string, week int, day string) program.PlanResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf(
			"%s/program/plan/week/%d/day/%s",
			serverEndpoint, week, url.PathEscape(day),
		),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-GYMLOG-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var planResp program.PlanResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &planResp))

	return planResp
}

func findPlanEntry(t *testing.T, plan program.PlanResponse, exerciseName string) program.PlanEntry {
	for _, entry := range plan.Entries {
		if entry.Exercise.Name == exerciseName {
			return entry
		}
	}
	t.Fatalf("plan entry for [%s] not found", exerciseName)
	return program.PlanEntry{}
}

func findWeekEntry(t *testing.T, weekResp program.WeekResponse, day, exerciseName string) program.WeekEntry {
	for _, entry := range weekResp.Entries {
		if entry.Day == day && entry.Exercise.Name == exerciseName {
			return entry
		}
	}
	t.Fatalf("week entry for [%s / %s] not found", day, exerciseName)
	return program.WeekEntry{}
}

func (s *IntegrationTestSuite) TestProgramFlow() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, s.T())
	require.NotEmpty(s.T(), token)

	s.deleteAllWorkouts(ctx)

	s.T().Run("generate from the seeded catalog", func(t *testing.T) {
		generateResp := s.generateProgramRequest(ctx, token)
		// 12 weeks x 25 slots, the seeded catalog covers every template slot
		assert.Equal(t, 300, generateResp.Entries)
		assert.Empty(t, generateResp.Skipped)
	})

	s.T().Run("week schedule", func(t *testing.T) {
		week1 := s.programWeekRequest(ctx, token, 1)
		assert.Equal(t, 1, week1.Week)
		assert.Equal(t, "Hypertrofi", week1.Block)
		assert.Equal(t, 25, week1.Total)
		require.Len(t, week1.Entries, 25)

		// rows come out ordered by day, alphabetically, so Lower A leads
		first := week1.Entries[0]
		assert.Equal(t, "Lower A", first.Day)
		assert.Equal(t, 0, first.Position)
		assert.Equal(t, "Knäböj", first.Exercise.Name)
		assert.Equal(t, 4, first.Sets)
		assert.Equal(t, 6, first.RepMin)
		assert.Equal(t, 10, first.RepMax)

		week9 := s.programWeekRequest(ctx, token, 9)
		assert.Equal(t, "Styrka", week9.Block)
		squatW9 := findWeekEntry(t, week9, "Lower A", "Knäböj")
		assert.Equal(t, 4, squatW9.Sets)
		assert.Equal(t, 3, squatW9.RepMin)
		assert.Equal(t, 5, squatW9.RepMax)

		week12 := s.programWeekRequest(ctx, token, 12)
		assert.Equal(t, "Deload", week12.Block)
		squatW12 := findWeekEntry(t, week12, "Lower A", "Knäböj")
		assert.Equal(t, 2, squatW12.Sets)
		assert.Equal(t, 6, squatW12.RepMin)
		assert.Equal(t, 10, squatW12.RepMax)
	})

	s.T().Run("invalid week", func(t *testing.T) {
		for _, week := range []int{0, 13} {
			req, err := http.NewRequestWithContext(
				ctx,
				"GET", fmt.Sprintf("%s/program/week/%d", serverEndpoint, week),
				nil,
			)
			require.NoError(t, err)
			req.Header.Set("User-Agent", "test-agent")
			req.Header.Set("X-GYMLOG-TOKEN", token)

			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "week: %d", week)
			resp.Body.Close()
		}
	})

	s.T().Run("day plan without history falls back to cue start weights", func(t *testing.T) {
		plan := s.dayPlanRequest(ctx, token, 1, "Lower A")
		assert.Equal(t, 1, plan.Week)
		assert.Equal(t, "Lower A", plan.Day)
		assert.Equal(t, "Pass 2", plan.DayDisplay)
		assert.Equal(t, "Hypertrofi", plan.Block)
		require.Len(t, plan.Entries, 6)

		// the squat cue names a 60 kg start weight
		squat := findPlanEntry(t, plan, "Knäböj")
		assert.Equal(t, 60.0, squat.SuggestedWeight)

		// no number in the cue, nothing logged, so no suggestion
		bulgarian := findPlanEntry(t, plan, "Bulgarian split squat")
		assert.Equal(t, 0.0, bulgarian.SuggestedWeight)
	})

	s.T().Run("day plan follows the logged weights", func(t *testing.T) {
		exercisesByName := map[string]uuid.UUID{}
		listResp := s.listExercisesRequest(ctx, token, "")
		for _, e := range listResp.Exercises {
			exercisesByName[e.Name] = e.ID
		}

		saved := s.saveWorkoutRequest(ctx, token, workouts.SaveSessionRequest{
			Date: "2026-02-16",
			Day:  "Pass 2",
			Entries: []workouts.SessionEntry{
				{ExerciseID: exercisesByName["Knäböj"], WeightKg: 80, Reps: []int{10, 10, 10, 10}},
				{ExerciseID: exercisesByName["Raka marklyft (RDL)"], WeightKg: 70, Reps: []int{8, 8, 6, 6}},
			},
		})
		assert.Equal(t, "Lower A", saved.Workout.DayLabel)

		plan := s.dayPlanRequest(ctx, token, 2, "Lower A")
		// every squat set hit the rep ceiling, so the weight goes up 5 kg
		squat := findPlanEntry(t, plan, "Knäböj")
		assert.Equal(t, 85.0, squat.SuggestedWeight)
		// rep ceiling not reached, the weight stays
		rdl := findPlanEntry(t, plan, "Raka marklyft (RDL)")
		assert.Equal(t, 70.0, rdl.SuggestedWeight)

		// week 12 proposes 60% of the progressed weight
		deloadPlan := s.dayPlanRequest(ctx, token, 12, "Pass 2")
		squatDeload := findPlanEntry(t, deloadPlan, "Knäböj")
		assert.Equal(t, 51.0, squatDeload.SuggestedWeight)
	})

	s.T().Run("edit a schedule row", func(t *testing.T) {
		week1 := s.programWeekRequest(ctx, token, 1)
		require.NotEmpty(t, week1.Entries)
		squat := findWeekEntry(t, week1, "Lower A", "Knäböj")

		entryJson, err := json.Marshal(program.Entry{
			Week:       1,
			Day:        "Lower A",
			ExerciseID: squat.Exercise.ID,
			Sets:       5,
			RepMin:     5,
			RepMax:     8,
		})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(
			ctx,
			"PUT", fmt.Sprintf("%s/program/entry", serverEndpoint),
			bytes.NewReader(entryJson),
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-GYMLOG-TOKEN", token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		edited := s.programWeekRequest(ctx, token, 1)
		editedSquat := findWeekEntry(t, edited, "Lower A", "Knäböj")
		assert.Equal(t, 5, editedSquat.Sets)
		assert.Equal(t, 5, editedSquat.RepMin)
		assert.Equal(t, 8, editedSquat.RepMax)

		// a regenerate is a full replace and drops the edit
		generateResp := s.generateProgramRequest(ctx, token)
		assert.Equal(t, 300, generateResp.Entries)

		regenerated := s.programWeekRequest(ctx, token, 1)
		regeneratedSquat := findWeekEntry(t, regenerated, "Lower A", "Knäböj")
		assert.Equal(t, 4, regeneratedSquat.Sets)
		assert.Equal(t, 6, regeneratedSquat.RepMin)
		assert.Equal(t, 10, regeneratedSquat.RepMax)
	})
}
