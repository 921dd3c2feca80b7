package gymlogmcp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/vstrand/gymlog/internal/program"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error()), nil, nil
	}
	return textResult(string(raw)), nil, nil
}

// GetScheduleTool returns the MCP tool handler for get_schema.
func (h *Handler) GetScheduleTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.GetProgramOverview())
	}
}

// GetDBSchemaTool returns the MCP tool handler for get_db_schema.
func (h *Handler) GetDBSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetDBSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// DayPlanInput is the input for get_day_plan.
type DayPlanInput struct {
	Week int    `json:"week" jsonschema:"Program week (1-12)"`
	Day  string `json:"day" jsonschema:"Training day: canonical label (e.g. Lower A) or display label (e.g. Pass 2)"`
}

// GetDayPlanTool returns the MCP tool handler for get_day_plan.
func (h *Handler) GetDayPlanTool() func(context.Context, *mcp.CallToolRequest, DayPlanInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayPlanInput) (*mcp.CallToolResult, any, error) {
		if !program.ValidWeek(in.Week) {
			return errorResult("Invalid week: use 1 to " + strconv.Itoa(program.TotalWeeks)), nil, nil
		}
		day, ok := program.CanonicalDay(in.Day)
		if !ok {
			return errorResult("Invalid day: use Upper A, Lower A, Upper B, Lower B or Pass 1 to Pass 4"), nil, nil
		}

		plan, err := h.service.GetDayPlan(ctx, in.Week, day)
		if err != nil {
			return errorResult("Error fetching day plan: " + err.Error()), nil, nil
		}
		return jsonResult(plan)
	}
}

// DayHistoryInput is the input for get_day_history.
type DayHistoryInput struct {
	Day   string `json:"day" jsonschema:"Training day: canonical label (e.g. Lower A) or display label (e.g. Pass 2)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Number of recent workouts to compact (default 10)"`
}

// GetDayHistoryTool returns the MCP tool handler for get_day_history.
func (h *Handler) GetDayHistoryTool() func(context.Context, *mcp.CallToolRequest, DayHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayHistoryInput) (*mcp.CallToolResult, any, error) {
		day, ok := program.CanonicalDay(in.Day)
		if !ok {
			return errorResult("Invalid day: use Upper A, Lower A, Upper B, Lower B or Pass 1 to Pass 4"), nil, nil
		}
		limit := in.Limit
		if limit < 1 {
			limit = planHistoryLimit
		}

		history, err := h.service.GetDayHistory(ctx, day, limit)
		if err != nil {
			return errorResult("Error fetching day history: " + err.Error()), nil, nil
		}
		return jsonResult(history)
	}
}

// PersonalBestsInput is the input for get_personal_bests.
type PersonalBestsInput struct {
	ExerciseID string `json:"exercise_id,omitempty" jsonschema:"Filter by exercise UUID"`
}

// GetPersonalBestsTool returns the MCP tool handler for get_personal_bests.
func (h *Handler) GetPersonalBestsTool() func(context.Context, *mcp.CallToolRequest, PersonalBestsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PersonalBestsInput) (*mcp.CallToolResult, any, error) {
		var exerciseID *uuid.UUID
		if in.ExerciseID != "" {
			id, err := uuid.Parse(in.ExerciseID)
			if err != nil {
				return errorResult("Invalid exercise_id: use the exercise UUID"), nil, nil
			}
			exerciseID = &id
		}

		bests, err := h.service.GetPersonalBests(ctx, exerciseID)
		if err != nil {
			return errorResult("Error fetching personal bests: " + err.Error()), nil, nil
		}
		return jsonResult(bests)
	}
}

// ExerciseProgressInput is the input for get_exercise_progress.
type ExerciseProgressInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise UUID"`
}

// GetExerciseProgressTool returns the MCP tool handler for get_exercise_progress.
func (h *Handler) GetExerciseProgressTool() func(context.Context, *mcp.CallToolRequest, ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
		exerciseID, err := uuid.Parse(in.ExerciseID)
		if err != nil {
			return errorResult("Invalid exercise_id: use the exercise UUID"), nil, nil
		}

		progress, err := h.service.GetExerciseProgress(ctx, exerciseID)
		if err != nil {
			return errorResult("Error fetching exercise progress: " + err.Error()), nil, nil
		}
		return jsonResult(progress)
	}
}

// GenerateProgramTool returns the MCP tool handler for generate_program.
func (h *Handler) GenerateProgramTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		result, err := h.service.GenerateProgram(ctx)
		if err != nil {
			return errorResult("Error generating program: " + err.Error()), nil, nil
		}
		return jsonResult(result)
	}
}
