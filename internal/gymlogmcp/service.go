package gymlogmcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vstrand/gymlog/internal/exercises"
	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/workouts"

	"github.com/google/uuid"
)

// number of past workouts compacted into the history fed to the
// weight suggestion, same as the day plan endpoint
const planHistoryLimit = 10

// programStore provides schedule entries (for dependency injection and testing).
type programStore interface {
	DayEntries(ctx context.Context, week int, day string) ([]program.WeekEntry, error)
	Replace(ctx context.Context, entries []program.Entry) error
}

// exerciseCatalog provides the exercise catalog (for dependency injection and testing).
type exerciseCatalog interface {
	ListAll(ctx context.Context, params exercises.ListParams) ([]exercises.Exercise, error)
}

// workoutStore provides logged workout data (for dependency injection and testing).
type workoutStore interface {
	DayHistory(ctx context.Context, day string, limit int) ([]program.SessionSummary, error)
	PersonalBests(ctx context.Context, exerciseID *uuid.UUID) ([]workouts.PersonalBest, error)
}

// progressAnalyzer provides per-exercise progress series (for dependency injection and testing).
type progressAnalyzer interface {
	Progress(ctx context.Context, exerciseID uuid.UUID) (*workouts.ExerciseProgress, error)
}

// contextService provides gymlog context data (schema, program, history, progress).
// Used by Handler for testability.
type contextService interface {
	GetDBSchema(ctx context.Context) (string, error)
	GetProgramOverview() Overview
	GetDayPlan(ctx context.Context, week int, day string) (*DayPlan, error)
	GetDayHistory(ctx context.Context, day string, limit int) ([]program.SessionSummary, error)
	GetPersonalBests(ctx context.Context, exerciseID *uuid.UUID) ([]workouts.PersonalBest, error)
	GetExerciseProgress(ctx context.Context, exerciseID uuid.UUID) (*workouts.ExerciseProgress, error)
	GenerateProgram(ctx context.Context) (*GenerateResult, error)
}

// Overview describes the fixed program layout: weeks with their training
// blocks and the four training days in order.
type Overview struct {
	TotalWeeks int            `json:"totalWeeks"`
	DeloadWeek int            `json:"deloadWeek"`
	Weeks      []OverviewWeek `json:"weeks"`
	Days       []OverviewDay  `json:"days"`
}

type OverviewWeek struct {
	Week  int    `json:"week"`
	Block string `json:"block"`
}

type OverviewDay struct {
	Day     string `json:"day"`
	Display string `json:"display"`
}

// DayPlan is one planned session with suggested working weights.
type DayPlan struct {
	Week      int               `json:"week"`
	Day       string            `json:"day"`
	Display   string            `json:"display"`
	Block     string            `json:"block"`
	Exercises []PlannedExercise `json:"exercises"`
}

type PlannedExercise struct {
	ExerciseID      uuid.UUID `json:"exerciseId"`
	Exercise        string    `json:"exercise"`
	Position        int       `json:"position"`
	Sets            int       `json:"sets"`
	RepMin          int       `json:"repMin"`
	RepMax          int       `json:"repMax"`
	SuggestedWeight float64   `json:"suggestedWeightKg"`
	Cue             string    `json:"cue,omitempty"`
}

// GenerateResult reports a schedule rebuild: how many entries were written
// and which template exercises had no match in the catalog.
type GenerateResult struct {
	Entries int      `json:"entries"`
	Skipped []string `json:"skipped"`
}

// ContextService holds dependencies and implements the gymlog context business logic.
type ContextService struct {
	schema      SchemaRepo
	programRepo programStore
	catalog     exerciseCatalog
	workouts    workoutStore
	analyzer    progressAnalyzer
}

// NewContextService builds a ContextService with the given dependencies.
func NewContextService(
	schemaRepo SchemaRepo,
	programRepo programStore,
	catalog exerciseCatalog,
	workoutsRepo workoutStore,
	analyzer progressAnalyzer,
) *ContextService {
	return &ContextService{
		schema:      schemaRepo,
		programRepo: programRepo,
		catalog:     catalog,
		workouts:    workoutsRepo,
		analyzer:    analyzer,
	}
}

// GetDBSchema returns the DB schema (table names, columns, types) for gymlog
// tables: exercises, program_weeks, workouts, sets.
func (s *ContextService) GetDBSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetGymlogColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatGymlogSchema(cols), nil
}

func formatGymlogSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Gymlog DB Schema\n\nNo gymlog tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Gymlog DB Schema\n\n")
	b.WriteString("Tables: exercises, program_weeks, workouts, sets (schema: public).\n\n")

	for _, tableName := range tableOrder {
		tableCols := byTable[tableName]
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range tableCols {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// GetProgramOverview returns the fixed program layout: 12 weeks with their
// training blocks and the four training days in order.
func (s *ContextService) GetProgramOverview() Overview {
	overview := Overview{
		TotalWeeks: program.TotalWeeks,
		DeloadWeek: program.DeloadWeek,
		Weeks:      make([]OverviewWeek, 0, program.TotalWeeks),
		Days:       make([]OverviewDay, 0, len(program.Days)),
	}
	for week := 1; week <= program.TotalWeeks; week++ {
		overview.Weeks = append(overview.Weeks, OverviewWeek{
			Week:  week,
			Block: program.BlockForWeek(week),
		})
	}
	for _, day := range program.Days {
		overview.Days = append(overview.Days, OverviewDay{
			Day:     day,
			Display: program.DisplayDay(day),
		})
	}
	return overview
}

// GetDayPlan returns the planned exercises of one week and day, each with a
// suggested working weight derived from the recent history of that day.
// Expects a valid week and a canonical day label.
func (s *ContextService) GetDayPlan(ctx context.Context, week int, day string) (*DayPlan, error) {
	entries, err := s.programRepo.DayEntries(ctx, week, day)
	if err != nil {
		return nil, fmt.Errorf("get day entries: %w", err)
	}

	var history []program.SessionSummary
	if len(entries) > 0 {
		history, err = s.workouts.DayHistory(ctx, day, planHistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("get day history: %w", err)
		}
	}

	plan := &DayPlan{
		Week:      week,
		Day:       day,
		Display:   program.DisplayDay(day),
		Block:     program.BlockForWeek(week),
		Exercises: make([]PlannedExercise, 0, len(entries)),
	}
	for _, entry := range entries {
		plan.Exercises = append(plan.Exercises, PlannedExercise{
			ExerciseID: entry.ExerciseID,
			Exercise:   entry.Exercise.Name,
			Position:   entry.Position,
			Sets:       entry.Sets,
			RepMin:     entry.RepMin,
			RepMax:     entry.RepMax,
			SuggestedWeight: program.ProposeWeight(
				entry.Exercise, entry.RepMin, entry.RepMax, week, history,
			),
			Cue: entry.Exercise.Cue,
		})
	}
	return plan, nil
}

// GetDayHistory returns recent sessions of one training day, compacted to one
// entry per exercise per workout. Expects a canonical day label.
func (s *ContextService) GetDayHistory(ctx context.Context, day string, limit int) ([]program.SessionSummary, error) {
	return s.workouts.DayHistory(ctx, day, limit)
}

// GetPersonalBests returns personal bests per exercise and weight, optionally
// filtered to one exercise.
func (s *ContextService) GetPersonalBests(ctx context.Context, exerciseID *uuid.UUID) ([]workouts.PersonalBest, error) {
	return s.workouts.PersonalBests(ctx, exerciseID)
}

// GetExerciseProgress returns the per-workout progress series of one exercise.
func (s *ContextService) GetExerciseProgress(ctx context.Context, exerciseID uuid.UUID) (*workouts.ExerciseProgress, error) {
	return s.analyzer.Progress(ctx, exerciseID)
}

// GenerateProgram rebuilds the whole schedule from the exercise catalog and
// replaces the stored one.
func (s *ContextService) GenerateProgram(ctx context.Context) (*GenerateResult, error) {
	catalogExercises, err := s.catalog.ListAll(ctx, exercises.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	schedule := program.BuildSchedule(catalogExercises)
	if err := s.programRepo.Replace(ctx, schedule.Entries); err != nil {
		return nil, fmt.Errorf("replace schedule: %w", err)
	}

	return &GenerateResult{
		Entries: len(schedule.Entries),
		Skipped: schedule.Skipped,
	}, nil
}
