package gymlogmcp

import (
	"github.com/vstrand/gymlog/internal/exercises"
	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/workouts"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with gymlog tools: program schema, DB schema,
// day plan with suggested weights, day history, personal bests, exercise
// progress, program generation.
func NewServer(
	pool *pgxpool.Pool,
	catalog *exercises.CachedRepo,
	programRepo *program.Repo,
	workoutsRepo *workouts.Repo,
) *mcp.Server {
	analyzer := workouts.NewAnalyzer(workoutsRepo)
	svc := NewContextService(NewPoolSchemaRepo(pool), programRepo, catalog, workoutsRepo, analyzer)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymlog-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_schema",
		Description: "Describes the fixed 12 week program layout: every week with its training block (Hypertrofi, Styrka, Deload) and the four training days (Upper A, Lower A, Upper B, Lower B) with their Pass 1-4 display labels. Use when you need the program structure before talking about weeks or days.",
	}, h.GetScheduleTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_db_schema",
		Description: "Returns the DB schema for gymlog tables (exercises, program_weeks, workouts, sets): table names, columns, types, nullable, default. Use when developing the gymlog backend and you need the actual table layout.",
	}, h.GetDBSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_day_plan",
		Description: "Returns the planned exercises of one week and day, each with sets, rep range and a suggested working weight derived from recent history. Args: week (1-12), day (e.g. Lower A or Pass 2). Use when preparing or coaching a session.",
	}, h.GetDayPlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_day_history",
		Description: "Returns recent sessions of one training day, compacted to one entry per exercise (working weight and reps per set), most recent first. Args: day; optional: limit (default 10). Use when you need to see what was lifted lately.",
	}, h.GetDayHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_personal_bests",
		Description: "Returns personal bests: the most reps ever logged per exercise and weight, heaviest first. Optional: exercise_id (UUID) to filter to one exercise. Use when checking records or whether a planned set would be a PR.",
	}, h.GetPersonalBestsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_progress",
		Description: "Returns the per-workout progress series of one exercise: date, top weight, total reps, volume and PR flag per workout. Arg: exercise_id (UUID). Use when you need progression over time (e.g. how has the squat developed).",
	}, h.GetExerciseProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "generate_program",
		Description: "Rebuilds the whole 12 week schedule from the exercise catalog and replaces the stored one. Returns the number of entries written and any template exercises missing from the catalog. Use only when asked to regenerate the program.",
	}, h.GenerateProgramTool())

	return s
}
