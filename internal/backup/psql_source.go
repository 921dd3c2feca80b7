package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/vstrand/gymlog/internal/exercises"
	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/telemetry/tracing"
	"github.com/vstrand/gymlog/internal/workouts"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// PsqlSource reads the backup payload straight from postgres through the
// regular repos.
type PsqlSource struct {
	exercises *exercises.Repo
	program   *program.Repo
	workouts  *workouts.Repo
}

func NewPsqlSource(dbPool *pgxpool.Pool) *PsqlSource {
	return &PsqlSource{
		exercises: exercises.NewRepo(dbPool),
		program:   program.NewRepo(dbPool),
		workouts:  workouts.NewRepo(dbPool),
	}
}

func (s *PsqlSource) Catalog(ctx context.Context) (_ []exercises.Exercise, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.source.catalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.exercises.ListAll(ctx, exercises.ListParams{})
}

func (s *PsqlSource) ProgramEntries(ctx context.Context) (_ []program.WeekEntry, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.source.program")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries := make([]program.WeekEntry, 0)
	for week := 1; week <= program.TotalWeeks; week++ {
		weekEntries, err := s.program.WeekEntries(ctx, week)
		if err != nil {
			return nil, fmt.Errorf("get week %d entries: %w", week, err)
		}
		entries = append(entries, weekEntries...)
	}
	return entries, nil
}

func (s *PsqlSource) Sessions(ctx context.Context, createdAfter *time.Time) (_ []workouts.WorkoutWithSets, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.source.sessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("incremental", createdAfter != nil))

	return s.workouts.AllSessions(ctx, createdAfter)
}
