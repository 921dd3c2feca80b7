package program

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vstrand/gymlog/internal/exercises"
	"github.com/vstrand/gymlog/internal/telemetry/tracing"
)

var ErrEntryNotFound = errors.New("program entry not found")

// insert batch size for schedule replacement, keeps single round trips small
const insertBatchSize = 200

// Entry is one row of the stored 12 week schedule, unique per
// (week, day, exercise).
type Entry struct {
	Week       int       `json:"week"`
	Day        string    `json:"day"`
	ExerciseID uuid.UUID `json:"exerciseId"`
	Position   int       `json:"position"`
	Sets       int       `json:"sets"`
	RepMin     int       `json:"repMin"`
	RepMax     int       `json:"repMax"`
}

// WeekEntry is an Entry joined with its exercise, for program and plan views.
type WeekEntry struct {
	Entry
	Exercise exercises.Exercise `json:"exercise"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Replace swaps the whole stored schedule for the given entries in one
// transaction: delete everything, insert the new rows in batches.
func (r *Repo) Replace(ctx context.Context, entries []Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.program.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("entries", len(entries)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM program_weeks`); err != nil {
		return fmt.Errorf("delete previous schedule: %w", err)
	}

	for start := 0; start < len(entries); start += insertBatchSize {
		end := min(start+insertBatchSize, len(entries))
		batch := &pgx.Batch{}
		for _, e := range entries[start:end] {
			batch.Queue(`
				INSERT INTO program_weeks (week, day, exercise_id, position, sets, rep_min, rep_max)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`,
				e.Week, e.Day, e.ExerciseID, e.Position, e.Sets, e.RepMin, e.RepMax,
			)
		}
		if err = tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert schedule batch: %w", err)
		}
	}

	return nil
}

// WeekEntries returns all schedule rows of one week with their exercises,
// ordered by training day and position within the day.
func (r *Repo) WeekEntries(ctx context.Context, week int) (_ []WeekEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.program.weekEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))

	rows, err := r.db.Query(ctx, `
		SELECT
			pw.week, pw.day, pw.exercise_id, pw.position, pw.sets, pw.rep_min, pw.rep_max,
			e.id, e.name, e.cue, e.icon_path, e.category, e.created_at
		FROM program_weeks pw
			JOIN exercises e ON e.id = pw.exercise_id
		WHERE pw.week = $1
		ORDER BY pw.day, pw.position
	`, week)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := rows2weekEntries(rows)
	if err != nil {
		return nil, err
	}

	// the db sorts days alphabetically, put them back in training order
	sort.SliceStable(entries, func(i, j int) bool {
		return dayRank(entries[i].Day) < dayRank(entries[j].Day)
	})

	return entries, nil
}

// DayEntries returns the schedule rows of one (week, day) with their
// exercises, in position order.
func (r *Repo) DayEntries(ctx context.Context, week int, day string) (_ []WeekEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.program.dayEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week), attribute.String("day", day))

	rows, err := r.db.Query(ctx, `
		SELECT
			pw.week, pw.day, pw.exercise_id, pw.position, pw.sets, pw.rep_min, pw.rep_max,
			e.id, e.name, e.cue, e.icon_path, e.category, e.created_at
		FROM program_weeks pw
			JOIN exercises e ON e.id = pw.exercise_id
		WHERE pw.week = $1 AND pw.day = $2
		ORDER BY pw.position
	`, week, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2weekEntries(rows)
}

// UpdateEntry edits the sets and rep range of one existing schedule row,
// identified by (week, day, exercise).
func (r *Repo) UpdateEntry(ctx context.Context, entry Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.program.updateEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `
		UPDATE program_weeks
		SET sets = $4, rep_min = $5, rep_max = $6
		WHERE week = $1 AND day = $2 AND exercise_id = $3
	`,
		entry.Week, entry.Day, entry.ExerciseID,
		entry.Sets, entry.RepMin, entry.RepMax,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func rows2weekEntries(rows pgx.Rows) ([]WeekEntry, error) {
	entries := make([]WeekEntry, 0)
	for rows.Next() {
		var we WeekEntry
		if err := rows.Scan(
			&we.Week, &we.Day, &we.ExerciseID, &we.Position, &we.Sets, &we.RepMin, &we.RepMax,
			&we.Exercise.ID, &we.Exercise.Name, &we.Exercise.Cue, &we.Exercise.IconPath,
			&we.Exercise.Category, &we.Exercise.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan program row: %w", err)
		}
		entries = append(entries, we)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
