package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/telemetry/tracing"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type ListParams struct {
	// canonical day label, empty for all days
	Day  string
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// bestKey identifies a personal best: reps are compared at the exact same
// weight, and the weight read back from the db is the same float that was
// stored.
type bestKey struct {
	exerciseID uuid.UUID
	weightKg   float64
}

// SaveSession stores a full training session in one transaction: the workout
// header, then every set, PR-flagged against the personal bests as they were
// before this session. Either all of it becomes visible or none of it.
func (r *Repo) SaveSession(ctx context.Context, session Session) (_ *SavedSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.saveSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("day", session.DayLabel))
	span.SetAttributes(attribute.Int("exercises", len(session.Entries)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
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

	workout := Workout{
		Date:     session.Date,
		DayLabel: session.DayLabel,
	}
	if err = tx.QueryRow(
		ctx,
		`INSERT INTO workouts (date, day_label) VALUES ($1, $2) RETURNING id, created_at;`,
		session.Date, session.DayLabel,
	).Scan(&workout.ID, &workout.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}
	span.SetAttributes(attribute.String("workout.id", workout.ID.String()))

	bests, err := personalBestsMap(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("personal bests: %w", err)
	}
	names, err := exerciseNames(ctx, tx, session.Entries)
	if err != nil {
		return nil, fmt.Errorf("exercise names: %w", err)
	}

	prExercises := make([]string, 0)
	batch := &pgx.Batch{}
	for _, entry := range session.Entries {
		prevBest := bests[bestKey{entry.ExerciseID, entry.WeightKg}]
		pr := false
		for _, reps := range entry.Reps {
			if reps > prevBest {
				pr = true
				break
			}
		}
		for i, reps := range entry.Reps {
			batch.Queue(
				`INSERT INTO sets (workout_id, exercise_id, set_no, reps, weight_kg, pr_flag)
					VALUES ($1, $2, $3, $4, $5, $6);`,
				workout.ID, entry.ExerciseID, i+1, reps, entry.WeightKg, pr,
			)
		}
		if pr {
			prExercises = append(prExercises, names[entry.ExerciseID])
		}
	}
	if batch.Len() > 0 {
		if err = tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("insert sets: %w", err)
		}
	}

	return &SavedSession{
		Workout:     workout,
		PRExercises: prExercises,
	}, nil
}

// personalBestsMap reads max reps per (exercise, weight) over every set ever
// stored.
func personalBestsMap(ctx context.Context, tx pgx.Tx) (map[bestKey]int, error) {
	rows, err := tx.Query(
		ctx,
		`SELECT exercise_id, weight_kg, MAX(reps) FROM sets GROUP BY exercise_id, weight_kg;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	bests := make(map[bestKey]int)
	for rows.Next() {
		var key bestKey
		var reps int
		if err := rows.Scan(&key.exerciseID, &key.weightKg, &reps); err != nil {
			return nil, err
		}
		bests[key] = reps
	}
	return bests, rows.Err()
}

func exerciseNames(ctx context.Context, tx pgx.Tx, entries []SessionEntry) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ExerciseID)
	}

	rows, err := tx.Query(ctx, `SELECT id, name FROM exercises WHERE id = ANY($1);`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// DayHistory returns the compacted recent history of a canonical day, newest
// workout first: per workout per exercise one summary with the weight of its
// first set and the reps of every set. This is what the weight suggestions
// are computed from.
func (r *Repo) DayHistory(ctx context.Context, day string, limit int) (_ []program.SessionSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.dayHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("day", day))
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`SELECT id FROM workouts
			WHERE day_label = $1
			ORDER BY date DESC, created_at DESC
			LIMIT $2;`,
		day, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var workoutIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		workoutIDs = append(workoutIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summaries := make([]program.SessionSummary, 0)
	if len(workoutIDs) == 0 {
		return summaries, nil
	}

	setRows, err := r.db.Query(
		ctx,
		`SELECT s.workout_id, s.exercise_id, e.name, s.weight_kg, s.reps
			FROM sets s
			JOIN exercises e ON s.exercise_id = e.id
			WHERE s.workout_id = ANY($1)
			ORDER BY s.exercise_id, s.set_no;`,
		workoutIDs,
	)
	if err != nil {
		return nil, err
	}
	defer setRows.Close()

	if err := setRows.Err(); err != nil {
		return nil, err
	}

	perWorkout := make(map[uuid.UUID][]program.SessionSummary)
	index := make(map[uuid.UUID]map[uuid.UUID]int)
	for setRows.Next() {
		var workoutID, exerciseID uuid.UUID
		var name string
		var weight float64
		var reps int
		if err := setRows.Scan(&workoutID, &exerciseID, &name, &weight, &reps); err != nil {
			return nil, err
		}

		if index[workoutID] == nil {
			index[workoutID] = make(map[uuid.UUID]int)
		}
		i, ok := index[workoutID][exerciseID]
		if !ok {
			// first set of this exercise in this workout, its weight counts
			index[workoutID][exerciseID] = len(perWorkout[workoutID])
			perWorkout[workoutID] = append(perWorkout[workoutID], program.SessionSummary{
				ExerciseID:   exerciseID,
				ExerciseName: name,
				Weight:       weight,
			})
			i = index[workoutID][exerciseID]
		}
		perWorkout[workoutID][i].Reps = append(perWorkout[workoutID][i].Reps, reps)
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	for _, workoutID := range workoutIDs {
		summaries = append(summaries, perWorkout[workoutID]...)
	}
	return summaries, nil
}

// List returns one page of workouts with their sets, newest first, optionally
// filtered by canonical day.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []WorkoutWithSets, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("day", params.Day))
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.workoutsCount(ctx, params.Day)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}

	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, date, day_label, created_at
			FROM workouts
			WHERE ($1::text = '' OR day_label = $1)
			ORDER BY date DESC, created_at DESC
			LIMIT $2
			OFFSET $3;`,
		params.Day, limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, -1, err
	}

	withSets, err := r.attachSets(ctx, workouts)
	if err != nil {
		return nil, -1, err
	}
	return withSets, countAll, nil
}

func (r *Repo) workoutsCount(ctx context.Context, day string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT COUNT(*) FROM workouts WHERE ($1::text = '' OR day_label = $1);`,
		day,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get workouts count")
}

// Get returns one workout with its sets.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *WorkoutWithSets, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, date, day_label, created_at FROM workouts WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	withSets, err := r.attachSets(ctx, workouts)
	if err != nil {
		return nil, err
	}
	return &withSets[0], nil
}

// Delete removes a workout header, the sets go with it through the FK
// cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	tag, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// PersonalBests lists max reps per (exercise, weight), heaviest first,
// optionally for a single exercise.
func (r *Repo) PersonalBests(ctx context.Context, exerciseID *uuid.UUID) (_ []PersonalBest, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.personalBests")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if exerciseID != nil {
		span.SetAttributes(attribute.String("exercise.id", exerciseID.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT s.exercise_id, e.name, s.weight_kg, MAX(s.reps)
			FROM sets s
			JOIN exercises e ON s.exercise_id = e.id
			WHERE ($1::uuid IS NULL OR s.exercise_id = $1)
			GROUP BY s.exercise_id, e.name, s.weight_kg
			ORDER BY s.weight_kg DESC, MAX(s.reps) DESC;`,
		exerciseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	bests := make([]PersonalBest, 0)
	for rows.Next() {
		var best PersonalBest
		if err := rows.Scan(&best.ExerciseID, &best.ExerciseName, &best.WeightKg, &best.Reps); err != nil {
			return nil, err
		}
		bests = append(bests, best)
	}
	return bests, rows.Err()
}

// ExerciseSets returns every set of one exercise joined with its workout,
// oldest workout first.
func (r *Repo) ExerciseSets(ctx context.Context, exerciseID uuid.UUID) (_ []HistoricalSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exerciseSets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT s.workout_id, w.date, e.name, s.set_no, s.reps, s.weight_kg, s.pr_flag
			FROM sets s
			JOIN workouts w ON s.workout_id = w.id
			JOIN exercises e ON s.exercise_id = e.id
			WHERE s.exercise_id = $1
			ORDER BY w.date, s.workout_id, s.set_no;`,
		exerciseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sets := make([]HistoricalSet, 0)
	for rows.Next() {
		var set HistoricalSet
		if err := rows.Scan(
			&set.WorkoutID, &set.Date, &set.ExerciseName,
			&set.SetNo, &set.Reps, &set.WeightKg, &set.PRFlag,
		); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// ExportRows returns every stored set joined with its workout and exercise,
// in stable export order.
func (r *Repo) ExportRows(ctx context.Context) (_ []ExportRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exportRows")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT w.date, w.day_label, e.name, s.set_no, s.weight_kg, s.reps, s.pr_flag
			FROM sets s
			JOIN workouts w ON s.workout_id = w.id
			JOIN exercises e ON s.exercise_id = e.id
			ORDER BY w.date, s.workout_id, s.exercise_id, s.set_no;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	exportRows := make([]ExportRow, 0)
	for rows.Next() {
		var row ExportRow
		if err := rows.Scan(
			&row.Date, &row.DayLabel, &row.ExerciseName,
			&row.SetNo, &row.WeightKg, &row.Reps, &row.PRFlag,
		); err != nil {
			return nil, err
		}
		exportRows = append(exportRows, row)
	}
	return exportRows, rows.Err()
}

// AllSessions returns every stored workout with its sets, oldest first.
// With createdAfter set, only workouts logged after that point are returned,
// which is what the incremental backup runs on.
func (r *Repo) AllSessions(ctx context.Context, createdAfter *time.Time) (_ []WorkoutWithSets, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.allSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, date, day_label, created_at
			FROM workouts
			WHERE ($1::timestamptz IS NULL OR created_at > $1)
			ORDER BY created_at;`,
		createdAfter,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	return r.attachSets(ctx, workouts)
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	workouts := make([]Workout, 0)
	for rows.Next() {
		var workout Workout
		if err := rows.Scan(&workout.ID, &workout.Date, &workout.DayLabel, &workout.CreatedAt); err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	return workouts, rows.Err()
}

// attachSets loads the sets of the given workouts in one query and groups
// them per workout.
func (r *Repo) attachSets(ctx context.Context, workouts []Workout) ([]WorkoutWithSets, error) {
	withSets := make([]WorkoutWithSets, 0, len(workouts))
	if len(workouts) == 0 {
		return withSets, nil
	}

	workoutIDs := make([]uuid.UUID, 0, len(workouts))
	for _, workout := range workouts {
		workoutIDs = append(workoutIDs, workout.ID)
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT s.id, s.workout_id, s.exercise_id, e.name, s.set_no, s.reps, s.weight_kg, s.pr_flag
			FROM sets s
			JOIN exercises e ON s.exercise_id = e.id
			WHERE s.workout_id = ANY($1)
			ORDER BY s.exercise_id, s.set_no;`,
		workoutIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	setsPerWorkout := make(map[uuid.UUID][]Set)
	for rows.Next() {
		var set Set
		if err := rows.Scan(
			&set.ID, &set.WorkoutID, &set.ExerciseID, &set.ExerciseName,
			&set.SetNo, &set.Reps, &set.WeightKg, &set.PRFlag,
		); err != nil {
			return nil, err
		}
		setsPerWorkout[set.WorkoutID] = append(setsPerWorkout[set.WorkoutID], set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, workout := range workouts {
		sets := setsPerWorkout[workout.ID]
		if sets == nil {
			sets = make([]Set, 0)
		}
		withSets = append(withSets, WorkoutWithSets{
			Workout: workout,
			Sets:    sets,
		})
	}
	return withSets, nil
}
