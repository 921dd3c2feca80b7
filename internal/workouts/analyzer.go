package workouts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vstrand/gymlog/internal/telemetry/tracing"
)

// ProgressPoint aggregates one workout's worth of sets for an exercise.
type ProgressPoint struct {
	WorkoutID uuid.UUID `json:"workoutId"`
	Date      time.Time `json:"date"`
	TopWeight float64   `json:"topWeight"`
	TotalReps int       `json:"totalReps"`
	// Volume is the sum of weight times reps over the workout's sets
	Volume float64 `json:"volume"`
	PR     bool    `json:"pr"`
}

type ExerciseProgress struct {
	ExerciseID   uuid.UUID       `json:"exerciseId"`
	ExerciseName string          `json:"exerciseName"`
	Points       []ProgressPoint `json:"points"`
	PRCount      int             `json:"prCount"`
}

type progressSource interface {
	ExerciseSets(ctx context.Context, exerciseID uuid.UUID) ([]HistoricalSet, error)
}

type Analyzer struct {
	repo progressSource
}

func NewAnalyzer(repo progressSource) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// Progress builds the per-workout progress series of one exercise, oldest
// workout first: top weight, total reps and volume per session, plus how
// many sessions set a personal best.
func (a *Analyzer) Progress(ctx context.Context, exerciseID uuid.UUID) (_ *ExerciseProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID.String()))

	sets, err := a.repo.ExerciseSets(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	progress := &ExerciseProgress{
		ExerciseID: exerciseID,
		Points:     make([]ProgressPoint, 0),
	}

	workout2point := make(map[uuid.UUID]int)
	for _, set := range sets {
		progress.ExerciseName = set.ExerciseName

		i, ok := workout2point[set.WorkoutID]
		if !ok {
			workout2point[set.WorkoutID] = len(progress.Points)
			progress.Points = append(progress.Points, ProgressPoint{
				WorkoutID: set.WorkoutID,
				Date:      set.Date,
			})
			i = workout2point[set.WorkoutID]
		}

		point := &progress.Points[i]
		if set.WeightKg > point.TopWeight {
			point.TopWeight = set.WeightKg
		}
		point.TotalReps += set.Reps
		point.Volume += set.WeightKg * float64(set.Reps)
		if set.PRFlag {
			point.PR = true
		}
	}

	for _, point := range progress.Points {
		if point.PR {
			progress.PRCount++
		}
	}

	span.SetAttributes(attribute.Int("points", len(progress.Points)))
	return progress, nil
}
