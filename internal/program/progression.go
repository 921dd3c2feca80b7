package program

import (
	"math"

	"github.com/google/uuid"

	"github.com/vstrand/gymlog/internal/exercises"
)

// Double progression increments, plate sized. Lower body lifts move in
// bigger jumps.
const (
	bumpLower = 5.0
	bumpUpper = 2.5

	backoffFactor = 0.95
	deloadFactor  = 0.6
)

// SessionSummary compacts one exercise of one past workout: the weight used
// and the reps achieved per set, in set order.
type SessionSummary struct {
	ExerciseID   uuid.UUID `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Reps         []int     `json:"reps"`
}

// ProposeWeight suggests the working weight for one exercise of a planned
// session, from the compacted history of the same training day. The history
// must be ordered most recent first; entries of other exercises are ignored.
//
// Double progression: every set at or above repMax in the latest session
// bumps the weight up one increment, two sessions in a row with every set
// under repMin back it off by 5%. Week 12 proposes everything at 60%. With
// no history at all the start weight comes from the coaching cue, when it
// names one.
//
// Pure and deterministic, same inputs always give the same weight.
func ProposeWeight(exercise exercises.Exercise, repMin, repMax, week int, history []SessionSummary) float64 {
	var latest *SessionSummary
	for i := range history {
		if history[i].ExerciseID == exercise.ID {
			latest = &history[i]
			break
		}
	}

	weight := exercises.StartWeightFromCue(exercise.Cue)
	if latest != nil {
		weight = latest.Weight
	}

	underMinStreak := 0
	for i := range history {
		if history[i].ExerciseID != exercise.ID {
			continue
		}
		if !allRepsUnder(history[i].Reps, repMin) {
			break
		}
		underMinStreak++
	}
	if underMinStreak >= 2 {
		weight = round1(weight * backoffFactor)
	}

	if latest != nil && len(latest.Reps) > 0 && allRepsAtLeast(latest.Reps, repMax) {
		weight = round1(weight + weightBump(exercise))
	}

	if week == DeloadWeek {
		weight = round1(weight * deloadFactor)
	}

	return math.Max(weight, 0)
}

func weightBump(exercise exercises.Exercise) float64 {
	if exercise.ResolvedCategory() == exercises.CategoryLower {
		return bumpLower
	}
	return bumpUpper
}

func allRepsUnder(reps []int, repMin int) bool {
	for _, r := range reps {
		if r >= repMin {
			return false
		}
	}
	return true
}

func allRepsAtLeast(reps []int, repMax int) bool {
	for _, r := range reps {
		if r < repMax {
			return false
		}
	}
	return true
}

func round1(weight float64) float64 {
	return math.Round(weight*10) / 10
}
