package workouts

import (
	"time"

	"github.com/google/uuid"
)

// Workout is one saved training session header. The day label is always
// stored in canonical form ("Upper A" .. "Lower B").
type Workout struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	DayLabel  string    `json:"dayLabel"`
	CreatedAt time.Time `json:"createdAt"`
}

// Set is one recorded set of an exercise within a workout. The exercise name
// is resolved on reads.
type Set struct {
	ID           uuid.UUID `json:"id"`
	WorkoutID    uuid.UUID `json:"workoutId"`
	ExerciseID   uuid.UUID `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName,omitempty"`
	SetNo        int       `json:"setNo"`
	Reps         int       `json:"reps"`
	WeightKg     float64   `json:"weightKg"`
	PRFlag       bool      `json:"prFlag"`
}

type WorkoutWithSets struct {
	Workout
	Sets []Set `json:"sets"`
}

// SessionEntry is the recorded work of one exercise: one weight, reps per
// set in order.
type SessionEntry struct {
	ExerciseID uuid.UUID `json:"exerciseId"`
	WeightKg   float64   `json:"weightKg"`
	Reps       []int     `json:"reps"`
}

// Session is a full training session to be saved.
type Session struct {
	Date     time.Time      `json:"date"`
	DayLabel string         `json:"dayLabel"`
	Entries  []SessionEntry `json:"entries"`
}

// SavedSession is the save result: the stored workout header and the names
// of the exercises where a new personal best was set.
type SavedSession struct {
	Workout     Workout  `json:"workout"`
	PRExercises []string `json:"prExercises"`
}

// PersonalBest is the highest rep count ever recorded for an exercise at one
// exact weight.
type PersonalBest struct {
	ExerciseID   uuid.UUID `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	WeightKg     float64   `json:"weightKg"`
	Reps         int       `json:"reps"`
}

// ExportRow is one line of the CSV export, a set joined with its workout and
// exercise.
type ExportRow struct {
	Date         time.Time
	DayLabel     string
	ExerciseName string
	SetNo        int
	WeightKg     float64
	Reps         int
	PRFlag       bool
}

// HistoricalSet is one set of a single exercise across all workouts, used by
// the progress analyzer.
type HistoricalSet struct {
	WorkoutID    uuid.UUID
	Date         time.Time
	ExerciseName string
	SetNo        int
	Reps         int
	WeightKg     float64
	PRFlag       bool
}
