package program

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vstrand/gymlog/internal/exercises"
)

// Schedule is a freshly generated 12 week program, plus the template names
// that matched nothing in the exercise catalog.
type Schedule struct {
	Entries []Entry  `json:"entries"`
	Skipped []string `json:"skipped"`
}

// BuildSchedule computes the full 12 week schedule from the weekly templates
// and the given exercise catalog. Output is deterministic for an unchanged
// catalog: entries come out week by week, day by day, in template order, and
// alias resolution scans the catalog sorted by name. Template entries that
// resolve to no catalog exercise are dropped and reported in Skipped, each
// name once.
func BuildSchedule(catalog []exercises.Exercise) Schedule {
	sorted := make([]exercises.Exercise, len(catalog))
	copy(sorted, catalog)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	entries := make([]Entry, 0, TotalWeeks*25)
	skipped := make([]string, 0)
	skippedSeen := map[string]bool{}

	for week := 1; week <= TotalWeeks; week++ {
		block := BlockForWeek(week)
		tpl := TemplateForWeek(week)

		for _, day := range Days {
			position := 0
			for _, slot := range tpl[day] {
				exerciseID, ok := resolveAlias(sorted, slot.Aliases)
				if !ok {
					if !skippedSeen[slot.Name] {
						skippedSeen[slot.Name] = true
						skipped = append(skipped, slot.Name)
					}
					continue
				}

				repMin, repMax := repRange(block, slot.IsBase)
				entries = append(entries, Entry{
					Week:       week,
					Day:        day,
					ExerciseID: exerciseID,
					Position:   position,
					Sets:       setCount(block, slot.IsBase, slot.Sets),
					RepMin:     repMin,
					RepMax:     repMax,
				})
				position++
			}
		}
	}

	return Schedule{Entries: entries, Skipped: skipped}
}

// resolveAlias finds the catalog exercise for a template slot: exact name
// match in alias order first, then the first exercise whose name contains an
// alias, case insensitively.
func resolveAlias(catalog []exercises.Exercise, aliases []string) (uuid.UUID, bool) {
	for _, alias := range aliases {
		for i := range catalog {
			if catalog[i].Name == alias {
				return catalog[i].ID, true
			}
		}
	}
	for _, alias := range aliases {
		aliasLow := strings.ToLower(alias)
		for i := range catalog {
			if strings.Contains(strings.ToLower(catalog[i].Name), aliasLow) {
				return catalog[i].ID, true
			}
		}
	}
	return uuid.Nil, false
}

func repRange(block string, isBase bool) (repMin, repMax int) {
	if block == BlockStrength {
		if isBase {
			return 3, 5
		}
		return 6, 8
	}
	if isBase {
		return 6, 10
	}
	return 8, 12
}

// setCount adjusts a template set count for the block: strength trims one
// set off the assistance work, deload runs everything at 60% volume, never
// under two sets.
func setCount(block string, isBase bool, sets int) int {
	switch block {
	case BlockStrength:
		if isBase {
			return sets
		}
		return max(2, sets-1)
	case BlockDeload:
		return max(2, int(math.Round(float64(sets)*0.6)))
	default:
		return sets
	}
}
