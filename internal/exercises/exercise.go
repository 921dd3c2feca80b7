package exercises

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CategoryLower = "lower"
	CategoryUpper = "upper"
)

type Exercise struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Cue       string    `json:"cue"`
	IconPath  string    `json:"iconPath"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResolvedCategory returns the stored category, falling back to name
// keyword inference for rows that never had it set.
func (e Exercise) ResolvedCategory() string {
	if e.Category != "" {
		return e.Category
	}
	return CategoryForName(e.Name)
}

// Swedish and English, matched as case-insensitive substrings.
var lowerBodyKeywords = []string{
	"böj", "squat", "mark", "lunges", "vadpress", "hip", "thrust", "pull-through", "calf",
}

func CategoryForName(name string) string {
	low := strings.ToLower(name)
	for _, key := range lowerBodyKeywords {
		if strings.Contains(low, key) {
			return CategoryLower
		}
	}
	return CategoryUpper
}

var startWeightRegex = regexp.MustCompile(`\d+(\.\d+)?`)

// StartWeightFromCue parses the first decimal number out of a coaching cue,
// e.g. "Skjut knäna utåt. Startvikt 60 kg" -> 60. Returns 0 when the cue
// holds no number.
func StartWeightFromCue(cue string) float64 {
	match := startWeightRegex.FindString(cue)
	if match == "" {
		return 0
	}
	weight, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return weight
}
