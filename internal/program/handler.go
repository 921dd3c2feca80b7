package program

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vstrand/gymlog/internal/exercises"
	"github.com/vstrand/gymlog/internal/telemetry/metrics"
	"github.com/vstrand/gymlog/internal/telemetry/tracing"
	"github.com/vstrand/gymlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=program_mocks_test.go -package=program_test

type programRepo interface {
	Replace(ctx context.Context, entries []Entry) error
	WeekEntries(ctx context.Context, week int) ([]WeekEntry, error)
	DayEntries(ctx context.Context, week int, day string) ([]WeekEntry, error)
	UpdateEntry(ctx context.Context, entry Entry) error
}

type exercisesCatalog interface {
	ListAll(ctx context.Context, params exercises.ListParams) ([]exercises.Exercise, error)
}

type dayHistorySource interface {
	DayHistory(ctx context.Context, day string, limit int) ([]SessionSummary, error)
}

// how many past workouts of a day feed the weight suggestions
const suggestionHistoryDepth = 10

type GenerateResponse struct {
	Entries int      `json:"entries"`
	Skipped []string `json:"skipped"`
}

type WeekResponse struct {
	Week    int         `json:"week"`
	Block   string      `json:"block"`
	Entries []WeekEntry `json:"entries"`
	Total   int         `json:"total"`
}

// PlanEntry is one schedule row of a day plan with the weight the
// progression engine suggests for it.
type PlanEntry struct {
	WeekEntry
	SuggestedWeight float64 `json:"suggestedWeight"`
}

type PlanResponse struct {
	Week       int         `json:"week"`
	Day        string      `json:"day"`
	DayDisplay string      `json:"dayDisplay"`
	Block      string      `json:"block"`
	Entries    []PlanEntry `json:"entries"`
}

type Handler struct {
	repo    programRepo
	catalog exercisesCatalog
	history dayHistorySource
	metrics *metrics.Manager
}

func NewHandler(
	repo programRepo,
	catalog exercisesCatalog,
	history dayHistorySource,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:    repo,
		catalog: catalog,
		history: history,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/program/generate", handler.HandleGenerate).Methods("POST", "OPTIONS").Name("generate-program")
	router.HandleFunc("/program/entry", handler.HandleUpdateEntry).Methods("PUT", "OPTIONS").Name("update-program-entry")
	router.HandleFunc("/program/week/{week}", handler.HandleWeek).Methods("GET").Name("program-week")
	router.HandleFunc("/program/plan/week/{week}/day/{day}", handler.HandlePlan).Methods("GET").Name("day-plan")
}

// HandleGenerate rebuilds the whole 12 week schedule from the weekly
// templates and the current exercise catalog. Full replace, idempotent for
// an unchanged catalog.
func (handler *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.generate")
	defer span.End()

	catalog, err := handler.catalog.ListAll(ctx, exercises.ListParams{})
	if err != nil {
		log.Errorf("generate program, list exercises: %s", err)
		http.Error(w, "failed to generate program", http.StatusInternalServerError)
		return
	}

	schedule := BuildSchedule(catalog)
	if err := handler.repo.Replace(ctx, schedule.Entries); err != nil {
		log.Errorf("generate program, replace schedule: %s", err)
		http.Error(w, "failed to generate program", http.StatusInternalServerError)
		return
	}

	for _, name := range schedule.Skipped {
		log.Warnf("program generated without [%s], no matching exercise in the catalog", name)
	}
	handler.metrics.CounterProgramsGenerated.Inc()

	respBytes, err := json.Marshal(GenerateResponse{
		Entries: len(schedule.Entries),
		Skipped: schedule.Skipped,
	})
	if err != nil {
		log.Errorf("marshal generate program response: %s", err)
		http.Error(w, "failed to generate program", http.StatusInternalServerError)
		return
	}

	log.Debugf("program generated: %d entries, %d skipped", len(schedule.Entries), len(schedule.Skipped))

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

// HandleWeek returns the stored schedule of one week, rows ordered by
// training day and position.
func (handler *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.week")
	defer span.End()

	vars := mux.Vars(r)
	week, err := strconv.Atoi(vars["week"])
	if err != nil || !ValidWeek(week) {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.WeekEntries(ctx, week)
	if err != nil {
		log.Errorf("get program week %d: %s", week, err)
		http.Error(w, "failed to get program week", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(WeekResponse{
		Week:    week,
		Block:   BlockForWeek(week),
		Entries: entries,
		Total:   len(entries),
	})
	if err != nil {
		log.Errorf("marshal program week response: %s", err)
		http.Error(w, "failed to get program week", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

// HandlePlan returns the schedule rows of one (week, day) together with the
// suggested working weight per exercise, computed from the recent history of
// that training day. The day comes in canonical ("Upper A") or display
// ("Pass 1") form.
func (handler *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.plan")
	defer span.End()

	vars := mux.Vars(r)
	week, err := strconv.Atoi(vars["week"])
	if err != nil || !ValidWeek(week) {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}
	day, ok := CanonicalDay(vars["day"])
	if !ok {
		http.Error(w, "invalid day", http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.DayEntries(ctx, week, day)
	if err != nil {
		log.Errorf("get day plan %d/%s: %s", week, day, err)
		http.Error(w, "failed to get day plan", http.StatusInternalServerError)
		return
	}

	planEntries := make([]PlanEntry, 0, len(entries))
	if len(entries) > 0 {
		history, err := handler.history.DayHistory(ctx, day, suggestionHistoryDepth)
		if err != nil {
			log.Errorf("get day plan %d/%s, day history: %s", week, day, err)
			http.Error(w, "failed to get day plan", http.StatusInternalServerError)
			return
		}
		for _, entry := range entries {
			planEntries = append(planEntries, PlanEntry{
				WeekEntry:       entry,
				SuggestedWeight: ProposeWeight(entry.Exercise, entry.RepMin, entry.RepMax, week, history),
			})
		}
	}

	respBytes, err := json.Marshal(PlanResponse{
		Week:       week,
		Day:        day,
		DayDisplay: DisplayDay(day),
		Block:      BlockForWeek(week),
		Entries:    planEntries,
	})
	if err != nil {
		log.Errorf("marshal day plan response: %s", err)
		http.Error(w, "failed to get day plan", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

// HandleUpdateEntry edits sets and rep range of one schedule row. Bounds
// follow the program form: sets 1 to 8, reps 1 to 30, rep max not under rep
// min. Rejected before anything is written.
func (handler *Handler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.updateEntry")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Tracef("update program entry, unmarshal json params: %s", err)
		http.Error(w, "update program entry failed", http.StatusBadRequest)
		return
	}

	day, ok := CanonicalDay(entry.Day)
	if !ok {
		http.Error(w, "invalid day", http.StatusBadRequest)
		return
	}
	entry.Day = day

	if !ValidWeek(entry.Week) {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}
	if entry.ExerciseID == uuid.Nil {
		http.Error(w, "invalid exercise id", http.StatusBadRequest)
		return
	}
	if entry.Sets < 1 || entry.Sets > 8 {
		http.Error(w, "invalid sets, must be 1 to 8", http.StatusBadRequest)
		return
	}
	if entry.RepMin < 1 || entry.RepMin > 30 || entry.RepMax < 1 || entry.RepMax > 30 {
		http.Error(w, "invalid rep range, must be 1 to 30", http.StatusBadRequest)
		return
	}
	if entry.RepMax < entry.RepMin {
		http.Error(w, "invalid rep range, rep max must not be under rep min", http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdateEntry(ctx, entry); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "program entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("update program entry %d/%s/%s: %s", entry.Week, entry.Day, entry.ExerciseID, err)
		http.Error(w, "failed to update program entry", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("marshal update program entry response: %s", err)
		http.Error(w, "failed to update program entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
