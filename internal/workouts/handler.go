package workouts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/telemetry/metrics"
	"github.com/vstrand/gymlog/internal/telemetry/tracing"
	"github.com/vstrand/gymlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	SaveSession(ctx context.Context, session Session) (*SavedSession, error)
	List(ctx context.Context, params ListParams) ([]WorkoutWithSets, int, error)
	Get(ctx context.Context, id uuid.UUID) (*WorkoutWithSets, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DayHistory(ctx context.Context, day string, limit int) ([]program.SessionSummary, error)
	PersonalBests(ctx context.Context, exerciseID *uuid.UUID) ([]PersonalBest, error)
	ExportRows(ctx context.Context) ([]ExportRow, error)
}

type progressAnalyzer interface {
	Progress(ctx context.Context, exerciseID uuid.UUID) (*ExerciseProgress, error)
}

const (
	defaultHistoryLimit = 10
	exportFilename      = "gymlog_export.csv"
	dateLayout          = "2006-01-02"
)

// SaveSessionRequest carries one session to save. The date is "YYYY-MM-DD",
// empty means today; the day accepts canonical and display labels.
type SaveSessionRequest struct {
	Date    string         `json:"date"`
	Day     string         `json:"day"`
	Entries []SessionEntry `json:"entries"`
}

type ListResponse struct {
	Workouts []WorkoutWithSets `json:"workouts"`
	Total    int               `json:"total"`
}

type DayHistoryResponse struct {
	Day     string                   `json:"day"`
	Entries []program.SessionSummary `json:"entries"`
	Total   int                      `json:"total"`
}

type PersonalBestsResponse struct {
	Bests []PersonalBest `json:"bests"`
	Total int            `json:"total"`
}

type DeleteWorkoutResponse struct {
	DeletedID uuid.UUID `json:"deletedId"`
}

type Handler struct {
	repo     workoutsRepo
	analyzer progressAnalyzer
	metrics  *metrics.Manager
}

func NewHandler(repo workoutsRepo, analyzer progressAnalyzer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: analyzer,
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts", handler.HandleSave).Methods("POST", "OPTIONS").Name("save-workout")
	router.HandleFunc("/workouts/list/page/{page}/size/{size}", handler.HandleList).Methods("GET").Name("list-workouts")
	router.HandleFunc("/workouts/day/{day}/history", handler.HandleDayHistory).Methods("GET").Name("day-history")
	router.HandleFunc("/workouts/export", handler.HandleExport).Methods("GET").Name("export-workouts")
	router.HandleFunc("/workouts/stats/pbs", handler.HandlePersonalBests).Methods("GET").Name("personal-bests")
	router.HandleFunc("/workouts/stats/progress/{exerciseId}", handler.HandleProgress).Methods("GET").Name("exercise-progress")
	router.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET").Name("get-workout")
	router.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.save")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SaveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("save workout, unmarshal json params: %s", err)
		http.Error(w, "save workout failed", http.StatusBadRequest)
		return
	}

	day, ok := program.CanonicalDay(req.Day)
	if !ok {
		http.Error(w, "invalid day", http.StatusBadRequest)
		return
	}

	if len(req.Entries) == 0 {
		http.Error(w, "error, session without exercises", http.StatusBadRequest)
		return
	}
	totalSets := 0
	for _, entry := range req.Entries {
		if entry.ExerciseID == uuid.Nil {
			http.Error(w, "invalid exercise id", http.StatusBadRequest)
			return
		}
		if len(entry.Reps) == 0 {
			http.Error(w, "error, exercise without sets", http.StatusBadRequest)
			return
		}
		for _, reps := range entry.Reps {
			if reps < 0 || reps > 50 {
				http.Error(w, "invalid reps, must be 0 to 50", http.StatusBadRequest)
				return
			}
		}
		if entry.WeightKg < 0 || entry.WeightKg > 999 {
			http.Error(w, "invalid weight, must be 0 to 999", http.StatusBadRequest)
			return
		}
		totalSets += len(entry.Reps)
	}

	sessionDate := time.Now()
	if req.Date != "" {
		parsedDate, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		sessionDate = parsedDate
	}

	saved, err := handler.repo.SaveSession(ctx, Session{
		Date:     sessionDate,
		DayLabel: day,
		Entries:  req.Entries,
	})
	if err != nil {
		log.Errorf("failed to save workout [%s]: %s", day, err)
		http.Error(w, "error, failed to save workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsSaved.Inc()
	handler.metrics.CounterSetsSaved.Add(float64(totalSets))

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal saved workout: %s", err)
		http.Error(w, "error, failed to save workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout saved: %s [%s], %d sets, PRs: %d",
		saved.Workout.ID, day, totalSets, len(saved.PRExercises))

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list workouts, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list workouts, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	day := ""
	if dayParam := r.URL.Query().Get("day"); dayParam != "" {
		canon, ok := program.CanonicalDay(dayParam)
		if !ok {
			http.Error(w, "invalid day", http.StatusBadRequest)
			return
		}
		day = canon
	}

	workouts, total, err := handler.repo.List(ctx, ListParams{
		Day:  day,
		Page: page,
		Size: size,
	})
	if err != nil {
		log.Errorf("list workouts error: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	listJson, err := json.Marshal(ListResponse{
		Workouts: workouts,
		Total:    total,
	})
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout %s: %s", id, err)
		http.Error(w, "failed to get workout", http.StatusInternalServerError)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("marshal workout error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, workoutJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete workout %s: %s", id, err)
		http.Error(w, "failed to delete workout", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteWorkoutResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout deleted: %s", id)

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, deleteRespJson)
}

func (handler *Handler) HandleDayHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.dayHistory")
	defer span.End()

	vars := mux.Vars(r)
	day, ok := program.CanonicalDay(vars["day"])
	if !ok {
		http.Error(w, "invalid day", http.StatusBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsedLimit, err := strconv.Atoi(limitParam)
		if err != nil || parsedLimit < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsedLimit
	}

	entries, err := handler.repo.DayHistory(ctx, day, limit)
	if err != nil {
		log.Errorf("day history %s: %s", day, err)
		http.Error(w, "failed to get day history", http.StatusInternalServerError)
		return
	}

	historyJson, err := json.Marshal(DayHistoryResponse{
		Day:     day,
		Entries: entries,
		Total:   len(entries),
	})
	if err != nil {
		log.Errorf("marshal day history error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, historyJson)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.export")
	defer span.End()

	includePR := true
	if prParam := r.URL.Query().Get("pr"); prParam != "" {
		parsedPR, err := strconv.ParseBool(prParam)
		if err != nil {
			http.Error(w, "failed to parse pr param", http.StatusBadRequest)
			return
		}
		includePR = parsedPR
	}

	rows, err := handler.repo.ExportRows(ctx)
	if err != nil {
		log.Errorf("export workouts: %s", err)
		http.Error(w, "failed to export workouts", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, includePR); err != nil {
		log.Errorf("write workouts csv: %s", err)
		http.Error(w, "failed to export workouts", http.StatusInternalServerError)
		return
	}

	log.Debugf("workouts exported: %d rows", len(rows))

	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.CSV, buf.Bytes())
}

func (handler *Handler) HandlePersonalBests(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.personalBests")
	defer span.End()

	var exerciseID *uuid.UUID
	if idParam := r.URL.Query().Get("exerciseId"); idParam != "" {
		id, err := uuid.Parse(idParam)
		if err != nil {
			http.Error(w, "invalid exercise id", http.StatusBadRequest)
			return
		}
		exerciseID = &id
	}

	bests, err := handler.repo.PersonalBests(ctx, exerciseID)
	if err != nil {
		log.Errorf("personal bests: %s", err)
		http.Error(w, "failed to get personal bests", http.StatusInternalServerError)
		return
	}

	bestsJson, err := json.Marshal(PersonalBestsResponse{
		Bests: bests,
		Total: len(bests),
	})
	if err != nil {
		log.Errorf("marshal personal bests error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, bestsJson)
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.progress")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID, err := uuid.Parse(vars["exerciseId"])
	if err != nil {
		http.Error(w, "invalid exercise id", http.StatusBadRequest)
		return
	}

	progress, err := handler.analyzer.Progress(ctx, exerciseID)
	if err != nil {
		log.Errorf("exercise progress %s: %s", exerciseID, err)
		http.Error(w, "failed to get exercise progress", http.StatusInternalServerError)
		return
	}

	progressJson, err := json.Marshal(progress)
	if err != nil {
		log.Errorf("marshal exercise progress error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, progressJson)
}
