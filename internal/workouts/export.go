package workouts

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vstrand/gymlog/internal/program"
)

// WriteCSV writes the export rows as a CSV document. Day labels come out in
// display form ("Pass 1" .. "Pass 4"), the PR column is optional.
func WriteCSV(w io.Writer, rows []ExportRow, includePR bool) error {
	csvWriter := csv.NewWriter(w)

	header := []string{"date", "day_label", "exercise", "set_no", "weight_kg", "reps"}
	if includePR {
		header = append(header, "pr_flag")
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			program.DisplayDay(row.DayLabel),
			row.ExerciseName,
			strconv.Itoa(row.SetNo),
			strconv.FormatFloat(row.WeightKg, 'f', -1, 64),
			strconv.Itoa(row.Reps),
		}
		if includePR {
			record = append(record, strconv.FormatBool(row.PRFlag))
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
