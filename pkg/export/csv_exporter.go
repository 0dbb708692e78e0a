// Package export renders repository records into tabular files for
// registrar hand-off.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/studentbook/studentbook/internal/models"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RosterDataset shapes user records for export.
func RosterDataset(users []models.User) Dataset {
	headers := []string{"id", "display_id", "username", "full_name", "email", "role", "status", "year_level"}
	rows := make([]map[string]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, map[string]string{
			"id":         strconv.Itoa(u.ID),
			"display_id": u.UserIDStr,
			"username":   u.Username,
			"full_name":  u.FullName,
			"email":      u.Email,
			"role":       string(u.Role),
			"status":     string(u.Status),
			"year_level": string(u.YearLevel),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// CompletionsDataset shapes a learner's course completions for export.
func CompletionsDataset(completions []models.CourseCompletion) Dataset {
	headers := []string{"id", "course_id", "instructor_id", "status", "date_completed", "grade"}
	rows := make([]map[string]string, 0, len(completions))
	for _, c := range completions {
		row := map[string]string{
			"id":            strconv.Itoa(c.ID),
			"course_id":     strconv.Itoa(c.CourseID),
			"instructor_id": strconv.Itoa(c.InstructorID),
			"status":        string(c.Status),
		}
		if c.DateCompleted != nil {
			row["date_completed"] = c.DateCompleted.Format("2006-01-02")
		}
		if c.Grade != nil {
			row["grade"] = strconv.FormatFloat(*c.Grade, 'f', 2, 64)
		}
		rows = append(rows, row)
	}
	return Dataset{Headers: headers, Rows: rows}
}
