package output

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// Report is the JSON envelope around a schedule.
type Report struct {
	ID          uuid.UUID        `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Notes       []string         `json:"notes"`
	Schedule    *domain.Schedule `json:"schedule"`
}

// NewReport wraps a schedule with a fresh identifier.
func NewReport(schedule *domain.Schedule) Report {
	return Report{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Notes:       CalculationNotes(schedule),
		Schedule:    schedule,
	}
}

// JSONFormatter serializes the schedule as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	return json.MarshalIndent(NewReport(schedule), "", "  ")
}
