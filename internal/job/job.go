package job

import (
	"time"

	"github.com/ahmethakanbesel/similarity-api/internal/sheet"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Source identifies the dataset range a job scores. Immutable after
// creation; column letters are parsed once, at creation time.
type Source struct {
	SpreadsheetID string       `json:"spreadsheetId"`
	SheetName     string       `json:"sheetName"`
	SourceColumn  sheet.Column `json:"sourceColumn"`
	TargetColumn  sheet.Column `json:"targetColumn"`
	OutputColumn  sheet.Column `json:"outputColumn"`
	LabelColumn   sheet.Column `json:"labelColumn"`
}

// Progress is a snapshot overwritten on every update, never appended.
type Progress struct {
	Stage      string `json:"stage"`
	TotalRows  int    `json:"totalRows"`
	CurrentRow int    `json:"currentRow"`
	Message    string `json:"message"`
}

// Result is written once, atomically with the terminal transition.
type Result struct {
	Processed int `json:"processed"`
	Success   int `json:"success"`
	Failed    int `json:"failed"`
}

type Job struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Source    Source    `json:"source"`
	Progress  *Progress `json:"progress,omitempty"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// clone deep-copies the job so store readers never share mutable state with
// the runner.
func (j *Job) clone() *Job {
	cp := *j
	if j.Progress != nil {
		p := *j.Progress
		cp.Progress = &p
	}
	if j.Result != nil {
		r := *j.Result
		cp.Result = &r
	}
	return &cp
}
