package model

import (
	"time"
)

// Mood values recorded on a log entry
const (
	MoodGreat    = "GREAT"
	MoodGood     = "GOOD"
	MoodNeutral  = "NEUTRAL"
	MoodBad      = "BAD"
	MoodTerrible = "TERRIBLE"
)

// timeOfDayLayout is the wire and storage format for start/end times
const timeOfDayLayout = "15:04"

// DevLog is a single day's development activity entry
type DevLog struct {
	ID           int64     `db:"id" json:"id"`
	ProjectID    *int64    `db:"project_id" json:"projectId"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	StartTime    *string   `db:"start_time" json:"startTime"`
	EndTime      *string   `db:"end_time" json:"endTime"`
	WorkMinutes  int       `db:"work_minutes" json:"workMinutes"`
	Achievements string    `db:"achievements" json:"achievements"`
	Challenges   string    `db:"challenges" json:"challenges"`
	Learnings    string    `db:"learnings" json:"learnings"`
	CodeSnippets string    `db:"code_snippets" json:"codeSnippets"`
	LogDate      Date      `db:"log_date" json:"logDate"`
	Mood         string    `db:"mood" json:"mood"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	// Populated by joins, not columns on dev_logs
	ProjectName string    `db:"-" json:"projectName,omitempty"`
	TechTags    []TechTag `db:"-" json:"techTags"`
}

// HasWorkTime reports whether both start and end times are set
func (d *DevLog) HasWorkTime() bool {
	return d.StartTime != nil && d.EndTime != nil
}

// HasProject reports whether the log is tied to a project
func (d *DevLog) HasProject() bool {
	return d.ProjectID != nil
}

// ParseTimeOfDay parses an "HH:MM" time-of-day string
func ParseTimeOfDay(s string) (time.Time, error) {
	return time.Parse(timeOfDayLayout, s)
}

// CalculateWorkMinutes derives the work duration from start/end times.
// Returns 0 when either time is missing, unparseable, or end precedes start.
func (d *DevLog) CalculateWorkMinutes() int {
	if !d.HasWorkTime() {
		return 0
	}
	start, err := ParseTimeOfDay(*d.StartTime)
	if err != nil {
		return 0
	}
	end, err := ParseTimeOfDay(*d.EndTime)
	if err != nil {
		return 0
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}
