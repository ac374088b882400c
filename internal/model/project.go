package model

import "time"

// Project statuses
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusOnHold    = "ON_HOLD"
	StatusArchived  = "ARCHIVED"
)

// ValidStatus reports whether s is one of the known project statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOnHold, StatusArchived:
		return true
	}
	return false
}

// Project is a tracked body of work with lifecycle status and progress
type Project struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	StartDate   *Date      `db:"start_date" json:"startDate"`
	EndDate     *Date      `db:"end_date" json:"endDate"`
	Progress    int        `db:"progress" json:"progress"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the project is in the ACTIVE state
func (p *Project) IsActive() bool {
	return p.Status == StatusActive
}

// IsCompleted reports whether the project has been completed
func (p *Project) IsCompleted() bool {
	return p.Status == StatusCompleted
}
