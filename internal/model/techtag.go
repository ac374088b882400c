package model

import "time"

// Tech tag categories
const (
	CategoryLanguage  = "LANGUAGE"
	CategoryFramework = "FRAMEWORK"
	CategoryDatabase  = "DATABASE"
	CategoryTool      = "TOOL"
	CategoryLibrary   = "LIBRARY"
	CategoryPlatform  = "PLATFORM"
)

// Categories lists every valid tag category
var Categories = []string{
	CategoryLanguage,
	CategoryFramework,
	CategoryDatabase,
	CategoryTool,
	CategoryLibrary,
	CategoryPlatform,
}

// ValidCategory reports whether c is one of the known tag categories
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// TechTag is a categorized label attachable to dev logs
type TechTag struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Category   string    `db:"category" json:"category"`
	Color      string    `db:"color" json:"color"`
	UsageCount int       `db:"usage_count" json:"usageCount"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// IsLanguage reports whether the tag is in the LANGUAGE category
func (t *TechTag) IsLanguage() bool {
	return t.Category == CategoryLanguage
}
