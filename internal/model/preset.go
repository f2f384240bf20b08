package model

import (
	"time"
)

// SearchPreset is a named, saved SearchCriteria. Name is unique.
type SearchPreset struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"uniqueIndex;size:100;not null"`
	CriteriaColumns `gorm:"embedded"`
	CreatedAt       time.Time
	UpdatedAt       time.Time `gorm:"index"`
}

// TableName returns the table name for SearchPreset
func (SearchPreset) TableName() string {
	return "search_presets"
}

// Criteria returns the saved criteria
func (p *SearchPreset) Criteria() (*SearchCriteria, error) {
	return p.CriteriaColumns.ToCriteria()
}
