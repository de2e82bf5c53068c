package model

import "time"

// Category is a reference-table entry classifying tasks. Code is the
// immutable business key and must be unique.
type Category struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Name            string   `gorm:"uniqueIndex;not null" json:"name"`
	Code            string   `gorm:"uniqueIndex;not null" json:"code"`
	Description     string   `json:"description,omitempty"`
	Sequence        int      `gorm:"default:10" json:"sequence"`
	Color           int      `json:"color"`
	Icon            string   `json:"icon,omitempty"`
	Active          bool     `gorm:"default:true" json:"active"`
	DefaultPriority Priority `json:"default_priority"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks []Task `gorm:"foreignKey:CategoryID" json:"-"`
}
