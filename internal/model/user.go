package model

import "time"

// User is an assignee, reviewer, sender or recipient. Identity and
// sessions belong to the hosting platform; this is just the directory
// the records point at.
type User struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Login  string `gorm:"uniqueIndex;not null" json:"login"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
