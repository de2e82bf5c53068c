package model

import "time"

// Task represents a single work item, optionally linked to any other
// record through the (RelatedModel, RelatedRecordID) pair.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`

	CategoryID *uint  `gorm:"index" json:"category_id,omitempty"`
	UseCase    string `gorm:"index" json:"use_case,omitempty"`
	Tags       string `json:"tags,omitempty"`

	Priority Priority `gorm:"index;not null" json:"priority"`
	Status   Status   `gorm:"index;not null" json:"status"`

	DueDate        *time.Time `gorm:"index" json:"due_date,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	CompletedDate  *time.Time `json:"completed_date,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	Progress       int        `json:"progress"`

	AssignedUserID uint  `gorm:"index;not null" json:"assigned_user_id"`
	CreatedByID    uint  `json:"created_by_id"`
	ReviewerID     *uint `json:"reviewer_id,omitempty"`

	RelatedModel    string `json:"related_model,omitempty"`
	RelatedRecordID uint   `json:"related_record_id,omitempty"`
	ContactID       *uint  `gorm:"index" json:"contact_id,omitempty"`

	// IsOverdue is stored so it can be indexed and filtered. It is
	// recomputed on every write that touches DueDate or Status, and
	// by the periodic sweep as time passes.
	IsOverdue bool `gorm:"index" json:"is_overdue"`

	CustomData JSONMap `json:"custom_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecomputeOverdue refreshes the stored overdue flag against now.
func (t *Task) RecomputeOverdue(now time.Time) {
	t.IsOverdue = t.DueDate != nil && !t.Status.Terminal() && t.DueDate.Before(now)
}
