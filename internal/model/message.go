package model

import "time"

// Message is a broadcast notification addressed to a fixed set of
// recipients, with one ReadStatus ledger row per recipient.
type Message struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `json:"content,omitempty"`
	UseCase string `gorm:"index" json:"use_case,omitempty"`
	Tags    string `json:"tags,omitempty"`

	MessageType MessageType `gorm:"index;not null" json:"message_type"`
	Priority    Priority    `gorm:"not null" json:"priority"`

	SenderID   uint   `gorm:"index" json:"sender_id"`
	Recipients []User `gorm:"many2many:message_recipients" json:"-"`

	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	ExpiryDate    *time.Time `gorm:"index" json:"expiry_date,omitempty"`

	RelatedModel    string `json:"related_model,omitempty"`
	RelatedRecordID uint   `json:"related_record_id,omitempty"`

	TaskID    *uint `json:"task_id,omitempty"`
	ContactID *uint `json:"contact_id,omitempty"`

	CustomData JSONMap `json:"custom_data,omitempty"`

	ReadStatuses []ReadStatus `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scheduled reports whether the message is still waiting for its
// scheduled time. Point-in-time view, never stored.
func (m *Message) Scheduled(now time.Time) bool {
	return m.ScheduledDate != nil && m.ScheduledDate.After(now)
}

// Expired reports whether the message's expiry has passed.
func (m *Message) Expired(now time.Time) bool {
	return m.ExpiryDate != nil && m.ExpiryDate.Before(now)
}

// ReadStatus is one ledger row per (message, recipient) pair. Rows are
// created in bulk when the message is created and mutated only by the
// mark-read operation.
type ReadStatus struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MessageID uint       `gorm:"uniqueIndex:idx_read_status_message_user;not null" json:"message_id"`
	UserID    uint       `gorm:"uniqueIndex:idx_read_status_message_user;not null" json:"user_id"`
	IsRead    bool       `gorm:"default:false" json:"is_read"`
	ReadDate  *time.Time `json:"read_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
