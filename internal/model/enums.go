package model

// Priority ranks tasks and messages from low to urgent.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank maps a priority to a sortable weight (urgent highest).
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Status is the task workflow state. Any status may be set directly;
// there is no enforced transition order.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusOnHold     Status = "on_hold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

// Terminal reports whether the status ends the task's life (no longer overdue-eligible).
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// MessageType classifies broadcast messages.
type MessageType string

const (
	MessageInfo         MessageType = "info"
	MessageTask         MessageType = "task"
	MessageUrgent       MessageType = "urgent"
	MessageAnnouncement MessageType = "announcement"
	MessageReminder     MessageType = "reminder"
	MessageWarning      MessageType = "warning"
	MessageSuccess      MessageType = "success"
	MessageCustom       MessageType = "custom"
)

func (m MessageType) Valid() bool {
	switch m {
	case MessageInfo, MessageTask, MessageUrgent, MessageAnnouncement,
		MessageReminder, MessageWarning, MessageSuccess, MessageCustom:
		return true
	}
	return false
}
