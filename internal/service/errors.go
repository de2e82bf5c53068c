package service

import "errors"

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrAssigneeRequired = errors.New("assignee is required")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidType      = errors.New("invalid message type")
	ErrCodeRequired     = errors.New("category code is required")
	ErrNameRequired     = errors.New("category name is required")
	ErrNoRecipients     = errors.New("at least one recipient is required")
	ErrUnknownRecipient = errors.New("unknown recipient")
)
