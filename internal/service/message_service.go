package service

import (
	"context"
	"time"

	"taskhub/internal/model"
	"taskhub/internal/refs"
	"taskhub/internal/repository"
)

// MessageInput represents data required to send a message. SenderID
// defaults to the acting user.
type MessageInput struct {
	Title           string
	Content         string
	UseCase         string
	Tags            string
	MessageType     model.MessageType
	Priority        model.Priority
	SenderID        uint
	RecipientIDs    []uint
	ScheduledDate   *time.Time
	ExpiryDate      *time.Time
	RelatedModel    string
	RelatedRecordID uint
	TaskID          *uint
	ContactID       *uint
	CustomData      model.JSONMap
}

// MessageCriteria is the AND-combined criteria set for message queries.
type MessageCriteria struct {
	UseCase     string
	RecipientID uint
	UnreadOnly  bool
	MessageType model.MessageType
	Priority    model.Priority
	ActiveOnly  bool
	Limit       int
}

// MessageView is a message enriched with read-time computations: the
// resolved target name, ledger counters, the scheduled/expired flags
// and, when the query is scoped to a recipient, that recipient's
// personal read state.
type MessageView struct {
	model.Message
	RelatedRecordName string     `json:"related_record_name,omitempty"`
	TotalRecipients   int64      `json:"total_recipients"`
	ReadCount         int64      `json:"read_count"`
	UnreadCount       int64      `json:"unread_count"`
	IsScheduled       bool       `json:"is_scheduled"`
	IsExpired         bool       `json:"is_expired"`
	IsRead            *bool      `json:"is_read,omitempty"`
	ReadDate          *time.Time `json:"read_date,omitempty"`
}

// MessageService wraps messaging business logic.
type MessageService struct {
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	registry    *refs.Registry
}

func NewMessageService(messageRepo *repository.MessageRepository, userRepo *repository.UserRepository, registry *refs.Registry) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo, registry: registry}
}

// Create persists a message and its full read-status ledger atomically.
func (s *MessageService) Create(ctx context.Context, actorID uint, input MessageInput) (*model.Message, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if len(input.RecipientIDs) == 0 {
		return nil, ErrNoRecipients
	}

	messageType := input.MessageType
	if messageType == "" {
		messageType = model.MessageInfo
	}
	if !messageType.Valid() {
		return nil, ErrInvalidType
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	senderID := input.SenderID
	if senderID == 0 {
		senderID = actorID
	}

	recipientIDs := dedup(input.RecipientIDs)
	recipients, err := s.userRepo.FindByIDs(ctx, recipientIDs)
	if err != nil {
		return nil, err
	}
	if len(recipients) != len(recipientIDs) {
		return nil, ErrUnknownRecipient
	}

	message := model.Message{
		Title:           input.Title,
		Content:         input.Content,
		UseCase:         input.UseCase,
		Tags:            input.Tags,
		MessageType:     messageType,
		Priority:        priority,
		SenderID:        senderID,
		Recipients:      recipients,
		ScheduledDate:   input.ScheduledDate,
		ExpiryDate:      input.ExpiryDate,
		RelatedModel:    input.RelatedModel,
		RelatedRecordID: input.RelatedRecordID,
		TaskID:          input.TaskID,
		ContactID:       input.ContactID,
		CustomData:      input.CustomData,
	}
	if err := s.messageRepo.Create(ctx, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// Send is the convenience wrapper around Create returning the new
// message's id.
func (s *MessageService) Send(ctx context.Context, actorID uint, input MessageInput) (uint, error) {
	message, err := s.Create(ctx, actorID, input)
	if err != nil {
		return 0, err
	}
	return message.ID, nil
}

// MarkReadForUser marks the message read for the given user, defaulting
// to the acting user. Marking read for a non-recipient is a successful
// no-op; callers must not use this to validate recipient membership.
func (s *MessageService) MarkReadForUser(ctx context.Context, actorID, messageID, userID uint) error {
	if userID == 0 {
		userID = actorID
	}
	return s.messageRepo.MarkRead(ctx, messageID, userID, time.Now().UTC())
}

// Get returns a single message view; recipientID may be zero.
func (s *MessageService) Get(ctx context.Context, messageID, recipientID uint) (*MessageView, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	view, err := s.annotate(ctx, *message, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if recipientID != 0 {
		status, err := s.messageRepo.ReadStatusFor(ctx, messageID, recipientID)
		if err != nil {
			return nil, err
		}
		applyPersonalState(&view, status)
	}
	return &view, nil
}

// Query lists messages matching the criteria, newest first. When a
// recipient is supplied each view carries that recipient's personal
// read state.
func (s *MessageService) Query(ctx context.Context, criteria MessageCriteria) ([]MessageView, error) {
	now := time.Now().UTC()
	messages, err := s.messageRepo.Query(ctx, repository.MessageFilter{
		UseCase:     criteria.UseCase,
		RecipientID: criteria.RecipientID,
		UnreadOnly:  criteria.UnreadOnly,
		MessageType: criteria.MessageType,
		Priority:    criteria.Priority,
		ActiveOnly:  criteria.ActiveOnly,
		Now:         now,
		Limit:       criteria.Limit,
	})
	if err != nil {
		return nil, err
	}

	var personal map[uint]model.ReadStatus
	if criteria.RecipientID != 0 {
		ids := make([]uint, 0, len(messages))
		for _, message := range messages {
			ids = append(ids, message.ID)
		}
		personal, err = s.messageRepo.ReadStatusesFor(ctx, ids, criteria.RecipientID)
		if err != nil {
			return nil, err
		}
	}

	views := make([]MessageView, 0, len(messages))
	for _, message := range messages {
		view, err := s.annotate(ctx, message, now)
		if err != nil {
			return nil, err
		}
		if criteria.RecipientID != 0 {
			if status, ok := personal[message.ID]; ok {
				applyPersonalState(&view, &status)
			} else {
				applyPersonalState(&view, nil)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *MessageService) annotate(ctx context.Context, message model.Message, now time.Time) (MessageView, error) {
	stats, err := s.messageRepo.Stats(ctx, message.ID)
	if err != nil {
		return MessageView{}, err
	}
	return MessageView{
		Message:           message,
		RelatedRecordName: s.registry.DisplayName(ctx, message.RelatedModel, message.RelatedRecordID),
		TotalRecipients:   stats.TotalRecipients,
		ReadCount:         stats.ReadCount,
		UnreadCount:       stats.UnreadCount,
		IsScheduled:       message.Scheduled(now),
		IsExpired:         message.Expired(now),
	}, nil
}

// applyPersonalState fills the per-caller read fields. A recipient with
// no ledger row reads as unread.
func applyPersonalState(view *MessageView, status *model.ReadStatus) {
	read := false
	if status != nil {
		read = status.IsRead
		view.ReadDate = status.ReadDate
	}
	view.IsRead = &read
}

func dedup(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
