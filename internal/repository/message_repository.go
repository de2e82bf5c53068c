package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// MessageFilter is the AND-combined criteria set for message queries.
type MessageFilter struct {
	UseCase     string
	RecipientID uint
	UnreadOnly  bool
	MessageType model.MessageType
	Priority    model.Priority
	// ActiveOnly keeps messages with no expiry or an expiry strictly
	// in the future of Now.
	ActiveOnly bool
	Now        time.Time
	Limit      int
}

// RecipientStats are the ledger-derived counters for one message.
type RecipientStats struct {
	TotalRecipients int64
	ReadCount       int64
	UnreadCount     int64
}

// MessageRepository handles messages and their read-status ledger.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists the message, its recipient set and one unread ledger
// row per recipient in a single transaction, so a reader never sees a
// message with a partial ledger.
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		for _, recipient := range message.Recipients {
			status := model.ReadStatus{MessageID: message.ID, UserID: recipient.ID}
			if err := tx.Create(&status).Error; err != nil {
				return fmt.Errorf("create read status for user %d: %w", recipient.ID, err)
			}
		}
		return nil
	})
}

func (r *MessageRepository) FindByID(ctx context.Context, id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).Preload("Recipients").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkRead sets is_read on the ledger row for (messageID, userID). When
// no row exists, for example because the user is not a recipient, this
// is a successful no-op.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID, userID uint, readAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.ReadStatus{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Updates(map[string]any{"is_read": true, "read_date": readAt})
	if res.Error != nil {
		return fmt.Errorf("mark read: %w", res.Error)
	}
	return nil
}

// Query lists messages matching the filter, newest first. The unread
// filter is a two-step intersection: collect message ids with an unread
// ledger row for the recipient, then restrict the recipient-scoped set
// to those ids.
func (r *MessageRepository) Query(ctx context.Context, f MessageFilter) ([]model.Message, error) {
	q := r.db.WithContext(ctx).Model(&model.Message{})

	if f.UseCase != "" {
		q = q.Where("use_case = ?", f.UseCase)
	}
	if f.RecipientID != 0 {
		q = q.Joins("JOIN message_recipients mr ON mr.message_id = messages.id").
			Where("mr.user_id = ?", f.RecipientID)

		if f.UnreadOnly {
			var unreadIDs []uint
			if err := r.db.WithContext(ctx).Model(&model.ReadStatus{}).
				Where("user_id = ? AND is_read = ?", f.RecipientID, false).
				Pluck("message_id", &unreadIDs).Error; err != nil {
				return nil, fmt.Errorf("collect unread ids: %w", err)
			}
			q = q.Where("messages.id IN ?", unreadIDs)
		}
	}
	if f.MessageType != "" {
		q = q.Where("message_type = ?", f.MessageType)
	}
	if f.Priority != "" {
		q = q.Where("messages.priority = ?", f.Priority)
	}
	if f.ActiveOnly {
		now := f.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		q = q.Where("expiry_date IS NULL OR expiry_date > ?", now)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	var messages []model.Message
	if err := q.Order("messages.created_at DESC, messages.id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return messages, nil
}

// Stats computes the recipient counters for a message from the ledger.
func (r *MessageRepository) Stats(ctx context.Context, messageID uint) (RecipientStats, error) {
	var stats RecipientStats
	db := r.db.WithContext(ctx)

	if err := db.Table("message_recipients").
		Where("message_id = ?", messageID).
		Count(&stats.TotalRecipients).Error; err != nil {
		return stats, fmt.Errorf("count recipients: %w", err)
	}
	if err := db.Model(&model.ReadStatus{}).
		Where("message_id = ? AND is_read = ?", messageID, true).
		Count(&stats.ReadCount).Error; err != nil {
		return stats, fmt.Errorf("count read: %w", err)
	}
	stats.UnreadCount = stats.TotalRecipients - stats.ReadCount
	return stats, nil
}

// ReadStatusFor returns the ledger row for one recipient of a message,
// or nil when the user has none.
func (r *MessageRepository) ReadStatusFor(ctx context.Context, messageID, userID uint) (*model.ReadStatus, error) {
	var status model.ReadStatus
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&status).Error
	switch {
	case err == nil:
		return &status, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("read status: %w", err)
	}
}

// ReadStatusesFor bulk-loads one recipient's ledger rows for a set of
// messages, keyed by message id.
func (r *MessageRepository) ReadStatusesFor(ctx context.Context, messageIDs []uint, userID uint) (map[uint]model.ReadStatus, error) {
	out := make(map[uint]model.ReadStatus, len(messageIDs))
	if len(messageIDs) == 0 {
		return out, nil
	}
	var rows []model.ReadStatus
	if err := r.db.WithContext(ctx).
		Where("message_id IN ? AND user_id = ?", messageIDs, userID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read statuses: %w", err)
	}
	for _, row := range rows {
		out[row.MessageID] = row
	}
	return out, nil
}

// LedgerRows returns all ledger rows of a message.
func (r *MessageRepository) LedgerRows(ctx context.Context, messageID uint) ([]model.ReadStatus, error) {
	var rows []model.ReadStatus
	if err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("user_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("ledger rows: %w", err)
	}
	return rows, nil
}
