package repository

import (
	"context"
	"errors"
	"time"

	"housegig/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository defines the interface for conversation data operations
type ChatRepository interface {
	FindDirectConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, error)
	CreateDirectConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	GetUserConversations(ctx context.Context, userID uint) ([]*models.Conversation, error)
	IsParticipant(ctx context.Context, convID, userID uint) (bool, error)
	OtherParticipant(ctx context.Context, convID, userID uint) (*models.Profile, error)
	LastMessage(ctx context.Context, convID uint) (*models.Message, error)
	UnreadCount(ctx context.Context, convID, userID uint) (int, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	UpdateLastRead(ctx context.Context, convID, userID uint) error
	RemoveParticipant(ctx context.Context, convID, userID uint) error
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// FindDirectConversation returns the existing conversation containing exactly
// the two users, or nil when none exists.
func (r *chatRepository) FindDirectConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := readDB(r.db).WithContext(ctx).
		Joins("JOIN conversation_participants cp_self ON cp_self.conversation_id = conversations.id AND cp_self.user_id = ?", userID).
		Joins("JOIN conversation_participants cp_other ON cp_other.conversation_id = conversations.id AND cp_other.user_id = ?", otherUserID).
		Where("(SELECT COUNT(*) FROM conversation_participants cp WHERE cp.conversation_id = conversations.id) = 2").
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateDirectConversation inserts the conversation and both participant rows
// in one transaction.
func (r *chatRepository) CreateDirectConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, uid := range []uint{userID, otherUserID} {
			participant := models.ConversationParticipant{
				ConversationID: conv.ID,
				UserID:         uid,
			}
			// OnConflict guards the self-conversation edge where both IDs match.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := readDB(r.db).WithContext(ctx).
		Preload("Participants").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Messages.Sender").
		First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepository) GetUserConversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	err := readDB(r.db).WithContext(ctx).
		Joins("JOIN conversation_participants cp ON conversations.id = cp.conversation_id").
		Where("cp.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *chatRepository) IsParticipant(ctx context.Context, convID, userID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *chatRepository) OtherParticipant(ctx context.Context, convID, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Profile{}).
		Joins("JOIN conversation_participants cp ON cp.user_id = users.id").
		Where("cp.conversation_id = ? AND cp.user_id <> ?", convID, userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *chatRepository) LastMessage(ctx context.Context, convID uint) (*models.Message, error) {
	var msg models.Message
	err := readDB(r.db).WithContext(ctx).
		Where("conversation_id = ?", convID).
		Preload("Sender").
		Order("created_at DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UnreadCount counts the other participant's messages newer than the user's
// last-read watermark. A user with no watermark has everything unread.
func (r *chatRepository) UnreadCount(ctx context.Context, convID, userID uint) (int, error) {
	var participant models.ConversationParticipant
	err := readDB(r.db).WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		First(&participant).Error
	if err != nil {
		return 0, err
	}

	query := readDB(r.db).WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", convID, userID)
	if participant.LastReadAt != nil {
		query = query.Where("created_at > ?", *participant.LastReadAt)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// CreateMessage stores the message and touches the conversation's updated_at
// so list ordering reflects the latest activity.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now().UTC()).Error; err != nil {
			return err
		}
		return tx.Preload("Sender").First(msg, msg.ID).Error
	})
}

func (r *chatRepository) UpdateLastRead(ctx context.Context, convID, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Update("last_read_at", time.Now().UTC()).Error
}

func (r *chatRepository) RemoveParticipant(ctx context.Context, convID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Delete(&models.ConversationParticipant{}).Error
}
