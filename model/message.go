package model

import (
	"fmt"
	"time"

	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	ID             string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	ConversationID string            `gorm:"type:varchar(36);not null;index:idx_conversation_created" json:"conversation_id"`
	Role           string            `gorm:"type:varchar(20)" json:"role"`
	Content        string            `gorm:"type:text" json:"content"`
	Metadata       datatypes.JSONMap `json:"metadata"`
	CreatedAt      time.Time         `gorm:"index:idx_conversation_created" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AfterCreate refreshes the parent conversation's updated_at so that
// conversation listings order by latest activity.
func (m *Message) AfterCreate(tx *gorm.DB) error {
	return tx.Model(&Conversation{}).
		Where("id = ?", m.ConversationID).
		Update("updated_at", time.Now()).Error
}

func CreateMessage(message *Message) error {
	db := platform.DB
	if err := db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetMessageList returns a conversation's messages in creation order.
func GetMessageList(conversationID string) ([]Message, error) {
	db := platform.DB
	var messages []Message
	err := db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

func CountMessages(conversationID string) (int64, error) {
	db := platform.DB
	var count int64
	err := db.Model(&Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func GetLastMessage(conversationID string) (*Message, error) {
	db := platform.DB
	var message Message
	err := db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}
