package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultConversationTitle = "New Conversation"

// TitleFromMessage derives a conversation title from its first message:
// the first 50 characters, with an ellipsis when truncated.
func TitleFromMessage(message string) string {
	runes := []rune(message)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return message
}

type Conversation struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Owner     Owner     `gorm:"embedded" json:"-"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
	Messages  []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Title == "" {
		c.Title = DefaultConversationTitle
	}
	return nil
}

func CreateConversation(conversation *Conversation) error {
	db := platform.DB
	if err := db.Create(conversation).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// GetConversation fetches a conversation by id scoped to its owner. A foreign
// owner's conversation is indistinguishable from a missing one.
func GetConversation(id string, owner Owner) (*Conversation, error) {
	db := platform.DB
	var conversation Conversation
	err := db.Where("id = ? AND owner_kind = ? AND owner_id = ?", id, owner.OwnerKind, owner.OwnerID).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &conversation, nil
}

// GetConversationList returns the owner's conversations, most recently
// updated first.
func GetConversationList(owner Owner) ([]Conversation, error) {
	db := platform.DB
	var conversations []Conversation
	err := db.Where("owner_kind = ? AND owner_id = ?", owner.OwnerKind, owner.OwnerID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}
	return conversations, nil
}

func DeleteConversation(id string, owner Owner) error {
	db := platform.DB
	conversation, err := GetConversation(id, owner)
	if err != nil {
		return err
	}
	// messages go with the conversation
	if err := db.Where("conversation_id = ?", conversation.ID).Delete(&Message{}).Error; err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if err := db.Delete(conversation).Error; err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// DeleteGuestConversationsBefore removes guest-owned conversations that have
// not been updated since the cutoff, together with their messages. Used by
// the scheduled purge task.
func DeleteGuestConversationsBefore(cutoff time.Time) (int64, error) {
	db := platform.DB
	var stale []Conversation
	err := db.Where("owner_kind = ? AND updated_at < ?", OwnerKindGuest, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, fmt.Errorf("failed to fetch stale guest conversations: %w", err)
	}
	for _, conversation := range stale {
		if err := db.Where("conversation_id = ?", conversation.ID).Delete(&Message{}).Error; err != nil {
			return 0, fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := db.Delete(&conversation).Error; err != nil {
			return 0, fmt.Errorf("failed to delete conversation: %w", err)
		}
	}
	return int64(len(stale)), nil
}
