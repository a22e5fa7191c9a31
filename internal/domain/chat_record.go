package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessageRecord struct - persisted chat history entry
type ChatMessageRecord struct {
	ID        *uuid.UUID      `gorm:"type:uuid;primary_key;"`
	SessionID string          `gorm:"type:varchar(255);not null;index:idx_chat_messages_session_position,priority:1"`
	Position  int             `gorm:"not null;index:idx_chat_messages_session_position,priority:2"`
	Role      ChatMessageRole `gorm:"type:varchar(16);not null;"`
	Content   string          `gorm:"type:TEXT;not null;"`
	CreatedAt *time.Time      `gorm:"type:timestamp"`
}

// TableName func
func (r *ChatMessageRecord) TableName() string {
	return "chat_messages"
}

// BeforeCreate hook - generates UUID before creating
func (r *ChatMessageRecord) BeforeCreate(tx *gorm.DB) (err error) {
	id, err := uuid.NewRandom() // v4
	if err != nil {
		return err
	}
	r.ID = &id
	return nil
}

// ChatMessage converts the record to its domain message
func (r *ChatMessageRecord) ChatMessage() ChatMessage {
	return ChatMessage{Role: r.Role, Content: r.Content}
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	return db.AutoMigrate(&ChatMessageRecord{})
}
