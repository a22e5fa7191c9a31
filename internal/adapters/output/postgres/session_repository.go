package postgres

import (
	"context"
	"fmt"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Compile-time check to ensure SessionRepository implements SessionStore interface
var _ output.SessionStore = (*SessionRepository)(nil)

// SessionRepository struct - Secondary/Driven adapter persisting chat history in PostgreSQL
type SessionRepository struct {
	dbGorm *gorm.DB
}

// NewSessionRepository func - Creates new PostgreSQL session repository
func NewSessionRepository(dbGorm *gorm.DB) (*SessionRepository, error) {
	logrus.Info("Migrate database ...")
	if err := domain.MigrateDatabase(dbGorm); err != nil {
		return nil, fmt.Errorf("failed to migrate chat history: %w", err)
	}
	return &SessionRepository{
		dbGorm: dbGorm,
	}, nil
}

// GetHistory func - Retrieves the session's messages, oldest first
func (p *SessionRepository) GetHistory(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	var records []domain.ChatMessageRecord

	err := p.dbGorm.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&records).Error
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	history := make([]domain.ChatMessage, 0, len(records))
	for i := range records {
		history = append(history, records[i].ChatMessage())
	}
	return history, nil
}

// AppendMessages func - Appends messages after the session's last position in one transaction
func (p *SessionRepository) AppendMessages(ctx context.Context, sessionID string, messages ...domain.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	return p.dbGorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int64
		if err := tx.Model(&domain.ChatMessageRecord{}).
			Where("session_id = ?", sessionID).
			Count(&next).Error; err != nil {
			logrus.Errorln(err)
			return err
		}

		records := make([]domain.ChatMessageRecord, 0, len(messages))
		for i, msg := range messages {
			records = append(records, domain.ChatMessageRecord{
				SessionID: sessionID,
				Position:  int(next) + i,
				Role:      msg.Role,
				Content:   msg.Content,
			})
		}

		if err := tx.Create(&records).Error; err != nil {
			logrus.Errorln(err)
			return err
		}
		return nil
	})
}

// SessionIDs func - Lists the keys of sessions with stored history
func (p *SessionRepository) SessionIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := p.dbGorm.WithContext(ctx).
		Model(&domain.ChatMessageRecord{}).
		Distinct("session_id").
		Order("session_id").
		Pluck("session_id", &ids).Error
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return ids, nil
}
