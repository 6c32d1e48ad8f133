// Package activity writes the best-effort audit trail: an activity row, an
// in-app notification, and a websocket push after each successful primary
// mutation. Failures here are logged and swallowed; they never fail the
// mutation that triggered them and are never rolled back.
package activity

import (
	"encoding/json"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Logger records activities and notifications for a user.
type Logger struct {
	db  *gorm.DB
	hub *realtime.Hub
	log *zap.Logger
}

// NewLogger constructs a Logger. hub may be nil when no push channel exists.
func NewLogger(db *gorm.DB, hub *realtime.Hub, log *zap.Logger) *Logger {
	return &Logger{db: db, hub: hub, log: log}
}

// Record writes the activity row and a matching notification, then pushes
// the notification to the user's open websockets.
func (l *Logger) Record(userID, action string, entityKind models.EntityKind, entityID, detail string) {
	act := models.Activity{
		ID:         uuid.NewString(),
		Action:     action,
		EntityKind: string(entityKind),
		EntityID:   entityID,
		Detail:     detail,
		UserID:     userID,
	}
	if err := l.db.Create(&act).Error; err != nil {
		l.log.Error("activity write failed",
			zap.String("action", action), zap.String("entity", entityID), zap.Error(err))
	}

	note := models.Notification{
		ID:     uuid.NewString(),
		Title:  action,
		Body:   detail,
		UserID: userID,
	}
	if err := l.db.Create(&note).Error; err != nil {
		l.log.Error("notification write failed",
			zap.String("action", action), zap.Error(err))
		return
	}
	l.push(userID, note)
}

func (l *Logger) push(userID string, note models.Notification) {
	if l.hub == nil {
		return
	}
	evt := map[string]any{
		"type":         "notification",
		"notification": note,
	}
	if payload, err := json.Marshal(evt); err == nil {
		l.hub.Broadcast(userID, payload)
	}
}
