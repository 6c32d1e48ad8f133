package models

import (
	"gorm.io/gorm"
)

// Activity is an append-only audit row describing a mutation a user performed
type Activity struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Action     string `json:"action" gorm:"not null"` // e.g. "client.created"
	EntityKind string `json:"entityKind" gorm:"column:entity_kind;index"`
	EntityID   string `json:"entityId" gorm:"column:entity_id;index"`
	Detail     string `json:"detail"`
	UserID     string `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Activity Model
func (Activity) TableName() string {
	return "activities"
}

// Notification is an in-app message shown to a user until read
type Notification struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Title   string `json:"title" gorm:"not null"`
	Body    string `json:"body"`
	Read    bool   `json:"read" gorm:"default:false"`
	UserID  string `json:"-" gorm:"column:user_id;index"`
	LinkURL string `json:"linkUrl" gorm:"column:link_url"`
	gorm.Model
}

// TableName specifies the table name for Notification Model
func (Notification) TableName() string {
	return "notifications"
}
