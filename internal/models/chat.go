package models

import (
	"gorm.io/gorm"
)

// MessageRole distinguishes who authored a chat message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Conversation groups chat messages and pins the grounding context:
// one selected client plus a comma-separated set of selected lender ids.
type Conversation struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Title     string `json:"title"`
	ClientID  string `json:"clientId" gorm:"column:client_id;index"`
	LenderIDs string `json:"lenderIds" gorm:"column:lender_ids"`
	UserID    string `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Conversation Model
func (Conversation) TableName() string {
	return "conversations"
}

// Message is a single chat turn within a conversation
type Message struct {
	ID             string      `json:"id" gorm:"primaryKey"`
	ConversationID string      `json:"conversationId" gorm:"column:conversation_id;index;not null"`
	Role           MessageRole `json:"role" gorm:"not null"`
	Content        string      `json:"content" gorm:"not null"`
	UserID         string      `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Message Model
func (Message) TableName() string {
	return "messages"
}
