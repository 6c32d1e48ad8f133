package models

import (
	"gorm.io/gorm"
)

// Note is a free-form annotation attached to any CRM entity
type Note struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Content    string `json:"content" gorm:"not null"`
	EntityKind string `json:"entityKind" gorm:"column:entity_kind;index"`
	EntityID   string `json:"entityId" gorm:"column:entity_id;index"`
	UserID     string `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Note Model
func (Note) TableName() string {
	return "notes"
}

// TodoStatus represents the completion state of a todo
type TodoStatus string

const (
	TodoOpen TodoStatus = "open"
	TodoDone TodoStatus = "done"
)

// TodoPriority represents the urgency of a todo
type TodoPriority string

const (
	TodoPriorityHigh   TodoPriority = "high"
	TodoPriorityMedium TodoPriority = "medium"
	TodoPriorityLow    TodoPriority = "low"
)

// Todo is a follow-up task for the broker
type Todo struct {
	ID       string       `json:"id" gorm:"primaryKey"`
	Title    string       `json:"title" gorm:"not null"`
	Status   TodoStatus   `json:"status" gorm:"not null;default:'open'"`
	Priority TodoPriority `json:"priority" gorm:"default:'medium'"`
	DueDate  string       `json:"dueDate" gorm:"column:due_date"`
	ClientID string       `json:"clientId" gorm:"column:client_id;index"`
	UserID   string       `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Todo Model
func (Todo) TableName() string {
	return "todos"
}
