package models

import (
	"gorm.io/gorm"
)

// User represents a broker account that can sign in to the CRM
type User struct {
	ID           string `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"unique;not null"`
	FullName     string `json:"fullName" gorm:"column:full_name"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
