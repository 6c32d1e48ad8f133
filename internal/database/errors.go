package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// UserMessage maps a database error to a string safe to show in a toast.
// SQLite surfaces constraint failures as string-coded errors; we pattern-match
// the known codes and fall back to a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Record not found"
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return "A record with these details already exists"
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return "A referenced record does not exist or is still in use"
	case strings.Contains(msg, "CHECK constraint failed"):
		return "One of the values is outside the allowed range"
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return "A required field is missing"
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "readonly database"):
		return "You do not have permission to perform this action"
	default:
		return "Something went wrong, please try again"
	}
}

// IsNotFound reports whether err is the ORM's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
