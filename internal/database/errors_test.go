package database

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{gorm.ErrRecordNotFound, "Record not found"},
		{fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound), "Record not found"},
		{errors.New("UNIQUE constraint failed: users.email"), "A record with these details already exists"},
		{errors.New("FOREIGN KEY constraint failed"), "A referenced record does not exist or is still in use"},
		{errors.New("CHECK constraint failed: credit_score"), "One of the values is outside the allowed range"},
		{errors.New("NOT NULL constraint failed: loans.client_id"), "A required field is missing"},
		{errors.New("attempt to write a readonly database"), "You do not have permission to perform this action"},
		{errors.New("disk I/O error"), "Something went wrong, please try again"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err); got != tc.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Fatal("expected true for ErrRecordNotFound")
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected true for wrapped ErrRecordNotFound")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatal("expected false for unrelated error")
	}
}
