package models

import (
	"gorm.io/gorm"
)

// DocumentStatus represents the review state of an uploaded document
type DocumentStatus string

const (
	DocStatusPending  DocumentStatus = "pending"
	DocStatusReceived DocumentStatus = "received"
	DocStatusReviewed DocumentStatus = "reviewed"
)

// DocumentCategory groups documents for the per-loan checklist
type DocumentCategory string

const (
	CategoryIncome     DocumentCategory = "income"
	CategoryAssets     DocumentCategory = "assets"
	CategoryCredit     DocumentCategory = "credit"
	CategoryProperty   DocumentCategory = "property"
	CategoryIdentity   DocumentCategory = "identity"
	CategoryDisclosure DocumentCategory = "disclosure"
	CategoryLender     DocumentCategory = "lender"
)

// RequiredCategories is the checklist a loan file must cover before underwriting.
func RequiredCategories() []DocumentCategory {
	return []DocumentCategory{
		CategoryIncome,
		CategoryAssets,
		CategoryCredit,
		CategoryProperty,
		CategoryIdentity,
		CategoryDisclosure,
	}
}

// Document is the metadata row for a stored file; bytes live in the object store
type Document struct {
	ID          string           `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"not null"`
	Category    DocumentCategory `json:"category" gorm:"not null"`
	Status      DocumentStatus   `json:"status" gorm:"not null;default:'pending'"`
	LoanID      string           `json:"loanId" gorm:"column:loan_id;index"`
	ClientID    string           `json:"clientId" gorm:"column:client_id;index"`
	LenderID    string           `json:"lenderId" gorm:"column:lender_id;index"`
	StoragePath string           `json:"storagePath" gorm:"column:storage_path"`
	SizeBytes   int64            `json:"sizeBytes" gorm:"column:size_bytes"`
	ContentType string           `json:"contentType" gorm:"column:content_type"`
	UserID      string           `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Document Model
func (Document) TableName() string {
	return "documents"
}
