package models

import (
	"gorm.io/gorm"
)

// EntityKind tags which role table a person is linked to
type EntityKind string

const (
	KindClient  EntityKind = "client"
	KindLender  EntityKind = "lender"
	KindRealtor EntityKind = "realtor"
)

// Person is the shared contact identity referenced by clients, lenders and realtors
type Person struct {
	ID        string `json:"id" gorm:"primaryKey"`
	FirstName string `json:"firstName" gorm:"column:first_name;not null"`
	LastName  string `json:"lastName" gorm:"column:last_name;not null"`
	Email     string `json:"email" gorm:"index"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode" gorm:"column:zip_code"`
	UserID    string `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Person Model
func (Person) TableName() string {
	return "people"
}

// PersonLink is the join row attaching a person to a role-specific record.
// IsPrimary marks the person returned as the entity's primary contact.
type PersonLink struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	PersonID   string     `json:"personId" gorm:"column:person_id;index;not null"`
	EntityKind EntityKind `json:"entityKind" gorm:"column:entity_kind;not null"`
	EntityID   string     `json:"entityId" gorm:"column:entity_id;index;not null"`
	IsPrimary  bool       `json:"isPrimary" gorm:"column:is_primary"`
	gorm.Model
}

// TableName specifies the table name for PersonLink Model
func (PersonLink) TableName() string {
	return "person_links"
}
