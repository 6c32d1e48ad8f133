package models

import (
	"gorm.io/gorm"
)

// ClientStatus represents where a client sits in the intake funnel
type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "lead"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// Client is a borrower record; identity fields live on the linked Person
type Client struct {
	ID              string       `json:"id" gorm:"primaryKey"`
	PrimaryPersonID string       `json:"-" gorm:"column:primary_person_id;index"`
	Status          ClientStatus `json:"status" gorm:"not null;default:'lead'"`
	AnnualIncome    float64      `json:"annualIncome" gorm:"column:annual_income"`
	CreditScore     int          `json:"creditScore" gorm:"column:credit_score"`
	EmploymentType  string       `json:"employmentType" gorm:"column:employment_type"`
	Notes           string       `json:"notes"`
	UserID          string       `json:"-" gorm:"column:user_id;index"`

	// Flattened from person_links on read; never persisted directly.
	PrimaryPerson Person   `json:"primaryPerson" gorm:"-"`
	People        []Person `json:"people" gorm:"-"`
	gorm.Model
}

// TableName specifies the table name for Client Model
func (Client) TableName() string {
	return "clients"
}

// Lender is a lending institution contact
type Lender struct {
	ID              string  `json:"id" gorm:"primaryKey"`
	PrimaryPersonID string  `json:"-" gorm:"column:primary_person_id;index"`
	Institution     string  `json:"institution" gorm:"not null"`
	LoanPrograms    string  `json:"loanPrograms" gorm:"column:loan_programs"`
	MinCreditScore  int     `json:"minCreditScore" gorm:"column:min_credit_score"`
	MaxLoanAmount   float64 `json:"maxLoanAmount" gorm:"column:max_loan_amount"`
	InterestRate    float64 `json:"interestRate" gorm:"column:interest_rate"`
	Notes           string  `json:"notes"`
	UserID          string  `json:"-" gorm:"column:user_id;index"`

	PrimaryPerson Person   `json:"primaryPerson" gorm:"-"`
	People        []Person `json:"people" gorm:"-"`
	gorm.Model
}

// TableName specifies the table name for Lender Model
func (Lender) TableName() string {
	return "lenders"
}

// Realtor is a referral-partner real estate agent
type Realtor struct {
	ID              string `json:"id" gorm:"primaryKey"`
	PrimaryPersonID string `json:"-" gorm:"column:primary_person_id;index"`
	Brokerage       string `json:"brokerage"`
	LicenseNumber   string `json:"licenseNumber" gorm:"column:license_number"`
	YearsExperience int    `json:"yearsExperience" gorm:"column:years_experience"`
	Notes           string `json:"notes"`
	UserID          string `json:"-" gorm:"column:user_id;index"`

	PrimaryPerson Person   `json:"primaryPerson" gorm:"-"`
	People        []Person `json:"people" gorm:"-"`
	gorm.Model
}

// TableName specifies the table name for Realtor Model
func (Realtor) TableName() string {
	return "realtors"
}
