package models

import (
	"gorm.io/gorm"
)

// LoanStatus represents the kanban column a loan occupies
type LoanStatus string

const (
	LoanStatusInquiry      LoanStatus = "inquiry"
	LoanStatusPreApproval  LoanStatus = "pre_approval"
	LoanStatusApplication  LoanStatus = "application"
	LoanStatusProcessing   LoanStatus = "processing"
	LoanStatusUnderwriting LoanStatus = "underwriting"
	LoanStatusApproved     LoanStatus = "approved"
	LoanStatusClosed       LoanStatus = "closed"
	LoanStatusDenied       LoanStatus = "denied"
)

// LoanType represents the mortgage product type
type LoanType string

const (
	LoanTypeConventional LoanType = "conventional"
	LoanTypeFHA          LoanType = "fha"
	LoanTypeVA           LoanType = "va"
	LoanTypeJumbo        LoanType = "jumbo"
)

// Loan represents a mortgage application moving through the pipeline
type Loan struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	ClientID     string     `json:"clientId" gorm:"column:client_id;index;not null"`
	LenderID     string     `json:"lenderId" gorm:"column:lender_id;index"`
	RealtorID    string     `json:"realtorId" gorm:"column:realtor_id;index"`
	Amount       float64    `json:"amount" gorm:"not null"`
	LoanType     LoanType   `json:"loanType" gorm:"column:loan_type;default:'conventional'"`
	Purpose      string     `json:"purpose"`
	Status       LoanStatus `json:"status" gorm:"not null;default:'inquiry'"`
	InterestRate float64    `json:"interestRate" gorm:"column:interest_rate"`
	TermMonths   int        `json:"termMonths" gorm:"column:term_months;default:360"`
	PropertyAddr string     `json:"propertyAddress" gorm:"column:property_address"`
	SortOrder    int        `json:"sortOrder" gorm:"column:sort_order;default:0"`
	UserID       string     `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Loan Model
func (Loan) TableName() string {
	return "loans"
}

// OpportunityStage represents the kanban column an opportunity occupies
type OpportunityStage string

const (
	StageNew         OpportunityStage = "new"
	StageContacted   OpportunityStage = "contacted"
	StageQualified   OpportunityStage = "qualified"
	StageProposal    OpportunityStage = "proposal"
	StageNegotiation OpportunityStage = "negotiation"
	StageWon         OpportunityStage = "won"
	StageLost        OpportunityStage = "lost"
)

// Opportunity represents a pre-loan sales opportunity
type Opportunity struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	ClientID  string           `json:"clientId" gorm:"column:client_id;index"`
	Title     string           `json:"title" gorm:"not null"`
	Stage     OpportunityStage `json:"stage" gorm:"not null;default:'new'"`
	Value     float64          `json:"value"`
	Source    string           `json:"source"`
	Notes     string           `json:"notes"`
	SortOrder int              `json:"sortOrder" gorm:"column:sort_order;default:0"`
	UserID    string           `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Opportunity Model
func (Opportunity) TableName() string {
	return "opportunities"
}
