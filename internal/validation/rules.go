// Package validation holds the field-level rule sets evaluated before any
// write is attempted. Each entity kind carries its own variant of optional
// fields, so rules are grouped per kind rather than switched over one bag.
package validation

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// PersonInput is the shared contact-identity fields.
type PersonInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

// Validate checks the person identity fields.
func (p PersonInput) Validate() error {
	return wrap(validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Required),
		validation.Field(&p.LastName, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
	))
}

// ClientFields is the client-kind variant of the role field bag.
type ClientFields struct {
	AnnualIncome   float64 `json:"annualIncome"`
	CreditScore    int     `json:"creditScore"`
	EmploymentType string  `json:"employmentType"`
	Notes          string  `json:"notes"`
}

// Validate enforces the client-specific range checks.
func (c ClientFields) Validate() error {
	return wrap(validation.ValidateStruct(&c,
		validation.Field(&c.AnnualIncome, validation.Min(0.0).Error("annual income must not be negative")),
		validation.Field(&c.CreditScore,
			validation.Min(300).Error("credit score must be between 300 and 850"),
			validation.Max(850).Error("credit score must be between 300 and 850"),
		),
	))
}

// LenderFields is the lender-kind variant of the role field bag.
type LenderFields struct {
	Institution    string  `json:"institution"`
	LoanPrograms   string  `json:"loanPrograms"`
	MinCreditScore int     `json:"minCreditScore"`
	MaxLoanAmount  float64 `json:"maxLoanAmount"`
	InterestRate   float64 `json:"interestRate"`
	Notes          string  `json:"notes"`
}

// Validate enforces the lender-specific rules.
func (l LenderFields) Validate() error {
	return wrap(validation.ValidateStruct(&l,
		validation.Field(&l.Institution, validation.Required.Error("institution is required")),
		validation.Field(&l.MinCreditScore,
			validation.Min(0).Error("minimum credit score must not be negative"),
			validation.Max(850).Error("minimum credit score must be at most 850"),
		),
		validation.Field(&l.MaxLoanAmount, validation.Min(0.0).Error("maximum loan amount must not be negative")),
		validation.Field(&l.InterestRate,
			validation.Min(0.0).Error("interest rate must not be negative"),
			validation.Max(100.0).Error("interest rate must be a percentage"),
		),
	))
}

// RealtorFields is the realtor-kind variant of the role field bag.
type RealtorFields struct {
	Brokerage       string `json:"brokerage"`
	LicenseNumber   string `json:"licenseNumber"`
	YearsExperience int    `json:"yearsExperience"`
	Notes           string `json:"notes"`
}

// Validate enforces the realtor-specific rules.
func (r RealtorFields) Validate() error {
	return wrap(validation.ValidateStruct(&r,
		validation.Field(&r.YearsExperience,
			validation.Min(0).Error("years of experience must not be negative"),
			validation.Max(80).Error("years of experience must be at most 80"),
		),
	))
}

// wrap flattens ozzo's per-field error map into one aggregated message, the
// shape callers surface directly to the user. ozzo already renders the map
// with sorted field names.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(validation.Errors); ok {
		return fmt.Errorf("validation failed: %s", err.Error())
	}
	return err
}
