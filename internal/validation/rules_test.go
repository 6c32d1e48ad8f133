package validation

import (
	"strings"
	"testing"
)

func TestPersonInput_Validate(t *testing.T) {
	valid := PersonInput{FirstName: "Jordan", LastName: "Lee", Email: "jordan@example.com"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid person rejected: %v", err)
	}

	missing := PersonInput{FirstName: "Jordan"}
	err := missing.Validate()
	if err == nil {
		t.Fatal("expected error for missing last name and email")
	}
	if !strings.HasPrefix(err.Error(), "validation failed") {
		t.Fatalf("unexpected error shape: %v", err)
	}

	badEmail := PersonInput{FirstName: "Jordan", LastName: "Lee", Email: "not-an-email"}
	if err := badEmail.Validate(); err == nil {
		t.Fatal("expected error for malformed email")
	}
}

func TestClientFields_Validate(t *testing.T) {
	ok := ClientFields{AnnualIncome: 85000, CreditScore: 720}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid client fields rejected: %v", err)
	}

	// Zero values mean "not provided" and pass the range checks.
	if err := (ClientFields{}).Validate(); err != nil {
		t.Fatalf("empty client fields rejected: %v", err)
	}

	tooHigh := ClientFields{CreditScore: 900}
	err := tooHigh.Validate()
	if err == nil {
		t.Fatal("expected error for credit score 900")
	}
	if !strings.Contains(err.Error(), "credit score must be between 300 and 850") {
		t.Fatalf("unexpected message: %v", err)
	}

	tooLow := ClientFields{CreditScore: 250}
	if err := tooLow.Validate(); err == nil {
		t.Fatal("expected error for credit score 250")
	}

	negative := ClientFields{AnnualIncome: -1000}
	err = negative.Validate()
	if err == nil {
		t.Fatal("expected error for negative income")
	}
	if !strings.Contains(err.Error(), "annual income must not be negative") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestLenderFields_Validate(t *testing.T) {
	ok := LenderFields{Institution: "First National", MinCreditScore: 620, MaxLoanAmount: 1200000, InterestRate: 6.25}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid lender fields rejected: %v", err)
	}

	if err := (LenderFields{}).Validate(); err == nil {
		t.Fatal("expected error for missing institution")
	}

	badRate := LenderFields{Institution: "First National", InterestRate: 140}
	if err := badRate.Validate(); err == nil {
		t.Fatal("expected error for interest rate over 100")
	}
}

func TestRealtorFields_Validate(t *testing.T) {
	ok := RealtorFields{Brokerage: "Summit Realty", YearsExperience: 12}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid realtor fields rejected: %v", err)
	}

	if err := (RealtorFields{YearsExperience: 95}).Validate(); err == nil {
		t.Fatal("expected error for 95 years of experience")
	}
	if err := (RealtorFields{YearsExperience: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative experience")
	}
}
