package store

import (
	"context"
	"fmt"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"

	"github.com/google/uuid"
)

// LoanStore is the loans entity hook.
type LoanStore struct {
	deps
}

// LoanCreate carries the fields for a new loan.
type LoanCreate struct {
	ClientID     string          `json:"clientId" binding:"required"`
	LenderID     string          `json:"lenderId"`
	RealtorID    string          `json:"realtorId"`
	Amount       float64         `json:"amount" binding:"required"`
	LoanType     models.LoanType `json:"loanType"`
	Purpose      string          `json:"purpose"`
	InterestRate float64         `json:"interestRate"`
	TermMonths   int             `json:"termMonths"`
	PropertyAddr string          `json:"propertyAddress"`
}

// LoanUpdate carries the optional fields of a loan update.
type LoanUpdate struct {
	ID           string             `json:"-"`
	LenderID     *string            `json:"lenderId"`
	RealtorID    *string            `json:"realtorId"`
	Amount       *float64           `json:"amount"`
	LoanType     *models.LoanType   `json:"loanType"`
	Purpose      *string            `json:"purpose"`
	Status       *models.LoanStatus `json:"status"`
	InterestRate *float64           `json:"interestRate"`
	TermMonths   *int               `json:"termMonths"`
	PropertyAddr *string            `json:"propertyAddress"`
	SortOrder    *int               `json:"sortOrder"`
}

func (u LoanUpdate) applyTo(l models.Loan) models.Loan {
	if u.LenderID != nil {
		l.LenderID = *u.LenderID
	}
	if u.RealtorID != nil {
		l.RealtorID = *u.RealtorID
	}
	if u.Amount != nil {
		l.Amount = *u.Amount
	}
	if u.LoanType != nil {
		l.LoanType = *u.LoanType
	}
	if u.Purpose != nil {
		l.Purpose = *u.Purpose
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
	if u.InterestRate != nil {
		l.InterestRate = *u.InterestRate
	}
	if u.TermMonths != nil {
		l.TermMonths = *u.TermMonths
	}
	if u.PropertyAddr != nil {
		l.PropertyAddr = *u.PropertyAddr
	}
	if u.SortOrder != nil {
		l.SortOrder = *u.SortOrder
	}
	return l
}

func (s *LoanStore) key(userID string) querycache.Key {
	return querycache.NewKey("loans", userID)
}

// List returns the user's loans, cached, ordered for the board.
func (s *LoanStore) List(ctx context.Context, userID string) ([]models.Loan, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID), func(ctx context.Context) ([]models.Loan, error) {
		var loans []models.Loan
		err := s.db.WithContext(ctx).Where("user_id = ?", userID).
			Order("sort_order asc, created_at desc").Find(&loans).Error
		return loans, err
	})
}

// Create inserts a loan through the optimistic controller.
func (s *LoanStore) Create(ctx context.Context, userID string, in LoanCreate) (models.Loan, error) {
	m := &optimistic.Mutation[models.Loan, LoanCreate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, in LoanCreate) (models.Loan, error) {
			loanType := in.LoanType
			if loanType == "" {
				loanType = models.LoanTypeConventional
			}
			termMonths := in.TermMonths
			if termMonths == 0 {
				termMonths = 360
			}
			loan := models.Loan{
				ID:           uuid.NewString(),
				ClientID:     in.ClientID,
				LenderID:     in.LenderID,
				RealtorID:    in.RealtorID,
				Amount:       in.Amount,
				LoanType:     loanType,
				Purpose:      in.Purpose,
				Status:       models.LoanStatusInquiry,
				InterestRate: in.InterestRate,
				TermMonths:   termMonths,
				PropertyAddr: in.PropertyAddr,
				UserID:       userID,
			}
			return loan, s.db.WithContext(ctx).Create(&loan).Error
		},
		AddItem: func(in LoanCreate) models.Loan {
			return models.Loan{
				ID:       "pending",
				ClientID: in.ClientID,
				Amount:   in.Amount,
				Status:   models.LoanStatusInquiry,
				UserID:   userID,
			}
		},
		OnSuccess: func(data models.Loan, _ LoanCreate) {
			s.activity.Record(userID, "loan.created", "loan", data.ID,
				fmt.Sprintf("Loan for $%.0f opened", data.Amount))
		},
	}
	return m.Mutate(ctx, in)
}

// Update applies a partial update through the optimistic controller.
func (s *LoanStore) Update(ctx context.Context, userID string, update LoanUpdate) (models.Loan, error) {
	m := &optimistic.Mutation[models.Loan, LoanUpdate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, u LoanUpdate) (models.Loan, error) {
			var existing models.Loan
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", u.ID, userID).First(&existing).Error; err != nil {
				return models.Loan{}, err
			}
			existing = u.applyTo(existing)
			return existing, s.db.WithContext(ctx).Save(&existing).Error
		},
		FindItem:   func(l models.Loan, u LoanUpdate) bool { return l.ID == u.ID },
		UpdateItem: func(l models.Loan, u LoanUpdate) models.Loan { return u.applyTo(l) },
		OnSuccess: func(data models.Loan, _ LoanUpdate) {
			s.activity.Record(userID, "loan.updated", "loan", data.ID, "Loan updated")
		},
	}
	return m.Mutate(ctx, update)
}

// Delete removes a loan through the optimistic controller.
func (s *LoanStore) Delete(ctx context.Context, userID, id string) error {
	m := &optimistic.Mutation[models.Loan, string]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Loan, error) {
			var existing models.Loan
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&existing).Error; err != nil {
				return models.Loan{}, err
			}
			return existing, s.db.WithContext(ctx).Delete(&existing).Error
		},
		RemoveItem: func(l models.Loan, id string) bool { return l.ID == id },
		OnSuccess: func(data models.Loan, id string) {
			s.activity.Record(userID, "loan.deleted", "loan", id, "Loan removed")
		},
	}
	_, err := m.Mutate(ctx, id)
	return err
}

// Move implements the board drop: when the target column differs from the
// loan's current status it becomes a status update mutation, otherwise only
// the in-column sort order is persisted.
func (s *LoanStore) Move(ctx context.Context, userID, id string, column models.LoanStatus, sortOrder int) (models.Loan, error) {
	if !validLoanStatus(column) {
		return models.Loan{}, fmt.Errorf("unknown loan column %q", column)
	}
	var current models.Loan
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&current).Error; err != nil {
		return models.Loan{}, err
	}

	update := LoanUpdate{ID: id, SortOrder: &sortOrder}
	if current.Status != column {
		update.Status = &column
	}
	return s.Update(ctx, userID, update)
}

func validLoanStatus(s models.LoanStatus) bool {
	switch s {
	case models.LoanStatusInquiry, models.LoanStatusPreApproval, models.LoanStatusApplication,
		models.LoanStatusProcessing, models.LoanStatusUnderwriting, models.LoanStatusApproved,
		models.LoanStatusClosed, models.LoanStatusDenied:
		return true
	}
	return false
}
