package store

import (
	"context"
	"fmt"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/people"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
)

// LenderStore is the lenders entity hook.
type LenderStore struct {
	deps
	people *people.Service
}

// LenderUpdate carries the optional fields of a lender update.
type LenderUpdate struct {
	ID             string   `json:"-"`
	Institution    *string  `json:"institution"`
	LoanPrograms   *string  `json:"loanPrograms"`
	MinCreditScore *int     `json:"minCreditScore"`
	MaxLoanAmount  *float64 `json:"maxLoanAmount"`
	InterestRate   *float64 `json:"interestRate"`
	Notes          *string  `json:"notes"`
}

func (u LenderUpdate) applyTo(l models.Lender) models.Lender {
	if u.Institution != nil {
		l.Institution = *u.Institution
	}
	if u.LoanPrograms != nil {
		l.LoanPrograms = *u.LoanPrograms
	}
	if u.MinCreditScore != nil {
		l.MinCreditScore = *u.MinCreditScore
	}
	if u.MaxLoanAmount != nil {
		l.MaxLoanAmount = *u.MaxLoanAmount
	}
	if u.InterestRate != nil {
		l.InterestRate = *u.InterestRate
	}
	if u.Notes != nil {
		l.Notes = *u.Notes
	}
	return l
}

func (s *LenderStore) key(userID string) querycache.Key {
	return querycache.NewKey("lenders", userID)
}

// List returns the user's lenders, cached, with linked people flattened in.
func (s *LenderStore) List(ctx context.Context, userID string) ([]models.Lender, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID), func(ctx context.Context) ([]models.Lender, error) {
		var lenders []models.Lender
		if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&lenders).Error; err != nil {
			return nil, err
		}
		if err := attachPeople(s.db, models.KindLender, lenders,
			func(l *models.Lender) string { return l.ID },
			func(l *models.Lender, primary models.Person, all []models.Person) {
				l.PrimaryPerson, l.People = primary, all
			}); err != nil {
			return nil, err
		}
		return lenders, nil
	})
}

// Get loads one lender with its people flattened.
func (s *LenderStore) Get(ctx context.Context, userID, id string) (models.Lender, error) {
	var lender models.Lender
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&lender).Error; err != nil {
		return models.Lender{}, err
	}
	lenders := []models.Lender{lender}
	if err := attachPeople(s.db, models.KindLender, lenders,
		func(l *models.Lender) string { return l.ID },
		func(l *models.Lender, primary models.Person, all []models.Person) {
			l.PrimaryPerson, l.People = primary, all
		}); err != nil {
		return models.Lender{}, err
	}
	return lenders[0], nil
}

// Create runs person-entity creation through the optimistic controller.
func (s *LenderStore) Create(ctx context.Context, userID string, in people.CreateEntityInput) (models.Lender, error) {
	in.Kind = models.KindLender
	in.UserID = userID

	m := &optimistic.Mutation[models.Lender, people.CreateEntityInput]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, in people.CreateEntityInput) (models.Lender, error) {
			res, err := s.people.CreateEntity(ctx, in)
			if err != nil {
				return models.Lender{}, err
			}
			return s.Get(ctx, userID, res.EntityID)
		},
		AddItem: func(in people.CreateEntityInput) models.Lender {
			l := models.Lender{ID: "pending", UserID: userID}
			if in.Lender != nil {
				l.Institution = in.Lender.Institution
				l.LoanPrograms = in.Lender.LoanPrograms
				l.MinCreditScore = in.Lender.MinCreditScore
				l.MaxLoanAmount = in.Lender.MaxLoanAmount
				l.InterestRate = in.Lender.InterestRate
			}
			l.PrimaryPerson = models.Person{
				FirstName: in.Person.FirstName,
				LastName:  in.Person.LastName,
				Email:     in.Person.Email,
			}
			return l
		},
		OnSuccess: func(data models.Lender, _ people.CreateEntityInput) {
			s.activity.Record(userID, "lender.created", models.KindLender, data.ID,
				fmt.Sprintf("Lender %s added", data.Institution))
		},
	}
	return m.Mutate(ctx, in)
}

// Update applies a partial update through the optimistic controller.
func (s *LenderStore) Update(ctx context.Context, userID string, update LenderUpdate) (models.Lender, error) {
	m := &optimistic.Mutation[models.Lender, LenderUpdate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, u LenderUpdate) (models.Lender, error) {
			var existing models.Lender
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", u.ID, userID).First(&existing).Error; err != nil {
				return models.Lender{}, err
			}
			existing = u.applyTo(existing)
			if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return models.Lender{}, err
			}
			return s.Get(ctx, userID, existing.ID)
		},
		FindItem:   func(l models.Lender, u LenderUpdate) bool { return l.ID == u.ID },
		UpdateItem: func(l models.Lender, u LenderUpdate) models.Lender { return u.applyTo(l) },
		OnSuccess: func(data models.Lender, _ LenderUpdate) {
			s.activity.Record(userID, "lender.updated", models.KindLender, data.ID, "Lender updated")
		},
	}
	return m.Mutate(ctx, update)
}

// Delete removes the lender and its person links through the optimistic
// controller.
func (s *LenderStore) Delete(ctx context.Context, userID, id string) error {
	m := &optimistic.Mutation[models.Lender, string]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Lender, error) {
			var existing models.Lender
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&existing).Error; err != nil {
				return models.Lender{}, err
			}
			if err := s.db.WithContext(ctx).Where("entity_kind = ? AND entity_id = ?", models.KindLender, id).
				Delete(&models.PersonLink{}).Error; err != nil {
				return models.Lender{}, err
			}
			return existing, s.db.WithContext(ctx).Delete(&existing).Error
		},
		RemoveItem: func(l models.Lender, id string) bool { return l.ID == id },
		OnSuccess: func(data models.Lender, id string) {
			s.activity.Record(userID, "lender.deleted", models.KindLender, id, "Lender removed")
		},
	}
	_, err := m.Mutate(ctx, id)
	return err
}
