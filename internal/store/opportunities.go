package store

import (
	"context"
	"fmt"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"

	"github.com/google/uuid"
)

// OpportunityStore is the opportunities entity hook.
type OpportunityStore struct {
	deps
}

// OpportunityCreate carries the fields for a new opportunity.
type OpportunityCreate struct {
	ClientID string  `json:"clientId"`
	Title    string  `json:"title" binding:"required"`
	Value    float64 `json:"value"`
	Source   string  `json:"source"`
	Notes    string  `json:"notes"`
}

// OpportunityUpdate carries the optional fields of an opportunity update.
type OpportunityUpdate struct {
	ID        string                   `json:"-"`
	ClientID  *string                  `json:"clientId"`
	Title     *string                  `json:"title"`
	Stage     *models.OpportunityStage `json:"stage"`
	Value     *float64                 `json:"value"`
	Source    *string                  `json:"source"`
	Notes     *string                  `json:"notes"`
	SortOrder *int                     `json:"sortOrder"`
}

func (u OpportunityUpdate) applyTo(o models.Opportunity) models.Opportunity {
	if u.ClientID != nil {
		o.ClientID = *u.ClientID
	}
	if u.Title != nil {
		o.Title = *u.Title
	}
	if u.Stage != nil {
		o.Stage = *u.Stage
	}
	if u.Value != nil {
		o.Value = *u.Value
	}
	if u.Source != nil {
		o.Source = *u.Source
	}
	if u.Notes != nil {
		o.Notes = *u.Notes
	}
	if u.SortOrder != nil {
		o.SortOrder = *u.SortOrder
	}
	return o
}

func (s *OpportunityStore) key(userID string) querycache.Key {
	return querycache.NewKey("opportunities", userID)
}

// List returns the user's opportunities, cached, ordered for the board.
func (s *OpportunityStore) List(ctx context.Context, userID string) ([]models.Opportunity, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID), func(ctx context.Context) ([]models.Opportunity, error) {
		var opps []models.Opportunity
		err := s.db.WithContext(ctx).Where("user_id = ?", userID).
			Order("sort_order asc, created_at desc").Find(&opps).Error
		return opps, err
	})
}

// Create inserts an opportunity through the optimistic controller.
func (s *OpportunityStore) Create(ctx context.Context, userID string, in OpportunityCreate) (models.Opportunity, error) {
	m := &optimistic.Mutation[models.Opportunity, OpportunityCreate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, in OpportunityCreate) (models.Opportunity, error) {
			opp := models.Opportunity{
				ID:       uuid.NewString(),
				ClientID: in.ClientID,
				Title:    in.Title,
				Stage:    models.StageNew,
				Value:    in.Value,
				Source:   in.Source,
				Notes:    in.Notes,
				UserID:   userID,
			}
			return opp, s.db.WithContext(ctx).Create(&opp).Error
		},
		AddItem: func(in OpportunityCreate) models.Opportunity {
			return models.Opportunity{
				ID:       "pending",
				ClientID: in.ClientID,
				Title:    in.Title,
				Stage:    models.StageNew,
				Value:    in.Value,
				UserID:   userID,
			}
		},
		OnSuccess: func(data models.Opportunity, _ OpportunityCreate) {
			s.activity.Record(userID, "opportunity.created", "opportunity", data.ID,
				fmt.Sprintf("Opportunity %q added", data.Title))
		},
	}
	return m.Mutate(ctx, in)
}

// Update applies a partial update through the optimistic controller.
func (s *OpportunityStore) Update(ctx context.Context, userID string, update OpportunityUpdate) (models.Opportunity, error) {
	m := &optimistic.Mutation[models.Opportunity, OpportunityUpdate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, u OpportunityUpdate) (models.Opportunity, error) {
			var existing models.Opportunity
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", u.ID, userID).First(&existing).Error; err != nil {
				return models.Opportunity{}, err
			}
			existing = u.applyTo(existing)
			return existing, s.db.WithContext(ctx).Save(&existing).Error
		},
		FindItem:   func(o models.Opportunity, u OpportunityUpdate) bool { return o.ID == u.ID },
		UpdateItem: func(o models.Opportunity, u OpportunityUpdate) models.Opportunity { return u.applyTo(o) },
		OnSuccess: func(data models.Opportunity, _ OpportunityUpdate) {
			s.activity.Record(userID, "opportunity.updated", "opportunity", data.ID, "Opportunity updated")
		},
	}
	return m.Mutate(ctx, update)
}

// Delete removes an opportunity through the optimistic controller.
func (s *OpportunityStore) Delete(ctx context.Context, userID, id string) error {
	m := &optimistic.Mutation[models.Opportunity, string]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Opportunity, error) {
			var existing models.Opportunity
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&existing).Error; err != nil {
				return models.Opportunity{}, err
			}
			return existing, s.db.WithContext(ctx).Delete(&existing).Error
		},
		RemoveItem: func(o models.Opportunity, id string) bool { return o.ID == id },
		OnSuccess: func(data models.Opportunity, id string) {
			s.activity.Record(userID, "opportunity.deleted", "opportunity", id, "Opportunity removed")
		},
	}
	_, err := m.Mutate(ctx, id)
	return err
}

// Move implements the board drop for opportunities, mirroring loans.
func (s *OpportunityStore) Move(ctx context.Context, userID, id string, column models.OpportunityStage, sortOrder int) (models.Opportunity, error) {
	if !validStage(column) {
		return models.Opportunity{}, fmt.Errorf("unknown opportunity column %q", column)
	}
	var current models.Opportunity
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&current).Error; err != nil {
		return models.Opportunity{}, err
	}

	update := OpportunityUpdate{ID: id, SortOrder: &sortOrder}
	if current.Stage != column {
		update.Stage = &column
	}
	return s.Update(ctx, userID, update)
}

func validStage(s models.OpportunityStage) bool {
	switch s {
	case models.StageNew, models.StageContacted, models.StageQualified,
		models.StageProposal, models.StageNegotiation, models.StageWon, models.StageLost:
		return true
	}
	return false
}
