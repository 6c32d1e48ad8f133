package store

import (
	"context"
	"fmt"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/people"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
)

// RealtorStore is the realtors entity hook.
type RealtorStore struct {
	deps
	people *people.Service
}

// RealtorUpdate carries the optional fields of a realtor update.
type RealtorUpdate struct {
	ID              string  `json:"-"`
	Brokerage       *string `json:"brokerage"`
	LicenseNumber   *string `json:"licenseNumber"`
	YearsExperience *int    `json:"yearsExperience"`
	Notes           *string `json:"notes"`
}

func (u RealtorUpdate) applyTo(r models.Realtor) models.Realtor {
	if u.Brokerage != nil {
		r.Brokerage = *u.Brokerage
	}
	if u.LicenseNumber != nil {
		r.LicenseNumber = *u.LicenseNumber
	}
	if u.YearsExperience != nil {
		r.YearsExperience = *u.YearsExperience
	}
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
	return r
}

func (s *RealtorStore) key(userID string) querycache.Key {
	return querycache.NewKey("realtors", userID)
}

// List returns the user's realtors, cached, with linked people flattened in.
func (s *RealtorStore) List(ctx context.Context, userID string) ([]models.Realtor, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID), func(ctx context.Context) ([]models.Realtor, error) {
		var realtors []models.Realtor
		if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&realtors).Error; err != nil {
			return nil, err
		}
		if err := attachPeople(s.db, models.KindRealtor, realtors,
			func(r *models.Realtor) string { return r.ID },
			func(r *models.Realtor, primary models.Person, all []models.Person) {
				r.PrimaryPerson, r.People = primary, all
			}); err != nil {
			return nil, err
		}
		return realtors, nil
	})
}

// Create runs person-entity creation through the optimistic controller.
func (s *RealtorStore) Create(ctx context.Context, userID string, in people.CreateEntityInput) (models.Realtor, error) {
	in.Kind = models.KindRealtor
	in.UserID = userID

	m := &optimistic.Mutation[models.Realtor, people.CreateEntityInput]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, in people.CreateEntityInput) (models.Realtor, error) {
			res, err := s.people.CreateEntity(ctx, in)
			if err != nil {
				return models.Realtor{}, err
			}
			return s.get(ctx, userID, res.EntityID)
		},
		AddItem: func(in people.CreateEntityInput) models.Realtor {
			r := models.Realtor{ID: "pending", UserID: userID}
			if in.Realtor != nil {
				r.Brokerage = in.Realtor.Brokerage
				r.LicenseNumber = in.Realtor.LicenseNumber
				r.YearsExperience = in.Realtor.YearsExperience
			}
			r.PrimaryPerson = models.Person{
				FirstName: in.Person.FirstName,
				LastName:  in.Person.LastName,
				Email:     in.Person.Email,
			}
			return r
		},
		OnSuccess: func(data models.Realtor, in people.CreateEntityInput) {
			s.activity.Record(userID, "realtor.created", models.KindRealtor, data.ID,
				fmt.Sprintf("Realtor %s %s added", data.PrimaryPerson.FirstName, data.PrimaryPerson.LastName))
		},
	}
	return m.Mutate(ctx, in)
}

// Update applies a partial update through the optimistic controller.
func (s *RealtorStore) Update(ctx context.Context, userID string, update RealtorUpdate) (models.Realtor, error) {
	m := &optimistic.Mutation[models.Realtor, RealtorUpdate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, u RealtorUpdate) (models.Realtor, error) {
			var existing models.Realtor
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", u.ID, userID).First(&existing).Error; err != nil {
				return models.Realtor{}, err
			}
			existing = u.applyTo(existing)
			if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return models.Realtor{}, err
			}
			return s.get(ctx, userID, existing.ID)
		},
		FindItem:   func(r models.Realtor, u RealtorUpdate) bool { return r.ID == u.ID },
		UpdateItem: func(r models.Realtor, u RealtorUpdate) models.Realtor { return u.applyTo(r) },
		OnSuccess: func(data models.Realtor, _ RealtorUpdate) {
			s.activity.Record(userID, "realtor.updated", models.KindRealtor, data.ID, "Realtor updated")
		},
	}
	return m.Mutate(ctx, update)
}

// Delete removes the realtor and its person links through the optimistic
// controller.
func (s *RealtorStore) Delete(ctx context.Context, userID, id string) error {
	m := &optimistic.Mutation[models.Realtor, string]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Realtor, error) {
			var existing models.Realtor
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&existing).Error; err != nil {
				return models.Realtor{}, err
			}
			if err := s.db.WithContext(ctx).Where("entity_kind = ? AND entity_id = ?", models.KindRealtor, id).
				Delete(&models.PersonLink{}).Error; err != nil {
				return models.Realtor{}, err
			}
			return existing, s.db.WithContext(ctx).Delete(&existing).Error
		},
		RemoveItem: func(r models.Realtor, id string) bool { return r.ID == id },
		OnSuccess: func(data models.Realtor, id string) {
			s.activity.Record(userID, "realtor.deleted", models.KindRealtor, id, "Realtor removed")
		},
	}
	_, err := m.Mutate(ctx, id)
	return err
}

func (s *RealtorStore) get(ctx context.Context, userID, id string) (models.Realtor, error) {
	var realtor models.Realtor
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&realtor).Error; err != nil {
		return models.Realtor{}, err
	}
	realtors := []models.Realtor{realtor}
	if err := attachPeople(s.db, models.KindRealtor, realtors,
		func(r *models.Realtor) string { return r.ID },
		func(r *models.Realtor, primary models.Person, all []models.Person) {
			r.PrimaryPerson, r.People = primary, all
		}); err != nil {
		return models.Realtor{}, err
	}
	return realtors[0], nil
}
