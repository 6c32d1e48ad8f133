package store

import (
	"context"
	"fmt"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/people"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
)

// ClientStore is the clients entity hook.
type ClientStore struct {
	deps
	people *people.Service
}

// ClientUpdate carries the optional fields of a client update; nil means
// leave the field as-is.
type ClientUpdate struct {
	ID             string               `json:"-"`
	Status         *models.ClientStatus `json:"status"`
	AnnualIncome   *float64             `json:"annualIncome"`
	CreditScore    *int                 `json:"creditScore"`
	EmploymentType *string              `json:"employmentType"`
	Notes          *string              `json:"notes"`
}

func (u ClientUpdate) applyTo(c models.Client) models.Client {
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.AnnualIncome != nil {
		c.AnnualIncome = *u.AnnualIncome
	}
	if u.CreditScore != nil {
		c.CreditScore = *u.CreditScore
	}
	if u.EmploymentType != nil {
		c.EmploymentType = *u.EmploymentType
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	return c
}

func (s *ClientStore) key(userID string) querycache.Key {
	return querycache.NewKey("clients", userID)
}

// List returns the user's clients, cached, with linked people flattened in.
func (s *ClientStore) List(ctx context.Context, userID string) ([]models.Client, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID), func(ctx context.Context) ([]models.Client, error) {
		var clients []models.Client
		if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&clients).Error; err != nil {
			return nil, err
		}
		if err := attachPeople(s.db, models.KindClient, clients,
			func(c *models.Client) string { return c.ID },
			func(c *models.Client, primary models.Person, all []models.Person) {
				c.PrimaryPerson, c.People = primary, all
			}); err != nil {
			return nil, err
		}
		return clients, nil
	})
}

// Create runs person-entity creation through the optimistic controller: the
// speculative client appears in the cached list before the transaction
// resolves and the refetch swaps in the authoritative row.
func (s *ClientStore) Create(ctx context.Context, userID string, in people.CreateEntityInput) (models.Client, error) {
	in.Kind = models.KindClient
	in.UserID = userID

	m := &optimistic.Mutation[models.Client, people.CreateEntityInput]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, in people.CreateEntityInput) (models.Client, error) {
			res, err := s.people.CreateEntity(ctx, in)
			if err != nil {
				return models.Client{}, err
			}
			return s.get(ctx, userID, res.EntityID)
		},
		AddItem: func(in people.CreateEntityInput) models.Client {
			c := models.Client{
				ID:     "pending",
				Status: models.ClientStatusLead,
				UserID: userID,
				PrimaryPerson: models.Person{
					FirstName: in.Person.FirstName,
					LastName:  in.Person.LastName,
					Email:     in.Person.Email,
				},
			}
			if in.Client != nil {
				c.AnnualIncome = in.Client.AnnualIncome
				c.CreditScore = in.Client.CreditScore
				c.EmploymentType = in.Client.EmploymentType
			}
			return c
		},
		OnSuccess: func(data models.Client, _ people.CreateEntityInput) {
			s.activity.Record(userID, "client.created", models.KindClient, data.ID,
				fmt.Sprintf("Client %s %s added", data.PrimaryPerson.FirstName, data.PrimaryPerson.LastName))
		},
	}
	return m.Mutate(ctx, in)
}

// Update applies a partial update through the optimistic controller.
func (s *ClientStore) Update(ctx context.Context, userID string, update ClientUpdate) (models.Client, error) {
	m := &optimistic.Mutation[models.Client, ClientUpdate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, u ClientUpdate) (models.Client, error) {
			var existing models.Client
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", u.ID, userID).First(&existing).Error; err != nil {
				return models.Client{}, err
			}
			existing = u.applyTo(existing)
			if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return models.Client{}, err
			}
			return s.get(ctx, userID, existing.ID)
		},
		FindItem:   func(c models.Client, u ClientUpdate) bool { return c.ID == u.ID },
		UpdateItem: func(c models.Client, u ClientUpdate) models.Client { return u.applyTo(c) },
		OnSuccess: func(data models.Client, _ ClientUpdate) {
			s.activity.Record(userID, "client.updated", models.KindClient, data.ID, "Client updated")
		},
	}
	return m.Mutate(ctx, update)
}

// Delete removes the client and its person links through the optimistic
// controller.
func (s *ClientStore) Delete(ctx context.Context, userID, id string) error {
	m := &optimistic.Mutation[models.Client, string]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Client, error) {
			var existing models.Client
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&existing).Error; err != nil {
				return models.Client{}, err
			}
			if err := s.db.WithContext(ctx).Where("entity_kind = ? AND entity_id = ?", models.KindClient, id).
				Delete(&models.PersonLink{}).Error; err != nil {
				return models.Client{}, err
			}
			return existing, s.db.WithContext(ctx).Delete(&existing).Error
		},
		RemoveItem: func(c models.Client, id string) bool { return c.ID == id },
		OnSuccess: func(data models.Client, id string) {
			s.activity.Record(userID, "client.deleted", models.KindClient, id, "Client removed")
		},
	}
	_, err := m.Mutate(ctx, id)
	return err
}

// get loads one client with its people flattened.
func (s *ClientStore) get(ctx context.Context, userID, id string) (models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&client).Error; err != nil {
		return models.Client{}, err
	}
	clients := []models.Client{client}
	if err := attachPeople(s.db, models.KindClient, clients,
		func(c *models.Client) string { return c.ID },
		func(c *models.Client, primary models.Person, all []models.Person) {
			c.PrimaryPerson, c.People = primary, all
		}); err != nil {
		return models.Client{}, err
	}
	return clients[0], nil
}
