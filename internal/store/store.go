// Package store holds the entity hooks: one store per business entity, each
// a thin configuration of the optimistic mutation controller plus the remote
// call sequence, activity logging and cache key for that entity.
package store

import (
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/activity"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/people"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/storage"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/webhook"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stores bundles every entity store behind one constructor.
type Stores struct {
	Clients       *ClientStore
	Lenders       *LenderStore
	Realtors      *RealtorStore
	Loans         *LoanStore
	Opportunities *OpportunityStore
	Documents     *DocumentStore
	Notes         *NoteStore
	Todos         *TodoStore
}

// deps is the collaborator set shared by every store.
type deps struct {
	db       *gorm.DB
	cache    *querycache.Store
	activity *activity.Logger
	log      *zap.Logger
}

// New wires all entity stores against the shared collaborators.
func New(db *gorm.DB, cache *querycache.Store, act *activity.Logger, objects storage.ObjectStore, hooks *webhook.Dispatcher, log *zap.Logger, urlTTL int64) *Stores {
	d := deps{db: db, cache: cache, activity: act, log: log}
	pp := people.NewService(db, log)
	return &Stores{
		Clients:       &ClientStore{deps: d, people: pp},
		Lenders:       &LenderStore{deps: d, people: pp},
		Realtors:      &RealtorStore{deps: d, people: pp},
		Loans:         &LoanStore{deps: d},
		Opportunities: &OpportunityStore{deps: d},
		Documents:     &DocumentStore{deps: d, objects: objects, hooks: hooks, urlTTLSeconds: urlTTL},
		Notes:         &NoteStore{deps: d},
		Todos:         &TodoStore{deps: d},
	}
}

// attachPeople flattens person_links rows onto a batch of contact records.
func attachPeople[T any](db *gorm.DB, kind models.EntityKind, items []T, id func(*T) string, set func(*T, models.Person, []models.Person)) error {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = id(&items[i])
	}
	all, primary, err := people.ByEntity(db, kind, ids)
	if err != nil {
		return err
	}
	for i := range items {
		set(&items[i], primary[ids[i]], all[ids[i]])
	}
	return nil
}
