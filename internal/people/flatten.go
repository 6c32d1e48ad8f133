package people

import (
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"

	"gorm.io/gorm"
)

// ByEntity loads the linked people for a batch of entities and flattens the
// join rows into per-entity slices plus the primary person, the convenience
// shape list responses carry.
func ByEntity(db *gorm.DB, kind models.EntityKind, entityIDs []string) (map[string][]models.Person, map[string]models.Person, error) {
	all := make(map[string][]models.Person, len(entityIDs))
	primary := make(map[string]models.Person, len(entityIDs))
	if len(entityIDs) == 0 {
		return all, primary, nil
	}

	var links []models.PersonLink
	if err := db.Where("entity_kind = ? AND entity_id IN ?", kind, entityIDs).Find(&links).Error; err != nil {
		return nil, nil, err
	}
	if len(links) == 0 {
		return all, primary, nil
	}

	personIDs := make([]string, 0, len(links))
	for _, link := range links {
		personIDs = append(personIDs, link.PersonID)
	}
	var persons []models.Person
	if err := db.Where("id IN ?", personIDs).Find(&persons).Error; err != nil {
		return nil, nil, err
	}
	personByID := make(map[string]models.Person, len(persons))
	for _, p := range persons {
		personByID[p.ID] = p
	}

	for _, link := range links {
		p, ok := personByID[link.PersonID]
		if !ok {
			continue
		}
		all[link.EntityID] = append(all[link.EntityID], p)
		if link.IsPrimary {
			primary[link.EntityID] = p
		}
	}
	return all, primary, nil
}
