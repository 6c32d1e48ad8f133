package store

import (
	"context"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"

	"github.com/google/uuid"
)

// NoteStore is the notes entity hook.
type NoteStore struct {
	deps
}

// NoteCreate carries a new note.
type NoteCreate struct {
	Content    string `json:"content" binding:"required"`
	EntityKind string `json:"entityKind"`
	EntityID   string `json:"entityId"`
}

func (s *NoteStore) key(userID string) querycache.Key {
	return querycache.NewKey("notes", userID)
}

// List returns the user's notes, cached.
func (s *NoteStore) List(ctx context.Context, userID string) ([]models.Note, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID), func(ctx context.Context) ([]models.Note, error) {
		var notes []models.Note
		err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&notes).Error
		return notes, err
	})
}

// Create inserts a note through the optimistic controller.
func (s *NoteStore) Create(ctx context.Context, userID string, in NoteCreate) (models.Note, error) {
	m := &optimistic.Mutation[models.Note, NoteCreate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, in NoteCreate) (models.Note, error) {
			note := models.Note{
				ID:         uuid.NewString(),
				Content:    in.Content,
				EntityKind: in.EntityKind,
				EntityID:   in.EntityID,
				UserID:     userID,
			}
			return note, s.db.WithContext(ctx).Create(&note).Error
		},
		AddItem: func(in NoteCreate) models.Note {
			return models.Note{ID: "pending", Content: in.Content, EntityKind: in.EntityKind, EntityID: in.EntityID, UserID: userID}
		},
		OnSuccess: func(data models.Note, _ NoteCreate) {
			s.activity.Record(userID, "note.created", models.EntityKind(data.EntityKind), data.EntityID, "Note added")
		},
	}
	return m.Mutate(ctx, in)
}

// Update replaces a note's content through the optimistic controller.
func (s *NoteStore) Update(ctx context.Context, userID, id, content string) (models.Note, error) {
	type noteVars struct {
		ID      string
		Content string
	}
	m := &optimistic.Mutation[models.Note, noteVars]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, v noteVars) (models.Note, error) {
			var note models.Note
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", v.ID, userID).First(&note).Error; err != nil {
				return models.Note{}, err
			}
			note.Content = v.Content
			return note, s.db.WithContext(ctx).Save(&note).Error
		},
		FindItem:   func(n models.Note, v noteVars) bool { return n.ID == v.ID },
		UpdateItem: func(n models.Note, v noteVars) models.Note { n.Content = v.Content; return n },
	}
	return m.Mutate(ctx, noteVars{ID: id, Content: content})
}

// Delete removes a note through the optimistic controller.
func (s *NoteStore) Delete(ctx context.Context, userID, id string) error {
	m := &optimistic.Mutation[models.Note, string]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Note, error) {
			var note models.Note
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&note).Error; err != nil {
				return models.Note{}, err
			}
			return note, s.db.WithContext(ctx).Delete(&note).Error
		},
		RemoveItem: func(n models.Note, id string) bool { return n.ID == id },
	}
	_, err := m.Mutate(ctx, id)
	return err
}
