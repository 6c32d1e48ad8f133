package store

import (
	"context"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"

	"github.com/google/uuid"
)

// TodoStore is the todos entity hook.
type TodoStore struct {
	deps
}

// TodoCreate carries a new todo.
type TodoCreate struct {
	Title    string              `json:"title" binding:"required"`
	Priority models.TodoPriority `json:"priority"`
	DueDate  string              `json:"dueDate"`
	ClientID string              `json:"clientId"`
}

// TodoUpdate carries the optional fields of a todo update.
type TodoUpdate struct {
	ID       string               `json:"-"`
	Title    *string              `json:"title"`
	Status   *models.TodoStatus   `json:"status"`
	Priority *models.TodoPriority `json:"priority"`
	DueDate  *string              `json:"dueDate"`
}

func (u TodoUpdate) applyTo(t models.Todo) models.Todo {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	return t
}

func (s *TodoStore) key(userID string) querycache.Key {
	return querycache.NewKey("todos", userID)
}

// List returns the user's todos, cached.
func (s *TodoStore) List(ctx context.Context, userID string) ([]models.Todo, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID), func(ctx context.Context) ([]models.Todo, error) {
		var todos []models.Todo
		err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&todos).Error
		return todos, err
	})
}

// Create inserts a todo through the optimistic controller.
func (s *TodoStore) Create(ctx context.Context, userID string, in TodoCreate) (models.Todo, error) {
	m := &optimistic.Mutation[models.Todo, TodoCreate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, in TodoCreate) (models.Todo, error) {
			priority := in.Priority
			if priority == "" {
				priority = models.TodoPriorityMedium
			}
			todo := models.Todo{
				ID:       uuid.NewString(),
				Title:    in.Title,
				Status:   models.TodoOpen,
				Priority: priority,
				DueDate:  in.DueDate,
				ClientID: in.ClientID,
				UserID:   userID,
			}
			return todo, s.db.WithContext(ctx).Create(&todo).Error
		},
		AddItem: func(in TodoCreate) models.Todo {
			return models.Todo{ID: "pending", Title: in.Title, Status: models.TodoOpen, Priority: in.Priority, UserID: userID}
		},
	}
	return m.Mutate(ctx, in)
}

// Update applies a partial update through the optimistic controller.
func (s *TodoStore) Update(ctx context.Context, userID string, update TodoUpdate) (models.Todo, error) {
	m := &optimistic.Mutation[models.Todo, TodoUpdate]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, u TodoUpdate) (models.Todo, error) {
			var todo models.Todo
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", u.ID, userID).First(&todo).Error; err != nil {
				return models.Todo{}, err
			}
			todo = u.applyTo(todo)
			return todo, s.db.WithContext(ctx).Save(&todo).Error
		},
		FindItem:   func(t models.Todo, u TodoUpdate) bool { return t.ID == u.ID },
		UpdateItem: func(t models.Todo, u TodoUpdate) models.Todo { return u.applyTo(t) },
	}
	return m.Mutate(ctx, update)
}

// Delete removes a todo through the optimistic controller.
func (s *TodoStore) Delete(ctx context.Context, userID, id string) error {
	m := &optimistic.Mutation[models.Todo, string]{
		Cache: s.cache,
		Key:   s.key(userID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Todo, error) {
			var todo models.Todo
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&todo).Error; err != nil {
				return models.Todo{}, err
			}
			return todo, s.db.WithContext(ctx).Delete(&todo).Error
		},
		RemoveItem: func(t models.Todo, id string) bool { return t.ID == id },
	}
	_, err := m.Mutate(ctx, id)
	return err
}
