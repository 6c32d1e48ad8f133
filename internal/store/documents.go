package store

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/optimistic"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/storage"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/webhook"

	"github.com/google/uuid"
)

// DocumentStore is the documents entity hook. Besides row CRUD it owns the
// object-store round trip and the lender upload webhook.
type DocumentStore struct {
	deps
	objects       storage.ObjectStore
	hooks         *webhook.Dispatcher
	urlTTLSeconds int64
}

// DocumentUpload carries a new document plus its bytes.
type DocumentUpload struct {
	Name        string                  `json:"name"`
	Category    models.DocumentCategory `json:"category"`
	LoanID      string                  `json:"loanId"`
	ClientID    string                  `json:"clientId"`
	LenderID    string                  `json:"lenderId"`
	ContentType string                  `json:"contentType"`
	Data        []byte                  `json:"-"`
}

// CategoryProgress is one row of the per-loan document checklist.
type CategoryProgress struct {
	Category models.DocumentCategory `json:"category"`
	Received int                     `json:"received"`
	Total    int                     `json:"total"`
	Complete bool                    `json:"complete"`
}

// LoanDocumentProgress summarizes checklist completion for one loan.
type LoanDocumentProgress struct {
	LoanID     string             `json:"loanId"`
	Categories []CategoryProgress `json:"categories"`
	Percent    int                `json:"percent"`
}

func (s *DocumentStore) key(userID, loanID string) querycache.Key {
	return querycache.NewKey("documents", userID, "loan", loanID)
}

// List returns the user's documents, optionally scoped to one loan, cached.
func (s *DocumentStore) List(ctx context.Context, userID, loanID string) ([]models.Document, error) {
	return querycache.GetOrFetch(ctx, s.cache, s.key(userID, loanID), func(ctx context.Context) ([]models.Document, error) {
		q := s.db.WithContext(ctx).Where("user_id = ?", userID)
		if loanID != "" {
			q = q.Where("loan_id = ?", loanID)
		}
		var docs []models.Document
		err := q.Order("created_at desc").Find(&docs).Error
		return docs, err
	})
}

// Upload stores the bytes, inserts the metadata row through the optimistic
// controller, and on a lender document fires the outbound webhook with a
// short-lived signed URL.
func (s *DocumentStore) Upload(ctx context.Context, userID string, in DocumentUpload) (models.Document, error) {
	docID := uuid.NewString()

	m := &optimistic.Mutation[models.Document, DocumentUpload]{
		Cache: s.cache,
		Key:   s.key(userID, in.LoanID),
		Log:   s.log,
		Fn: func(ctx context.Context, in DocumentUpload) (models.Document, error) {
			objectPath := path.Join(userID, docID, in.Name)
			stored, err := s.objects.Upload(objectPath, in.Data)
			if err != nil {
				return models.Document{}, err
			}
			doc := models.Document{
				ID:          docID,
				Name:        in.Name,
				Category:    in.Category,
				Status:      models.DocStatusReceived,
				LoanID:      in.LoanID,
				ClientID:    in.ClientID,
				LenderID:    in.LenderID,
				StoragePath: stored,
				SizeBytes:   int64(len(in.Data)),
				ContentType: in.ContentType,
				UserID:      userID,
			}
			if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
				// The row is authoritative; drop the orphaned object.
				_ = s.objects.Remove(stored)
				return models.Document{}, err
			}
			return doc, nil
		},
		AddItem: func(in DocumentUpload) models.Document {
			return models.Document{
				ID:        docID,
				Name:      in.Name,
				Category:  in.Category,
				Status:    models.DocStatusReceived,
				LoanID:    in.LoanID,
				SizeBytes: int64(len(in.Data)),
				UserID:    userID,
			}
		},
		OnSuccess: func(doc models.Document, _ DocumentUpload) {
			s.activity.Record(userID, "document.uploaded", "document", doc.ID,
				fmt.Sprintf("Document %q received", doc.Name))
			s.notifyLender(doc)
		},
	}
	return m.Mutate(ctx, in)
}

// UpdateStatus moves a document through pending/received/reviewed.
func (s *DocumentStore) UpdateStatus(ctx context.Context, userID, id, loanID string, status models.DocumentStatus) (models.Document, error) {
	type statusVars struct {
		ID     string
		Status models.DocumentStatus
	}
	m := &optimistic.Mutation[models.Document, statusVars]{
		Cache: s.cache,
		Key:   s.key(userID, loanID),
		Log:   s.log,
		Fn: func(ctx context.Context, v statusVars) (models.Document, error) {
			var doc models.Document
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", v.ID, userID).First(&doc).Error; err != nil {
				return models.Document{}, err
			}
			doc.Status = v.Status
			return doc, s.db.WithContext(ctx).Model(&doc).Update("status", v.Status).Error
		},
		FindItem:   func(d models.Document, v statusVars) bool { return d.ID == v.ID },
		UpdateItem: func(d models.Document, v statusVars) models.Document { d.Status = v.Status; return d },
		OnSuccess: func(doc models.Document, _ statusVars) {
			s.activity.Record(userID, "document.status_changed", "document", doc.ID,
				fmt.Sprintf("Document %q marked %s", doc.Name, doc.Status))
		},
	}
	return m.Mutate(ctx, statusVars{ID: id, Status: status})
}

// Delete removes the metadata row and then the stored object.
func (s *DocumentStore) Delete(ctx context.Context, userID, id, loanID string) error {
	m := &optimistic.Mutation[models.Document, string]{
		Cache: s.cache,
		Key:   s.key(userID, loanID),
		Log:   s.log,
		Fn: func(ctx context.Context, id string) (models.Document, error) {
			var doc models.Document
			if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&doc).Error; err != nil {
				return models.Document{}, err
			}
			if err := s.db.WithContext(ctx).Delete(&doc).Error; err != nil {
				return models.Document{}, err
			}
			if doc.StoragePath != "" {
				if err := s.objects.Remove(doc.StoragePath); err != nil {
					s.log.Warn("stored object removal failed after row delete")
				}
			}
			return doc, nil
		},
		RemoveItem: func(d models.Document, id string) bool { return d.ID == id },
		OnSuccess: func(doc models.Document, id string) {
			s.activity.Record(userID, "document.deleted", "document", id, "Document removed")
		},
	}
	_, err := m.Mutate(ctx, id)
	return err
}

// SignedURL issues a time-limited download link for a document the user owns.
func (s *DocumentStore) SignedURL(ctx context.Context, userID, id string) (string, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&doc).Error; err != nil {
		return "", err
	}
	return s.objects.CreateSignedURL(doc.StoragePath, time.Duration(s.urlTTLSeconds)*time.Second)
}

// Progress computes the per-loan checklist: how many required categories
// have at least one received or reviewed document.
func (s *DocumentStore) Progress(ctx context.Context, userID, loanID string) (LoanDocumentProgress, error) {
	docs, err := s.List(ctx, userID, loanID)
	if err != nil {
		return LoanDocumentProgress{}, err
	}
	return ComputeProgress(loanID, docs), nil
}

// ComputeProgress derives checklist completion from a document list.
func ComputeProgress(loanID string, docs []models.Document) LoanDocumentProgress {
	required := models.RequiredCategories()
	progress := LoanDocumentProgress{LoanID: loanID, Categories: make([]CategoryProgress, 0, len(required))}

	complete := 0
	for _, category := range required {
		row := CategoryProgress{Category: category}
		for _, doc := range docs {
			if doc.Category != category {
				continue
			}
			row.Total++
			if doc.Status == models.DocStatusReceived || doc.Status == models.DocStatusReviewed {
				row.Received++
			}
		}
		row.Complete = row.Received > 0
		if row.Complete {
			complete++
		}
		progress.Categories = append(progress.Categories, row)
	}
	if len(required) > 0 {
		progress.Percent = complete * 100 / len(required)
	}
	return progress
}

// notifyLender fires the outbound webhook for lender documents. Failures
// are retried and logged inside the dispatcher, never surfaced here.
func (s *DocumentStore) notifyLender(doc models.Document) {
	if doc.LenderID == "" || s.hooks == nil || !s.hooks.Enabled() {
		return
	}
	signed, err := s.objects.CreateSignedURL(doc.StoragePath, time.Duration(s.urlTTLSeconds)*time.Second)
	if err != nil {
		s.log.Error("signed url for lender webhook failed")
		return
	}
	s.hooks.DispatchAsync(webhook.DocumentPayload{
		DocumentID:  doc.ID,
		LenderID:    doc.LenderID,
		LoanID:      doc.LoanID,
		ClientID:    doc.ClientID,
		FileName:    doc.Name,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		SignedURL:   signed,
	})
}
