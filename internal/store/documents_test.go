package store

import (
	"context"
	"testing"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"

	"github.com/stretchr/testify/require"
)

func TestComputeProgress(t *testing.T) {
	docs := []models.Document{
		{ID: "d-1", Category: models.CategoryIncome, Status: models.DocStatusReceived},
		{ID: "d-2", Category: models.CategoryIncome, Status: models.DocStatusPending},
		{ID: "d-3", Category: models.CategoryAssets, Status: models.DocStatusReviewed},
		{ID: "d-4", Category: models.CategoryCredit, Status: models.DocStatusPending},
		// Lender documents are not part of the required checklist.
		{ID: "d-5", Category: models.CategoryLender, Status: models.DocStatusReceived},
	}

	progress := ComputeProgress("loan-1", docs)
	require.Equal(t, "loan-1", progress.LoanID)
	require.Len(t, progress.Categories, 6)

	byCategory := map[models.DocumentCategory]CategoryProgress{}
	for _, row := range progress.Categories {
		byCategory[row.Category] = row
	}

	require.Equal(t, CategoryProgress{Category: models.CategoryIncome, Received: 1, Total: 2, Complete: true}, byCategory[models.CategoryIncome])
	require.Equal(t, CategoryProgress{Category: models.CategoryAssets, Received: 1, Total: 1, Complete: true}, byCategory[models.CategoryAssets])
	require.Equal(t, CategoryProgress{Category: models.CategoryCredit, Received: 0, Total: 1, Complete: false}, byCategory[models.CategoryCredit])
	require.Equal(t, CategoryProgress{Category: models.CategoryProperty}, byCategory[models.CategoryProperty])

	// 2 of 6 required categories are complete.
	require.Equal(t, 33, progress.Percent)
}

func TestComputeProgress_Empty(t *testing.T) {
	progress := ComputeProgress("loan-1", nil)
	require.Equal(t, 0, progress.Percent)
	require.Len(t, progress.Categories, 6)
	for _, row := range progress.Categories {
		require.False(t, row.Complete)
	}
}

func TestDocumentUploadAndDelete(t *testing.T) {
	stores, db, _ := newStores(t)
	ctx := context.Background()

	doc, err := stores.Documents.Upload(ctx, "u-1", DocumentUpload{
		Name:        "w2.pdf",
		Category:    models.CategoryIncome,
		LoanID:      "loan-1",
		ClientID:    "c-1",
		ContentType: "application/pdf",
		Data:        []byte("pdf-bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, models.DocStatusReceived, doc.Status)
	require.EqualValues(t, 9, doc.SizeBytes)
	require.NotEmpty(t, doc.StoragePath)

	stored, err := stores.Documents.objects.Download(doc.StoragePath)
	require.NoError(t, err)
	require.Equal(t, []byte("pdf-bytes"), stored)

	reviewed, err := stores.Documents.UpdateStatus(ctx, "u-1", doc.ID, "loan-1", models.DocStatusReviewed)
	require.NoError(t, err)
	require.Equal(t, models.DocStatusReviewed, reviewed.Status)

	progress, err := stores.Documents.Progress(ctx, "u-1", "loan-1")
	require.NoError(t, err)
	require.Equal(t, 16, progress.Percent)

	require.NoError(t, stores.Documents.Delete(ctx, "u-1", doc.ID, "loan-1"))

	var count int64
	require.NoError(t, db.Model(&models.Document{}).Where("id = ?", doc.ID).Count(&count).Error)
	require.Zero(t, count)

	_, err = stores.Documents.objects.Download(doc.StoragePath)
	require.Error(t, err)
}

func TestDocumentSignedURL(t *testing.T) {
	stores, _, _ := newStores(t)
	ctx := context.Background()

	doc, err := stores.Documents.Upload(ctx, "u-1", DocumentUpload{
		Name:     "appraisal.pdf",
		Category: models.CategoryProperty,
		LoanID:   "loan-1",
		Data:     []byte("x"),
	})
	require.NoError(t, err)

	url, err := stores.Documents.SignedURL(ctx, "u-1", doc.ID)
	require.NoError(t, err)
	require.Contains(t, url, "/api/files/")
	require.Contains(t, url, "signature=")

	// Another user cannot mint links for this document.
	_, err = stores.Documents.SignedURL(ctx, "u-2", doc.ID)
	require.Error(t, err)
}
