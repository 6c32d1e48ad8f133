package store

import (
	"context"
	"testing"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/activity"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/realtime"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/storage"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/testutil"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/webhook"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newStores(t *testing.T) (*Stores, *gorm.DB, *querycache.Store) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	cache := querycache.NewStore(querycache.Options{})
	t.Cleanup(cache.Close)

	log := zap.NewNop()
	act := activity.NewLogger(db, realtime.NewHub(), log)
	objects := storage.NewFileStore(afero.NewMemMapFs(), "uploads", "test-secret")
	hooks := webhook.NewDispatcher("", log)

	return New(db, cache, act, objects, hooks, log, 300), db, cache
}

func TestLoanCreateListUpdate(t *testing.T) {
	stores, db, cache := newStores(t)
	ctx := context.Background()

	loan, err := stores.Loans.Create(ctx, "u-1", LoanCreate{
		ClientID: "c-1",
		Amount:   450000,
		Purpose:  "purchase",
	})
	require.NoError(t, err)
	require.NotEmpty(t, loan.ID)
	require.Equal(t, models.LoanStatusInquiry, loan.Status)
	require.Equal(t, models.LoanTypeConventional, loan.LoanType)
	require.Equal(t, 360, loan.TermMonths)

	// The mutation settled, so the collection is marked for refetch and the
	// next list round-trips to the database.
	require.True(t, cache.IsStale(stores.Loans.key("u-1")))

	loans, err := stores.Loans.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, loans, 1)

	// A create row also lands in the activity feed.
	var activities int64
	require.NoError(t, db.Model(&models.Activity{}).Where("user_id = ?", "u-1").Count(&activities).Error)
	require.EqualValues(t, 1, activities)

	amount := 475000.0
	updated, err := stores.Loans.Update(ctx, "u-1", LoanUpdate{ID: loan.ID, Amount: &amount})
	require.NoError(t, err)
	require.Equal(t, 475000.0, updated.Amount)
	require.Equal(t, "purchase", updated.Purpose)

	var persisted models.Loan
	require.NoError(t, db.First(&persisted, "id = ?", loan.ID).Error)
	require.Equal(t, 475000.0, persisted.Amount)
}

func TestLoanUpdate_UnknownIDRollsBack(t *testing.T) {
	stores, _, cache := newStores(t)
	ctx := context.Background()

	loan, err := stores.Loans.Create(ctx, "u-1", LoanCreate{ClientID: "c-1", Amount: 300000})
	require.NoError(t, err)

	before, err := stores.Loans.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, before, 1)

	amount := 999999.0
	_, err = stores.Loans.Update(ctx, "u-1", LoanUpdate{ID: "missing", Amount: &amount})
	require.Error(t, err)

	// The speculative write was reverted; the cached amount is untouched.
	cached, ok := querycache.Items[models.Loan](cache, stores.Loans.key("u-1"))
	require.True(t, ok)
	require.Len(t, cached, 1)
	require.Equal(t, loan.Amount, cached[0].Amount)
	require.True(t, cache.IsStale(stores.Loans.key("u-1")))
}

func TestLoanMove(t *testing.T) {
	stores, db, _ := newStores(t)
	ctx := context.Background()

	loan, err := stores.Loans.Create(ctx, "u-1", LoanCreate{ClientID: "c-1", Amount: 300000})
	require.NoError(t, err)

	// Same column: only the sort order changes.
	moved, err := stores.Loans.Move(ctx, "u-1", loan.ID, models.LoanStatusInquiry, 3)
	require.NoError(t, err)
	require.Equal(t, models.LoanStatusInquiry, moved.Status)
	require.Equal(t, 3, moved.SortOrder)

	// Different column: status advances along with the sort order.
	moved, err = stores.Loans.Move(ctx, "u-1", loan.ID, models.LoanStatusProcessing, 0)
	require.NoError(t, err)
	require.Equal(t, models.LoanStatusProcessing, moved.Status)
	require.Equal(t, 0, moved.SortOrder)

	var persisted models.Loan
	require.NoError(t, db.First(&persisted, "id = ?", loan.ID).Error)
	require.Equal(t, models.LoanStatusProcessing, persisted.Status)

	_, err = stores.Loans.Move(ctx, "u-1", loan.ID, "parked", 0)
	require.ErrorContains(t, err, "unknown loan column")
}

func TestLoanDelete(t *testing.T) {
	stores, db, _ := newStores(t)
	ctx := context.Background()

	loan, err := stores.Loans.Create(ctx, "u-1", LoanCreate{ClientID: "c-1", Amount: 300000})
	require.NoError(t, err)

	require.NoError(t, stores.Loans.Delete(ctx, "u-1", loan.ID))

	var count int64
	require.NoError(t, db.Model(&models.Loan{}).Where("id = ?", loan.ID).Count(&count).Error)
	require.Zero(t, count)

	loans, err := stores.Loans.List(ctx, "u-1")
	require.NoError(t, err)
	require.Empty(t, loans)
}

func TestLoanListScopedByUser(t *testing.T) {
	stores, _, _ := newStores(t)
	ctx := context.Background()

	_, err := stores.Loans.Create(ctx, "u-1", LoanCreate{ClientID: "c-1", Amount: 300000})
	require.NoError(t, err)
	_, err = stores.Loans.Create(ctx, "u-2", LoanCreate{ClientID: "c-2", Amount: 500000})
	require.NoError(t, err)

	mine, err := stores.Loans.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, 300000.0, mine[0].Amount)
}
