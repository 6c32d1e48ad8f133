package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeCompleter records the transcript it was handed and returns a canned
// reply or error.
type fakeCompleter struct {
	turns []Turn
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, turns []Turn) (string, error) {
	f.turns = turns
	return f.reply, f.err
}

func newChatService(t *testing.T, completer Completer) (*Service, *gorm.DB) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	return NewService(db, completer, nil, zap.NewNop()), db
}

func TestSendRoundTrip(t *testing.T) {
	fake := &fakeCompleter{reply: "Based on the file, an FHA loan fits."}
	svc, db := newChatService(t, fake)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "u-1", "FHA options", "", nil)
	require.NoError(t, err)

	reply, err := svc.Send(ctx, "u-1", conv.ID, "Which program fits this client?")
	require.NoError(t, err)
	require.Equal(t, models.RoleAssistant, reply.Role)
	require.Equal(t, fake.reply, reply.Content)

	// Prompt starts with the system turn, then the just-persisted user turn.
	require.GreaterOrEqual(t, len(fake.turns), 2)
	require.Equal(t, string(models.RoleSystem), fake.turns[0].Role)
	require.Equal(t, "Which program fits this client?", fake.turns[len(fake.turns)-1].Content)

	msgs, err := svc.Messages(ctx, "u-1", conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, models.RoleUser, msgs[0].Role)
	require.Equal(t, models.RoleAssistant, msgs[1].Role)

	var stored int64
	require.NoError(t, db.Model(&models.Message{}).Where("conversation_id = ?", conv.ID).Count(&stored).Error)
	require.EqualValues(t, 2, stored)
}

func TestSend_CompleterFailureKeepsUserTurn(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("upstream unavailable")}
	svc, _ := newChatService(t, fake)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "u-1", "", "", nil)
	require.NoError(t, err)

	_, err = svc.Send(ctx, "u-1", conv.ID, "hello")
	require.Error(t, err)

	// The user's input survives the failed completion.
	msgs, err := svc.Messages(ctx, "u-1", conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, models.RoleUser, msgs[0].Role)
}

func TestSend_OtherUsersConversationRejected(t *testing.T) {
	svc, _ := newChatService(t, &fakeCompleter{reply: "ok"})
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "u-1", "", "", nil)
	require.NoError(t, err)

	_, err = svc.Send(ctx, "u-2", conv.ID, "hello")
	require.Error(t, err)

	_, err = svc.Messages(ctx, "u-2", conv.ID)
	require.Error(t, err)
}

func TestSystemPromptIncludesSelection(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	svc, db := newChatService(t, fake)
	ctx := context.Background()

	person := models.Person{ID: "p-1", FirstName: "Dana", LastName: "Reyes", Email: "dana@example.com", UserID: "u-1"}
	require.NoError(t, db.Create(&person).Error)
	client := models.Client{ID: "c-1", PrimaryPersonID: "p-1", Status: models.ClientStatusActive, AnnualIncome: 95000, CreditScore: 710, UserID: "u-1"}
	require.NoError(t, db.Create(&client).Error)
	lender := models.Lender{ID: "l-1", Institution: "First National", LoanPrograms: "FHA, VA", MinCreditScore: 620, UserID: "u-1"}
	require.NoError(t, db.Create(&lender).Error)

	conv, err := svc.CreateConversation(ctx, "u-1", "", "c-1", []string{"l-1"})
	require.NoError(t, err)

	_, err = svc.Send(ctx, "u-1", conv.ID, "What do we know?")
	require.NoError(t, err)

	system := fake.turns[0].Content
	require.Contains(t, system, "Dana Reyes")
	require.Contains(t, system, "First National")
	require.Contains(t, system, "FHA, VA")
}
