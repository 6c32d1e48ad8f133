// Package chat implements the AI assistant: persisted conversations whose
// grounding context is a selected client plus a set of lenders, completed
// against an OpenAI-compatible endpoint.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Turn is one prompt message sent to the completion endpoint.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces an assistant reply for a prompt transcript.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// Service owns conversations, messages and context assembly.
type Service struct {
	db        *gorm.DB
	completer Completer
	hub       *realtime.Hub
	log       *zap.Logger
}

// NewService constructs a Service. hub may be nil.
func NewService(db *gorm.DB, completer Completer, hub *realtime.Hub, log *zap.Logger) *Service {
	return &Service{db: db, completer: completer, hub: hub, log: log}
}

// CreateConversation opens a conversation pinned to the given grounding
// selection.
func (s *Service) CreateConversation(ctx context.Context, userID, title, clientID string, lenderIDs []string) (models.Conversation, error) {
	conv := models.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		ClientID:  clientID,
		LenderIDs: strings.Join(lenderIDs, ","),
		UserID:    userID,
	}
	return conv, s.db.WithContext(ctx).Create(&conv).Error
}

// ListConversations returns the user's conversations, newest first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&convs).Error
	return convs, err
}

// Messages returns the transcript of one conversation the user owns.
func (s *Service) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	if _, err := s.conversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	var msgs []models.Message
	err := s.db.WithContext(ctx).Where("conversation_id = ?", conversationID).Order("created_at asc").Find(&msgs).Error
	return msgs, err
}

// Send persists the user turn, completes against the grounded transcript
// and persists + pushes the assistant reply.
func (s *Service) Send(ctx context.Context, userID, conversationID, content string) (models.Message, error) {
	conv, err := s.conversation(ctx, userID, conversationID)
	if err != nil {
		return models.Message{}, err
	}

	userMsg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        content,
		UserID:         userID,
	}
	if err := s.db.WithContext(ctx).Create(&userMsg).Error; err != nil {
		return models.Message{}, err
	}

	turns, err := s.assemble(ctx, conv)
	if err != nil {
		return models.Message{}, err
	}

	reply, err := s.completer.Complete(ctx, turns)
	if err != nil {
		return models.Message{}, err
	}

	assistantMsg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        reply,
		UserID:         userID,
	}
	if err := s.db.WithContext(ctx).Create(&assistantMsg).Error; err != nil {
		return models.Message{}, err
	}
	s.push(userID, assistantMsg)
	return assistantMsg, nil
}

func (s *Service) conversation(ctx context.Context, userID, conversationID string) (models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", conversationID, userID).First(&conv).Error
	return conv, err
}

// assemble builds the prompt: a system turn rendered from the selected
// client and lenders, then the stored transcript in order.
func (s *Service) assemble(ctx context.Context, conv models.Conversation) ([]Turn, error) {
	turns := []Turn{{Role: string(models.RoleSystem), Content: s.systemPrompt(ctx, conv)}}

	var msgs []models.Message
	if err := s.db.WithContext(ctx).Where("conversation_id = ?", conv.ID).Order("created_at asc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		turns = append(turns, Turn{Role: string(msg.Role), Content: msg.Content})
	}
	return turns, nil
}

func (s *Service) systemPrompt(ctx context.Context, conv models.Conversation) string {
	var b strings.Builder
	b.WriteString("You are a mortgage brokerage assistant. Answer using the CRM context below.\n")

	if conv.ClientID != "" {
		var client models.Client
		if err := s.db.WithContext(ctx).Where("id = ?", conv.ClientID).First(&client).Error; err == nil {
			var person models.Person
			_ = s.db.WithContext(ctx).Where("id = ?", client.PrimaryPersonID).First(&person).Error
			fmt.Fprintf(&b, "\nSelected client: %s %s, status %s, annual income $%.0f, credit score %d.\n",
				person.FirstName, person.LastName, client.Status, client.AnnualIncome, client.CreditScore)
		}
	}

	lenderIDs := strings.Split(conv.LenderIDs, ",")
	var lenders []models.Lender
	if len(lenderIDs) > 0 && lenderIDs[0] != "" {
		if err := s.db.WithContext(ctx).Where("id IN ?", lenderIDs).Find(&lenders).Error; err == nil && len(lenders) > 0 {
			b.WriteString("\nSelected lenders:\n")
			for _, lender := range lenders {
				fmt.Fprintf(&b, "- %s: programs %s, min credit score %d, max loan $%.0f, rate %.2f%%\n",
					lender.Institution, lender.LoanPrograms, lender.MinCreditScore, lender.MaxLoanAmount, lender.InterestRate)
			}
		}
	}
	return b.String()
}

func (s *Service) push(userID string, msg models.Message) {
	if s.hub == nil {
		return
	}
	evt := map[string]any{
		"type":    "chat_message",
		"message": msg,
	}
	if payload, err := json.Marshal(evt); err == nil {
		s.hub.Broadcast(userID, payload)
	}
}
