package services

import (
	"context"
	"strings"

	"electric-backend/internal/chat"
	"electric-backend/internal/errs"
	"electric-backend/internal/metrics"
	"electric-backend/internal/models"
	"electric-backend/internal/repositories"
)

// Notifier observes accepted messages. The monitoring dashboard uses this
// to push live activity over its websocket; delivery is best effort.
type Notifier interface {
	MessageSent(msg *models.Message)
}

type ChatService struct {
	Messages  *repositories.MessageRepository
	Users     *repositories.UserRepository
	notifiers []Notifier
}

func NewChatService(messages *repositories.MessageRepository, users *repositories.UserRepository) *ChatService {
	return &ChatService{Messages: messages, Users: users}
}

// AddNotifier registers an observer. Not safe to call after the server starts.
func (s *ChatService) AddNotifier(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

// Send validates the admin<->customer topology and stores the message.
func (s *ChatService) Send(ctx context.Context, senderID int64, senderRole string, req *models.SendMessageRequest) (*models.Message, error) {
	body := strings.TrimSpace(req.Message)
	var fields []string
	if req.ReceiverID == 0 {
		fields = append(fields, "receiverId is required")
	}
	if body == "" {
		fields = append(fields, "message is required")
	}
	if len(fields) > 0 {
		return nil, errs.Validation(fields...)
	}

	if req.ReceiverID == senderID {
		return nil, errs.Validation("cannot send a message to yourself")
	}

	receiver, err := s.Users.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	// Messages only flow between the two sides, never within one.
	if senderRole == receiver.Role {
		return nil, errs.ErrForbidden
	}

	msg, err := s.Messages.Create(ctx, senderID, req.ReceiverID, body)
	if err != nil {
		return nil, err
	}

	metrics.MessagesSentTotal.Inc()
	for _, n := range s.notifiers {
		n.MessageSent(msg)
	}
	return msg, nil
}

// Thread returns the conversation with another user, oldest first, plus the
// counterpart's identity, and marks their messages to the viewer as read.
func (s *ChatService) Thread(ctx context.Context, viewerID int64, viewerRole string, otherID int64) ([]*models.Message, *models.Party, error) {
	other, err := s.Users.GetByID(ctx, otherID)
	if err != nil {
		return nil, nil, err
	}
	if viewerRole == other.Role {
		return nil, nil, errs.ErrForbidden
	}

	msgs, err := s.Messages.Thread(ctx, viewerID, otherID)
	if err != nil {
		return nil, nil, err
	}

	// Fetching a thread implies the viewer saw it.
	if _, err := s.Messages.MarkRead(ctx, viewerID, otherID); err != nil {
		return nil, nil, err
	}

	counterpart := &models.Party{
		ID:       other.ID,
		Name:     other.Name,
		Username: other.Username,
		Role:     other.Role,
	}
	return msgs, counterpart, nil
}

// Conversations derives the viewer's conversation list from their messages.
func (s *ChatService) Conversations(ctx context.Context, viewerID int64, viewerRole string) ([]*models.Conversation, error) {
	msgs, err := s.Messages.AllForUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return chat.Aggregate(viewerID, viewerRole, msgs), nil
}

// MarkRead explicitly marks a counterpart's messages as read and returns
// the number updated.
func (s *ChatService) MarkRead(ctx context.Context, viewerID, otherID int64) (int64, error) {
	return s.Messages.MarkRead(ctx, viewerID, otherID)
}

// UnreadCount returns the viewer's total unread messages.
func (s *ChatService) UnreadCount(ctx context.Context, viewerID int64) (int, error) {
	return s.Messages.UnreadCount(ctx, viewerID)
}
