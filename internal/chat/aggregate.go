// Package chat derives conversation summaries from flat message lists.
package chat

import (
	"sort"

	"electric-backend/internal/models"
)

// Aggregate groups a viewer's messages by counterpart and builds one
// conversation summary per counterpart. Messages are expected newest first;
// the first message seen per counterpart becomes the preview. Counterparts
// whose role does not match the viewer's allowed side (admins talk to
// customers, customers talk to admins) are skipped.
func Aggregate(viewerID int64, viewerRole string, msgs []*models.Message) []*models.Conversation {
	wantRole := models.RoleAdmin
	if viewerRole == models.RoleAdmin {
		wantRole = models.RoleCustomer
	}

	byID := make(map[int64]*models.Conversation)
	var order []*models.Conversation

	for _, m := range msgs {
		other := m.Sender
		fromMe := m.SenderID == viewerID
		if fromMe {
			other = m.Receiver
		}
		if other.Role != wantRole {
			continue
		}

		conv, ok := byID[other.ID]
		if !ok {
			conv = &models.Conversation{
				UserID:   other.ID,
				Name:     other.Name,
				Username: other.Username,
				Role:     other.Role,
			}
			if viewerRole == models.RoleAdmin {
				conv.Mobile = other.Mobile
				conv.Area = other.Area
			}
			byID[other.ID] = conv
			order = append(order, conv)
		}

		if conv.LastMessage == nil || m.CreatedAt.After(conv.LastMessage.CreatedAt) {
			conv.LastMessage = &models.LastMessage{
				Message:   m.Body,
				CreatedAt: m.CreatedAt,
				IsFromMe:  fromMe,
			}
		}
		if !fromMe && !m.IsRead {
			conv.UnreadCount++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].LastMessage.CreatedAt.After(order[j].LastMessage.CreatedAt)
	})
	return order
}
