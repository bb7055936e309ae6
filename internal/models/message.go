package models

import "time"

// Party is the summarized identity attached to messages and conversations.
// Mobile and area are populated only for admin viewers.
type Party struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Mobile   string `json:"mobile,omitempty"`
	Area     string `json:"area,omitempty"`
}

// Message is immutable once created except for the unread -> read transition.
type Message struct {
	ID         int64      `json:"id"`
	SenderID   int64      `json:"-"`
	ReceiverID int64      `json:"-"`
	Sender     Party      `json:"sender"`
	Receiver   Party      `json:"receiver"`
	Body       string     `json:"message"`
	IsRead     bool       `json:"isRead"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LastMessage is the preview carried on a conversation summary.
type LastMessage struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IsFromMe  bool      `json:"isFromMe"`
}

// Conversation is derived on every aggregation request; never persisted.
type Conversation struct {
	UserID      int64        `json:"userId"`
	Name        string       `json:"name"`
	Username    string       `json:"username"`
	Role        string       `json:"role"`
	Mobile      string       `json:"mobile,omitempty"`
	Area        string       `json:"area,omitempty"`
	LastMessage *LastMessage `json:"lastMessage"`
	UnreadCount int          `json:"unreadCount"`
}

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId"`
	Message    string `json:"message"`
}
