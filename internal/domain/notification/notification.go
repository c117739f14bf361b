package notification

import (
	"time"

	"admitdesk/internal/common"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Notification is one outbound message. Status is terminal once sent or
// failed; there is no retry scheduler here — a polling consumer picks up
// pending items via ListPending.
type Notification struct {
	ID        common.UUID       `json:"id"`
	UserID    string            `json:"user_id"`
	Channel   Channel           `json:"channel"`
	Message   string            `json:"message"`
	Status    Status            `json:"status"`
	SendAt    time.Time         `json:"send_at"`
	SentAt    *time.Time        `json:"sent_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
