package user

import (
	"time"

	"admitdesk/internal/common"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User mirrors an identity minted by the external phone verifier. UID is the
// verifier's stable id; Role is the only server-side source of privilege.
type User struct {
	ID          common.UUID `json:"id"`
	UID         string      `json:"uid"`
	PhoneNumber string      `json:"phone_number"`
	Role        Role        `json:"role"`
	DisplayName string      `json:"display_name,omitempty"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	Email       string      `json:"email,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
