package department

import (
	"time"

	"admitdesk/internal/common"
)

type Department struct {
	ID          common.UUID `json:"id"`
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Subjects    []string    `json:"subjects"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
