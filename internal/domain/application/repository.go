package application

import (
	"context"

	"admitdesk/internal/common"
)

// ListFilter narrows the admin listing. State filters on the stored flags,
// not the display label: an approved filter also returns records that have
// since been qualified or disqualified. Search matches application number,
// candidate name, mobile number or email.
type ListFilter struct {
	State        State
	DepartmentID string
	Search       string
}

type Stats struct {
	Total        int `json:"total"`
	Approved     int `json:"approved"`
	Disapproved  int `json:"disapproved"`
	Qualified    int `json:"qualified"`
	Disqualified int `json:"disqualified"`
}

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	GetByNumber(ctx context.Context, applicationNo string) (*Application, error)
	Update(ctx context.Context, app Application) (*Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]Application, int, error)
	Stats(ctx context.Context) (*Stats, error)
}

// SequenceRepository issues monotonically increasing integers per named
// counter. Next must be a single atomic increment-and-fetch.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
