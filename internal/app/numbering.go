package app

import (
	"context"
	"fmt"
	"time"

	"admitdesk/internal/domain/application"
)

const applicationSequence = "application_number"

// nextApplicationNumber formats a sequence value into a year-scoped
// application identifier, e.g. EXM20260042. The sequence part is padded
// to at least four digits and keeps growing beyond that.
func nextApplicationNumber(ctx context.Context, sequences application.SequenceRepository, now time.Time) (string, error) {
	seq, err := sequences.Next(ctx, applicationSequence)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EXM%d%04d", now.Year(), seq), nil
}
