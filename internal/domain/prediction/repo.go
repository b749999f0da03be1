package prediction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Upsert(ctx context.Context, rec *PredictionRecord) error
	GetByHospitalAndDate(ctx context.Context, hospitalID uuid.UUID, day time.Time) (*PredictionRecord, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*PredictionRecord, int, error)
}

// FestivalRepository backs calendar enrichment and satisfies FestivalSource.
type FestivalRepository interface {
	IsFestival(ctx context.Context, day time.Time) (bool, error)
	Add(ctx context.Context, day time.Time, name string) error
}
