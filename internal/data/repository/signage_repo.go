package repository

import (
	"context"
	"fmt"
	"time"

	"vehicle-booking/internal/data/entity"
	"vehicle-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SignageRepository interface {
	// FindOrCreate returns the signage for label, minting a random id the
	// first time the label is seen.
	FindOrCreate(ctx context.Context, label string, now time.Time) (*entity.Signage, error)
}

type signageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSignageRepository(db database.PgxIface, log *zap.Logger) SignageRepository {
	return &signageRepository{
		db:  db,
		log: log.With(zap.String("repository", "signage")),
	}
}

func (r *signageRepository) FindOrCreate(ctx context.Context, label string, now time.Time) (*entity.Signage, error) {
	query := `
		INSERT INTO signages (id, label, last_used_at, created_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (label) DO UPDATE SET last_used_at = EXCLUDED.last_used_at
		RETURNING id, label, last_used_at, created_at
	`

	var signage entity.Signage
	err := r.db.QueryRow(ctx, query, uuid.New(), label, now).Scan(
		&signage.ID,
		&signage.Label,
		&signage.LastUsedAt,
		&signage.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert signage",
			zap.Error(err),
			zap.String("label", label),
		)
		return nil, fmt.Errorf("find or create signage %s: %w", label, err)
	}

	return &signage, nil
}
