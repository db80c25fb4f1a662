package repository

import (
	"context"
	"time"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
)

// AchievementRepository defines persistence for achievement records.
// List methods return newest-created-first. Mutations touch exactly one
// record; the store's row-level atomicity is the only serialization relied
// upon.
type AchievementRepository interface {
	Create(ctx context.Context, a *entity.Achievement) error
	GetByID(ctx context.Context, id string) (*entity.Achievement, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Achievement, error)
	// ListBySportAndStatus joins each record with its owner's display name.
	ListBySportAndStatus(ctx context.Context, sport string, status entity.AchievementStatus) ([]entity.AchievementWithOwner, error)
	Update(ctx context.Context, a *entity.Achievement) error
	Delete(ctx context.Context, id string) error
	// CountBySportAndStatus counts achievements whose owner is a player in
	// the given sport. Used by KPI aggregation.
	CountBySportAndStatus(ctx context.Context, sport string, status entity.AchievementStatus) (int, error)
	// ListUpdatedSince feeds the search reindex sweep.
	ListUpdatedSince(ctx context.Context, since time.Time) ([]entity.Achievement, error)
}
