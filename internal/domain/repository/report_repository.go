package repository

import (
	"context"
	"time"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
)

// RegistrationRepository exposes the grouped-count queries KPI aggregation
// needs over tournament registrations. Registrations are never mutated here.
type RegistrationRepository interface {
	// CountBySportAndStatus counts registrations of players in the given
	// sport with the given registration status.
	CountBySportAndStatus(ctx context.Context, sport string, status entity.RegistrationStatus) (int, error)
}

// ScheduleRepository exposes the read-only schedule queries KPI aggregation
// needs.
type ScheduleRepository interface {
	// CountSessionsBetween counts a coach's sessions with date in [from, to).
	CountSessionsBetween(ctx context.Context, coachID string, from, to time.Time) (int, error)
	// CountDistinctRequesters counts distinct players with a request created
	// at or after since under the coach's schedules.
	CountDistinctRequesters(ctx context.Context, coachID string, since time.Time) (int, error)
	// CountRequestsSince returns total and approved request counts created
	// at or after since under the coach's schedules.
	CountRequestsSince(ctx context.Context, coachID string, since time.Time) (total, approved int, err error)
}
