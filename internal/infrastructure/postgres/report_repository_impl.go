package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/internal/domain/repository"
)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

func (r *RegistrationRepository) CountBySportAndStatus(ctx context.Context, sport string, status entity.RegistrationStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tournament_registrations tr
		JOIN users u ON u.id = tr.player_id
		WHERE u.role = 'player' AND u.sport = $1 AND tr.status = $2
	`, sport, status).Scan(&n)
	return n, err
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func (r *ScheduleRepository) CountSessionsBetween(ctx context.Context, coachID string, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM schedules
		WHERE coach_id = $1 AND session_at >= $2 AND session_at < $3
	`, coachID, from, to).Scan(&n)
	return n, err
}

func (r *ScheduleRepository) CountDistinctRequesters(ctx context.Context, coachID string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT sr.player_id)
		FROM schedule_requests sr
		JOIN schedules s ON s.id = sr.schedule_id
		WHERE s.coach_id = $1 AND sr.created_at >= $2
	`, coachID, since).Scan(&n)
	return n, err
}

func (r *ScheduleRepository) CountRequestsSince(ctx context.Context, coachID string, since time.Time) (total, approved int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE sr.status = 'APPROVED')
		FROM schedule_requests sr
		JOIN schedules s ON s.id = sr.schedule_id
		WHERE s.coach_id = $1 AND sr.created_at >= $2
	`, coachID, since).Scan(&total, &approved)
	return total, approved, err
}

var _ repository.ScheduleRepository = (*ScheduleRepository)(nil)
