package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/internal/domain/repository"
)

type AchievementRepository struct {
	pool *pgxpool.Pool
}

func NewAchievementRepository(pool *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{pool: pool}
}

const achievementColumns = `id, owner_id, title, achieved_on, description, proof_url, sport, venue,
	status, decision_reason, verified_by_id, verified_by_name, verified_at, created_at, updated_at`

func scanAchievement(row pgx.Row, a *entity.Achievement) error {
	return row.Scan(&a.ID, &a.OwnerID, &a.Title, &a.Date, &a.Description, &a.ProofURL,
		&a.Sport, &a.Venue, &a.Status, &a.DecisionReason, &a.VerifiedByID,
		&a.VerifiedByName, &a.VerifiedAt, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AchievementRepository) Create(ctx context.Context, a *entity.Achievement) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO achievements (owner_id, title, achieved_on, description, proof_url, sport, venue, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, a.OwnerID, a.Title, a.Date, a.Description, a.ProofURL, a.Sport, a.Venue, a.Status)

	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AchievementRepository) GetByID(ctx context.Context, id string) (*entity.Achievement, error) {
	a := &entity.Achievement{}
	row := r.pool.QueryRow(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = $1`, id)
	if err := scanAchievement(row, a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AchievementRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Achievement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+achievementColumns+`
		FROM achievements
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Achievement{}
	for rows.Next() {
		var a entity.Achievement
		if err := scanAchievement(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AchievementRepository) ListBySportAndStatus(ctx context.Context, sport string, status entity.AchievementStatus) ([]entity.AchievementWithOwner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.owner_id, a.title, a.achieved_on, a.description, a.proof_url, a.sport, a.venue,
		       a.status, a.decision_reason, a.verified_by_id, a.verified_by_name, a.verified_at,
		       a.created_at, a.updated_at, u.name
		FROM achievements a
		JOIN users u ON u.id = a.owner_id
		WHERE a.sport = $1 AND a.status = $2
		ORDER BY a.created_at DESC
	`, sport, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.AchievementWithOwner{}
	for rows.Next() {
		var a entity.AchievementWithOwner
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Title, &a.Date, &a.Description, &a.ProofURL,
			&a.Sport, &a.Venue, &a.Status, &a.DecisionReason, &a.VerifiedByID,
			&a.VerifiedByName, &a.VerifiedAt, &a.CreatedAt, &a.UpdatedAt, &a.OwnerName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AchievementRepository) Update(ctx context.Context, a *entity.Achievement) error {
	a.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE achievements
		SET title = $1, achieved_on = $2, description = $3, proof_url = $4, sport = $5, venue = $6,
		    status = $7, decision_reason = $8, verified_by_id = $9, verified_by_name = $10,
		    verified_at = $11, updated_at = $12
		WHERE id = $13
	`, a.Title, a.Date, a.Description, a.ProofURL, a.Sport, a.Venue,
		a.Status, a.DecisionReason, a.VerifiedByID, a.VerifiedByName,
		a.VerifiedAt, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AchievementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM achievements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AchievementRepository) CountBySportAndStatus(ctx context.Context, sport string, status entity.AchievementStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM achievements a
		JOIN users u ON u.id = a.owner_id
		WHERE u.role = 'player' AND u.sport = $1 AND a.status = $2
	`, sport, status).Scan(&n)
	return n, err
}

func (r *AchievementRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]entity.Achievement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+achievementColumns+`
		FROM achievements
		WHERE updated_at >= $1
		ORDER BY updated_at
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Achievement{}
	for rows.Next() {
		var a entity.Achievement
		if err := scanAchievement(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ repository.AchievementRepository = (*AchievementRepository)(nil)
