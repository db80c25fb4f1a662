package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/krida-hq/krida-backend/config"
	"github.com/krida-hq/krida-backend/pkg/helpers"
)

// seed loads a demo coach, two players, and a handful of achievements,
// registrations, and schedule requests so the dashboard has data.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	coachID := upsertUser(db, "coach@krida.dev", hash, "Coach Kapil", "coach", "cricket")
	playerA := upsertUser(db, "priya@krida.dev", hash, "Priya Sharma", "player", "cricket")
	playerB := upsertUser(db, "rahul@krida.dev", hash, "Rahul Verma", "player", "cricket")
	fmt.Printf("seeded users (password=%s): coach=%s players=%s,%s\n", password, coachID, playerA, playerB)

	mustExec(db, `
		INSERT INTO achievements (owner_id, title, achieved_on, description, sport, venue, status)
		VALUES
			($1, 'District U-19 Winner', '2024-01-15', 'Won the district final', 'cricket', 'Delhi', 'PENDING'),
			($1, 'Best Bowler Award', '2023-11-02', '', 'cricket', 'Jaipur', 'PENDING'),
			($2, 'State Trials Selection', '2024-02-20', 'Selected for state trials', 'cricket', 'Mumbai', 'PENDING')
		ON CONFLICT DO NOTHING
	`, playerA, playerB)

	mustExec(db, `
		INSERT INTO tournament_registrations (player_id, tournament_name, status)
		VALUES
			($1, 'Summer Cup 2026', 'PENDING'),
			($2, 'Summer Cup 2026', 'CONFIRMED')
		ON CONFLICT DO NOTHING
	`, playerA, playerB)

	var scheduleID string
	if err := db.QueryRow(`
		INSERT INTO schedules (coach_id, title, session_at)
		VALUES ($1, 'Net practice', $2)
		RETURNING id
	`, coachID, time.Now().AddDate(0, 0, 2)).Scan(&scheduleID); err != nil {
		log.Fatalf("failed to seed schedule: %v", err)
	}

	mustExec(db, `
		INSERT INTO schedule_requests (schedule_id, player_id, status)
		VALUES ($1, $2, 'APPROVED'), ($1, $3, 'PENDING')
		ON CONFLICT DO NOTHING
	`, scheduleID, playerA, playerB)

	fmt.Println("seed complete")
}

func upsertUser(db *sql.DB, email, hash, name, role, sport string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, sport)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role, sport = EXCLUDED.sport
		RETURNING id
	`, email, hash, name, role, sport).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

func mustExec(db *sql.DB, query string, args ...any) {
	if _, err := db.Exec(query, args...); err != nil {
		log.Fatalf("seed query failed: %v", err)
	}
}
