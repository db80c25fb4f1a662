package application

import "time"

// DecisionEvent is published to RabbitMQ whenever a coach decides on an
// achievement. The notify worker consumes it and emails the owner.
type DecisionEvent struct {
	AchievementID string    `json:"achievement_id"`
	Title         string    `json:"title"`
	OwnerID       string    `json:"owner_id"`
	Decision      string    `json:"decision"`
	Reason        string    `json:"reason,omitempty"`
	CoachName     string    `json:"coach_name"`
	DecidedAt     time.Time `json:"decided_at"`
}
