package entity

import "time"

// RegistrationStatus is the state of a tournament registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "PENDING"
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)

// TournamentRegistration links a player to a tournament. Read-only input to
// coach KPI aggregation; registration lifecycle lives outside this service.
type TournamentRegistration struct {
	ID         string
	PlayerID   string
	Tournament string
	Status     RegistrationStatus
	CreatedAt  time.Time
}
