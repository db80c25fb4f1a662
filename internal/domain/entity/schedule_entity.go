package entity

import "time"

// RequestStatus is the approval state of a schedule request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Schedule is a coaching session offered by a coach.
type Schedule struct {
	ID        string
	CoachID   string
	Title     string
	SessionAt time.Time
	CreatedAt time.Time
}

// ScheduleRequest is a player's request to join a coach's schedule.
// Read-only input to coach KPI aggregation.
type ScheduleRequest struct {
	ID         string
	ScheduleID string
	PlayerID   string
	Status     RequestStatus
	CreatedAt  time.Time
}
