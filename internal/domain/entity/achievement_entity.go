package entity

import (
	"time"
)

// AchievementStatus is the verification state of an achievement claim.
type AchievementStatus string

const (
	StatusPending  AchievementStatus = "PENDING"
	StatusApproved AchievementStatus = "APPROVED"
	StatusRejected AchievementStatus = "REJECTED"
)

// Achievement is a player's claimed accomplishment awaiting (or having
// received) coach verification.
//
// Invariants:
//   - Status starts at PENDING; only a verification moves it elsewhere.
//   - DecisionReason is set iff Status is REJECTED.
//   - VerifiedByID/VerifiedByName/VerifiedAt are stamped together by the
//     verification action, never by owner edits.
//   - Once APPROVED the record is immutable to its owner.
type Achievement struct {
	ID             string
	OwnerID        string
	Title          string
	Date           time.Time
	Description    string
	ProofURL       string
	Sport          string
	Venue          string
	Status         AchievementStatus
	DecisionReason *string
	VerifiedByID   *string
	VerifiedByName *string
	VerifiedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AchievementWithOwner decorates an achievement with the submitting
// player's display name for coach-facing listings.
type AchievementWithOwner struct {
	Achievement
	OwnerName string
}
