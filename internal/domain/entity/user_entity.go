package entity

import (
	"time"
)

// Role scopes what a user may do. A coach is tied to exactly one sport and
// may only act on achievements in that sport.
type Role string

const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Role      Role
	Sport     string // empty unless affiliated with a sport; required for coaches
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCoach reports whether the user is a coach with a sport affiliation.
// A coach without a sport cannot verify or list anything.
func (u *User) IsCoach() bool {
	return u.Role == RoleCoach && u.Sport != ""
}
