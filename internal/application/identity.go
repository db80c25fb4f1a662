package application

import "github.com/krida-hq/krida-backend/internal/domain/entity"

// Identity is the resolved caller handed down by the transport layer after
// session authentication. Services never look up the caller themselves.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  entity.Role
	Sport string
}
