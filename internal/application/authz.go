package application

import "github.com/krida-hq/krida-backend/internal/domain/entity"

// Authorization predicates. All are pure and evaluated before any mutation;
// if a predicate fails, nothing has been written.

func isOwner(caller Identity, a *entity.Achievement) bool {
	return caller.ID == a.OwnerID
}

// canVerify requires a coach with a sport affiliation matching the
// achievement's sport.
func canVerify(caller Identity, a *entity.Achievement) bool {
	return caller.Role == entity.RoleCoach && caller.Sport != "" && caller.Sport == a.Sport
}

func canListPending(caller Identity) bool {
	return caller.Role == entity.RoleCoach && caller.Sport != ""
}
