package application

import (
	"testing"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
)

func TestIsOwner(t *testing.T) {
	a := &entity.Achievement{ID: "a1", OwnerID: "p1"}

	if !isOwner(Identity{ID: "p1"}, a) {
		t.Fatal("owner must pass")
	}
	if isOwner(Identity{ID: "p2"}, a) {
		t.Fatal("non-owner must fail")
	}
	if isOwner(Identity{ID: "c1", Role: entity.RoleCoach, Sport: "cricket"}, a) {
		t.Fatal("coaches get no ownership shortcut")
	}
}

func TestCanVerify(t *testing.T) {
	a := &entity.Achievement{ID: "a1", OwnerID: "p1", Sport: "cricket"}

	tests := []struct {
		name   string
		caller Identity
		want   bool
	}{
		{"coach in sport", Identity{ID: "c1", Role: entity.RoleCoach, Sport: "cricket"}, true},
		{"coach in other sport", Identity{ID: "c2", Role: entity.RoleCoach, Sport: "football"}, false},
		{"coach without sport", Identity{ID: "c3", Role: entity.RoleCoach}, false},
		{"player in sport", Identity{ID: "p2", Role: entity.RolePlayer, Sport: "cricket"}, false},
		{"owner", Identity{ID: "p1", Role: entity.RolePlayer, Sport: "cricket"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canVerify(tt.caller, a); got != tt.want {
				t.Fatalf("canVerify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanListPending(t *testing.T) {
	tests := []struct {
		name   string
		caller Identity
		want   bool
	}{
		{"coach with sport", Identity{ID: "c1", Role: entity.RoleCoach, Sport: "cricket"}, true},
		{"coach without sport", Identity{ID: "c2", Role: entity.RoleCoach}, false},
		{"player with sport", Identity{ID: "p1", Role: entity.RolePlayer, Sport: "cricket"}, false},
		{"empty identity", Identity{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canListPending(tt.caller); got != tt.want {
				t.Fatalf("canListPending = %v, want %v", got, tt.want)
			}
		})
	}
}
