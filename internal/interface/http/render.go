package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/krida-hq/krida-backend/internal/application"
	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/pkg/apperr"
	"github.com/krida-hq/krida-backend/pkg/response"
)

// identityFromCtx rebuilds the caller identity from the keys the auth
// middleware stored.
func identityFromCtx(c *gin.Context) application.Identity {
	return application.Identity{
		ID:    c.GetString("userID"),
		Name:  c.GetString("userName"),
		Email: c.GetString("userEmail"),
		Role:  entity.Role(c.GetString("userRole")),
		Sport: c.GetString("userSport"),
	}
}

// writeError renders a classified service error with its mapped status and
// public message.
func writeError(c *gin.Context, err error) {
	response.Error[any](c, apperr.HTTPStatus(err), apperr.PublicMessage(err), nil)
}

type achievementJSON struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	OwnerName      string     `json:"owner_name,omitempty"`
	Title          string     `json:"title"`
	Date           string     `json:"date"`
	Description    string     `json:"description,omitempty"`
	ProofURL       string     `json:"proof_url,omitempty"`
	Sport          string     `json:"sport"`
	Venue          string     `json:"venue"`
	Status         string     `json:"status"`
	DecisionReason *string    `json:"decision_reason,omitempty"`
	VerifiedByID   *string    `json:"verified_by_id,omitempty"`
	VerifiedByName *string    `json:"verified_by_name,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func renderAchievement(a *entity.Achievement) achievementJSON {
	return achievementJSON{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		Title:          a.Title,
		Date:           a.Date.Format("2006-01-02"),
		Description:    a.Description,
		ProofURL:       a.ProofURL,
		Sport:          a.Sport,
		Venue:          a.Venue,
		Status:         string(a.Status),
		DecisionReason: a.DecisionReason,
		VerifiedByID:   a.VerifiedByID,
		VerifiedByName: a.VerifiedByName,
		VerifiedAt:     a.VerifiedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func renderAchievements(list []entity.Achievement) []achievementJSON {
	out := make([]achievementJSON, 0, len(list))
	for i := range list {
		out = append(out, renderAchievement(&list[i]))
	}
	return out
}

func renderAchievementsWithOwner(list []entity.AchievementWithOwner) []achievementJSON {
	out := make([]achievementJSON, 0, len(list))
	for i := range list {
		j := renderAchievement(&list[i].Achievement)
		j.OwnerName = list[i].OwnerName
		out = append(out, j)
	}
	return out
}
