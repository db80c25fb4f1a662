package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/krida-hq/krida-backend/internal/container"
	handlers "github.com/krida-hq/krida-backend/internal/interface/http"
	"github.com/krida-hq/krida-backend/internal/interface/middleware"
	"github.com/krida-hq/krida-backend/pkg/helpers"
)

// AchievementModule wires the achievement lifecycle routes. Everything is
// behind auth: players manage their own records, coaches review the pending
// queue for their sport.

type AchievementModule struct {
	Handler *handlers.AchievementHandler
	JWT     *helpers.JWTManager
}

func NewAchievementModule(h *handlers.AchievementHandler, jwt *helpers.JWTManager) *AchievementModule {
	return &AchievementModule{Handler: h, JWT: jwt}
}

func (m *AchievementModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/achievements")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("/mine", m.Handler.ListMine)
		auth.GET("/pending", m.Handler.ListPending)
		auth.GET("/search", m.Handler.Search)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/verify", m.Handler.Verify)
		auth.POST("/:id/proof", m.Handler.UploadProof)
	}
}
