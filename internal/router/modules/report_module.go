package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/krida-hq/krida-backend/internal/container"
	handlers "github.com/krida-hq/krida-backend/internal/interface/http"
	"github.com/krida-hq/krida-backend/internal/interface/middleware"
	"github.com/krida-hq/krida-backend/pkg/helpers"
)

// ReportModule exposes the coach dashboard KPI snapshot.

type ReportModule struct {
	Handler *handlers.ReportHandler
	JWT     *helpers.JWTManager
}

func NewReportModule(h *handlers.ReportHandler, jwt *helpers.JWTManager) *ReportModule {
	return &ReportModule{Handler: h, JWT: jwt}
}

func (m *ReportModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/reports")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/coach-kpis", m.Handler.CoachKPIs)
	}
}
