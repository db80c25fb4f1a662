package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/krida-hq/krida-backend/internal/application"
	"github.com/krida-hq/krida-backend/pkg/response"
)

type ReportHandler struct {
	Svc    *application.ReportService
	Logger *logrus.Logger
}

func NewReportHandler(svc *application.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{Svc: svc, Logger: logger}
}

// CoachKPIs returns the caller's dashboard snapshot.
func (h *ReportHandler) CoachKPIs(c *gin.Context) {
	k, err := h.Svc.ComputeCoachKPIs(c.Request.Context(), identityFromCtx(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, k, "coach kpis", nil)
}
