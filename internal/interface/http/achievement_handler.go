package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/krida-hq/krida-backend/internal/application"
	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/pkg/response"
	"github.com/krida-hq/krida-backend/pkg/validation"
)

const maxProofSize = 10 << 20 // 10 MiB

type AchievementHandler struct {
	Svc    *application.AchievementService
	Logger *logrus.Logger
}

func NewAchievementHandler(svc *application.AchievementService, logger *logrus.Logger) *AchievementHandler {
	return &AchievementHandler{Svc: svc, Logger: logger}
}

type createAchievementRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Sport       string `json:"sport" binding:"required,sportname"`
	Venue       string `json:"venue" binding:"required"`
	Description string `json:"description"`
	ProofURL    string `json:"proof_url" binding:"omitempty,url"`
}

// updateAchievementRequest uses pointers so absent keys and empty values are
// distinguishable: absent means leave unchanged.
type updateAchievementRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Sport       *string `json:"sport" binding:"omitempty,sportname"`
	Venue       *string `json:"venue"`
	Description *string `json:"description"`
}

type verifyRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Reason   string `json:"reason"`
}

func (h *AchievementHandler) Create(c *gin.Context) {
	var req createAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid date", nil)
		return
	}

	a, err := h.Svc.Create(c.Request.Context(), identityFromCtx(c), application.CreateAchievementInput{
		Title:       req.Title,
		Date:        date,
		Sport:       req.Sport,
		Venue:       req.Venue,
		Description: req.Description,
		ProofURL:    req.ProofURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, renderAchievement(a), "achievement submitted", nil)
}

func (h *AchievementHandler) Update(c *gin.Context) {
	var req updateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateAchievementInput{
		Title:       req.Title,
		Sport:       req.Sport,
		Venue:       req.Venue,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid date", nil)
			return
		}
		in.Date = &date
	}

	a, err := h.Svc.Update(c.Request.Context(), identityFromCtx(c), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, renderAchievement(a), "achievement updated", nil)
}

func (h *AchievementHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), identityFromCtx(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "achievement deleted", nil)
}

func (h *AchievementHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	a, err := h.Svc.Verify(c.Request.Context(), identityFromCtx(c), c.Param("id"), entity.AchievementStatus(req.Decision), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, renderAchievement(a), "verification recorded", nil)
}

func (h *AchievementHandler) ListMine(c *gin.Context) {
	list, err := h.Svc.ListMine(c.Request.Context(), identityFromCtx(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, renderAchievements(list), "my achievements", map[string]any{"count": len(list)})
}

func (h *AchievementHandler) ListPending(c *gin.Context) {
	list, err := h.Svc.ListPendingForCoach(c.Request.Context(), identityFromCtx(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, renderAchievementsWithOwner(list), "pending achievements", map[string]any{"count": len(list)})
}

// UploadProof accepts a multipart file and attaches it to the achievement.
func (h *AchievementHandler) UploadProof(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	if fh.Size > maxProofSize {
		response.Error[any](c, http.StatusBadRequest, "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	a, err := h.Svc.AttachProof(c.Request.Context(), identityFromCtx(c), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, renderAchievement(a), "proof attached", nil)
}

// Search runs a full-text query over the achievement index.
func (h *AchievementHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("search failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
