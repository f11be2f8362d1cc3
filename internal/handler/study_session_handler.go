package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studytracker-api/internal/middleware"
	"github.com/noah-isme/studytracker-api/internal/models"
	"github.com/noah-isme/studytracker-api/internal/service"
	appErrors "github.com/noah-isme/studytracker-api/pkg/errors"
	"github.com/noah-isme/studytracker-api/pkg/response"
)

type studySessionService interface {
	List(ctx context.Context) ([]models.StudySession, error)
	Range(ctx context.Context, rawFrom, rawTo string) ([]models.StudySession, *models.SessionRange, error)
	Get(ctx context.Context, id string) (*models.StudySession, error)
	Create(ctx context.Context, req service.CreateSessionRequest) (*models.StudySession, error)
	Delete(ctx context.Context, id string) error
	Analytics(ctx context.Context, rawPeriod string) (*models.SessionAnalytics, bool, error)
}

type sessionExporter interface {
	Export(ctx context.Context, rawFormat, rawPeriod string) (*service.ExportResult, error)
}

// StudySessionHandler handles study session endpoints.
type StudySessionHandler struct {
	service  studySessionService
	exporter sessionExporter
}

// NewStudySessionHandler constructs a study session handler.
func NewStudySessionHandler(svc studySessionService, exporter sessionExporter) *StudySessionHandler {
	return &StudySessionHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List study sessions
// @Description Latest start time first.
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.StudySession}
// @Router /sessions [get]
func (h *StudySessionHandler) List(c *gin.Context) {
	sessions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sessions)
}

// Range godoc
// @Summary List study sessions in a time range
// @Description Bounds accept RFC 3339 or expressions such as "yesterday" or "2 weeks ago".
// @Tags Sessions
// @Produce json
// @Param from query string false "Range start (default: a week before to)"
// @Param to query string false "Range end (default: now)"
// @Success 200 {object} response.Envelope{data=[]models.StudySession}
// @Failure 400 {object} response.Envelope
// @Router /sessions/range [get]
func (h *StudySessionHandler) Range(c *gin.Context) {
	sessions, rng, err := h.service.Range(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sessions, map[string]interface{}{
		"from":  rng.From.Format(time.RFC3339),
		"to":    rng.To.Format(time.RFC3339),
		"count": len(sessions),
	})
}

// Get godoc
// @Summary Get study session by id
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope{data=models.StudySession}
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *StudySessionHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// Create godoc
// @Summary Log study session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope{data=models.StudySession}
// @Failure 400 {object} response.Envelope
// @Router /sessions [post]
func (h *StudySessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Delete godoc
// @Summary Delete study session
// @Description Succeeds whether or not the session exists.
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *StudySessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Analytics godoc
// @Summary Study analytics by period
// @Description Total minutes and per-subject breakdown. Unknown periods are treated as weekly.
// @Tags Sessions
// @Produce json
// @Param period path string true "daily, weekly or monthly"
// @Success 200 {object} response.Envelope{data=models.SessionAnalytics}
// @Router /sessions/analytics/{period} [get]
func (h *StudySessionHandler) Analytics(c *gin.Context) {
	analytics, cacheHit, err := h.service.Analytics(c.Request.Context(), c.Param("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, analytics, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export study sessions
// @Description Renders the sessions of an analytics window as a download.
// @Tags Sessions
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param period query string false "daily, weekly or monthly" default(weekly)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /sessions/export [get]
func (h *StudySessionHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrUnavailable)
		return
	}
	result, err := h.exporter.Export(c.Request.Context(), c.DefaultQuery("format", "csv"), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
