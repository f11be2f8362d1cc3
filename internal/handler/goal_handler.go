package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studytracker-api/internal/middleware"
	"github.com/noah-isme/studytracker-api/internal/models"
	"github.com/noah-isme/studytracker-api/internal/service"
	appErrors "github.com/noah-isme/studytracker-api/pkg/errors"
	"github.com/noah-isme/studytracker-api/pkg/response"
)

type goalService interface {
	List(ctx context.Context, activeOnly bool) ([]models.Goal, error)
	Get(ctx context.Context, id string) (*models.Goal, error)
	Create(ctx context.Context, req service.CreateGoalRequest) (*models.Goal, error)
	Update(ctx context.Context, id string, req service.UpdateGoalRequest) (*models.Goal, error)
	Delete(ctx context.Context, id string) error
	Progress(ctx context.Context, id string) (*models.GoalProgress, bool, error)
}

// GoalHandler handles goal endpoints.
type GoalHandler struct {
	service goalService
}

// NewGoalHandler constructs a goal handler.
func NewGoalHandler(svc goalService) *GoalHandler {
	return &GoalHandler{service: svc}
}

// List godoc
// @Summary List goals
// @Description Newest first.
// @Tags Goals
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Goal}
// @Router /goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListActive godoc
// @Summary List active goals
// @Tags Goals
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Goal}
// @Router /goals/active [get]
func (h *GoalHandler) ListActive(c *gin.Context) {
	h.list(c, true)
}

func (h *GoalHandler) list(c *gin.Context, activeOnly bool) {
	goals, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, goals)
}

// Get godoc
// @Summary Get goal by id
// @Tags Goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} response.Envelope{data=models.Goal}
// @Failure 404 {object} response.Envelope
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	goal, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, goal)
}

// Create godoc
// @Summary Create goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param payload body service.CreateGoalRequest true "Goal payload"
// @Success 201 {object} response.Envelope{data=models.Goal}
// @Failure 400 {object} response.Envelope
// @Router /goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req service.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	goal, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, goal)
}

// Update godoc
// @Summary Update goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param payload body service.UpdateGoalRequest true "Goal payload"
// @Success 200 {object} response.Envelope{data=models.Goal}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	var req service.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	goal, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, goal)
}

// Delete godoc
// @Summary Delete goal
// @Description Succeeds whether or not the goal exists.
// @Tags Goals
// @Param id path string true "Goal ID"
// @Success 204
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Progress godoc
// @Summary Goal progress
// @Description Minutes studied inside the goal's current window against its target.
// @Tags Goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} response.Envelope{data=models.GoalProgress}
// @Failure 404 {object} response.Envelope
// @Router /goals/{id}/progress [get]
func (h *GoalHandler) Progress(c *gin.Context) {
	progress, cacheHit, err := h.service.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, progress, middleware.ExtractMeta(c))
}
