package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studytracker-api/internal/models"
	appErrors "github.com/noah-isme/studytracker-api/pkg/errors"
)

type goalRepository interface {
	List(ctx context.Context, filter models.GoalFilter) ([]models.Goal, error)
	FindByID(ctx context.Context, id string) (*models.Goal, error)
	Create(ctx context.Context, goal *models.Goal) error
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, id string) error
}

type minutesTotaler interface {
	TotalMinutes(ctx context.Context, since time.Time) (int, error)
}

// CreateGoalRequest captures fields for creating goals.
type CreateGoalRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	TargetMinutes int             `json:"target_minutes" validate:"gt=0"`
	Type          models.GoalType `json:"type" validate:"required,oneof=DAILY WEEKLY MONTHLY"`
	Active        *bool           `json:"active"`
}

// UpdateGoalRequest replaces the mutable goal fields. A nil Active keeps the
// current flag.
type UpdateGoalRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	TargetMinutes int             `json:"target_minutes" validate:"gt=0"`
	Type          models.GoalType `json:"type" validate:"required,oneof=DAILY WEEKLY MONTHLY"`
	Active        *bool           `json:"active"`
}

// GoalServiceParams groups constructor dependencies.
type GoalServiceParams struct {
	Goals     goalRepository
	Sessions  minutesTotaler
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Location  *time.Location
}

// GoalService handles goal workflows and progress reporting.
type GoalService struct {
	repo      goalRepository
	sessions  minutesTotaler
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewGoalService creates a new goal service.
func NewGoalService(params GoalServiceParams) *GoalService {
	validate := params.Validator
	if validate == nil {
		validate = NewValidator()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &GoalService{
		repo:      params.Goals,
		sessions:  params.Sessions,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		location:  loc,
		now:       time.Now,
	}
}

// List returns goals newest first.
func (s *GoalService) List(ctx context.Context, activeOnly bool) ([]models.Goal, error) {
	goals, err := s.repo.List(ctx, models.GoalFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list goals")
	}
	return goals, nil
}

// Get returns goal by identifier.
func (s *GoalService) Get(ctx context.Context, id string) (*models.Goal, error) {
	goal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "goal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load goal")
	}
	return goal, nil
}

// Create validates and stores a new goal. Goals start active unless told otherwise.
func (s *GoalService) Create(ctx context.Context, req CreateGoalRequest) (*models.Goal, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = models.GoalType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid goal payload")
	}

	goal := &models.Goal{
		Name:          req.Name,
		TargetMinutes: req.TargetMinutes,
		Type:          req.Type,
		Active:        true,
	}
	if req.Active != nil {
		goal.Active = *req.Active
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create goal")
	}
	s.logger.Info("goal created", zap.String("goal_id", goal.ID), zap.String("type", string(goal.Type)), zap.Int("target_minutes", goal.TargetMinutes))
	return goal, nil
}

// Update replaces name, target, type and active flag of an existing goal.
func (s *GoalService) Update(ctx context.Context, id string, req UpdateGoalRequest) (*models.Goal, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = models.GoalType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid goal payload")
	}

	goal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	goal.Name = req.Name
	goal.TargetMinutes = req.TargetMinutes
	goal.Type = req.Type
	if req.Active != nil {
		goal.Active = *req.Active
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update goal")
	}
	s.cache.InvalidateReports(ctx)
	s.logger.Info("goal updated", zap.String("goal_id", goal.ID))
	return goal, nil
}

// Delete removes a goal. Deleting an unknown id succeeds.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete goal")
	}
	s.cache.InvalidateReports(ctx)
	s.logger.Info("goal deleted", zap.String("goal_id", id))
	return nil
}

// Progress sums the minutes studied inside the goal's current window. The
// boolean reports whether the payload came from cache.
func (s *GoalService) Progress(ctx context.Context, id string) (*models.GoalProgress, bool, error) {
	key := cacheKey("progress", id)
	var cached models.GoalProgress
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	goal, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	windowStart := GoalWindowStart(goal.Type, s.now(), s.location)
	start := time.Now()
	current, err := s.sessions.TotalMinutes(ctx, windowStart)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum study minutes")
	}
	s.metrics.ObserveQuery("total_minutes", time.Since(start))

	progress := &models.GoalProgress{
		Goal:           *goal,
		CurrentMinutes: current,
		TargetMinutes:  goal.TargetMinutes,
		Percentage:     ProgressPercentage(current, goal.TargetMinutes),
		WindowStart:    windowStart,
	}
	s.cache.Set(ctx, key, progress)
	return progress, false, nil
}
