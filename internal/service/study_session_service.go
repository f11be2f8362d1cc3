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
	"github.com/noah-isme/studytracker-api/pkg/timeparse"
)

type studySessionRepository interface {
	List(ctx context.Context) ([]models.StudySession, error)
	ListBetween(ctx context.Context, rng models.SessionRange) ([]models.StudySession, error)
	FindByID(ctx context.Context, id string) (*models.StudySession, error)
	Create(ctx context.Context, session *models.StudySession) error
	Delete(ctx context.Context, id string) error
	MinutesBySubject(ctx context.Context, since time.Time) ([]models.SubjectMinutes, error)
	TotalMinutes(ctx context.Context, since time.Time) (int, error)
}

// CreateSessionRequest captures fields for logging a study session.
type CreateSessionRequest struct {
	Subject         string     `json:"subject" validate:"required,max=255"`
	DurationMinutes int        `json:"duration_minutes" validate:"gt=0"`
	Notes           *string    `json:"notes" validate:"omitempty,max=1000"`
	StartTime       *time.Time `json:"start_time"`
}

// StudySessionServiceParams groups constructor dependencies.
type StudySessionServiceParams struct {
	Sessions  studySessionRepository
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// StudySessionService handles session workflows and period analytics.
type StudySessionService struct {
	repo      studySessionRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudySessionService creates a new study session service.
func NewStudySessionService(params StudySessionServiceParams) *StudySessionService {
	validate := params.Validator
	if validate == nil {
		validate = NewValidator()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudySessionService{
		repo:      params.Sessions,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every session, latest start first.
func (s *StudySessionService) List(ctx context.Context) ([]models.StudySession, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Range lists sessions started between from and to. Both accept RFC 3339 or
// natural language; to defaults to now and from to a week before to.
func (s *StudySessionService) Range(ctx context.Context, rawFrom, rawTo string) ([]models.StudySession, *models.SessionRange, error) {
	now := s.now()
	to, err := timeparse.Parse(rawTo, now)
	if err != nil {
		return nil, nil, fieldError("to", err.Error(), "invalid session range")
	}
	from := to.AddDate(0, 0, -7)
	if strings.TrimSpace(rawFrom) != "" {
		if from, err = timeparse.Parse(rawFrom, now); err != nil {
			return nil, nil, fieldError("from", err.Error(), "invalid session range")
		}
	}
	if from.After(to) {
		return nil, nil, fieldError("from", "from must not be after to", "invalid session range")
	}

	rng := models.SessionRange{From: from, To: to}
	sessions, err := s.repo.ListBetween(ctx, rng)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, &rng, nil
}

// Get returns session by identifier.
func (s *StudySessionService) Get(ctx context.Context, id string) (*models.StudySession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "study session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study session")
	}
	return session, nil
}

// Create validates and stores a session. A missing start time means now.
func (s *StudySessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.StudySession, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		req.Notes = &trimmed
		if trimmed == "" {
			req.Notes = nil
		}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid study session payload")
	}

	session := &models.StudySession{
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create study session")
	}
	s.cache.InvalidateReports(ctx)
	s.metrics.RecordSession(session.DurationMinutes)
	s.logger.Info("study session logged",
		zap.String("session_id", session.ID),
		zap.String("subject", session.Subject),
		zap.Int("duration_minutes", session.DurationMinutes),
	)
	return session, nil
}

// Delete removes a session. Deleting an unknown id succeeds.
func (s *StudySessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete study session")
	}
	s.cache.InvalidateReports(ctx)
	s.logger.Info("study session deleted", zap.String("session_id", id))
	return nil
}

// Analytics summarises minutes per subject over the period named by rawPeriod.
// Unknown periods fall back to weekly. The total is the sum of the breakdown.
func (s *StudySessionService) Analytics(ctx context.Context, rawPeriod string) (*models.SessionAnalytics, bool, error) {
	period := models.ParsePeriod(rawPeriod)
	key := cacheKey("analytics", string(period))

	var cached models.SessionAnalytics
	if s.cache.Get(ctx, key, &cached) {
		cached.RequestedPeriod = rawPeriod
		return &cached, true, nil
	}

	windowStart := PeriodWindowStart(period, s.now())
	start := time.Now()
	breakdown, err := s.repo.MinutesBySubject(ctx, windowStart)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analytics")
	}
	s.metrics.ObserveQuery("minutes_by_subject", time.Since(start))

	total := 0
	for _, row := range breakdown {
		total += row.Minutes
	}

	analytics := &models.SessionAnalytics{
		Period:           period,
		RequestedPeriod:  rawPeriod,
		WindowStart:      windowStart,
		TotalMinutes:     total,
		SubjectBreakdown: breakdown,
	}
	s.cache.Set(ctx, key, analytics)
	return analytics, false, nil
}

// sessionsInPeriod lists the sessions of an analytics window for exports.
func (s *StudySessionService) sessionsInPeriod(ctx context.Context, period models.AnalyticsPeriod) ([]models.StudySession, error) {
	now := s.now()
	sessions, err := s.repo.ListBetween(ctx, models.SessionRange{From: PeriodWindowStart(period, now), To: now})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}
