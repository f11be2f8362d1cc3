package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studytracker-api/internal/models"
	appErrors "github.com/noah-isme/studytracker-api/pkg/errors"
)

func newSessionServiceForTest(repo *mockSessionRepo, cache *CacheService) *StudySessionService {
	svc := NewStudySessionService(StudySessionServiceParams{
		Sessions: repo,
		Cache:    cache,
		Metrics:  NewMetricsService(),
		Logger:   zap.NewNop(),
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sessionsAround(now time.Time) *mockSessionRepo {
	return newMockSessionRepo(
		models.StudySession{Subject: "Go", DurationMinutes: 50, StartTime: now.Add(-2 * time.Hour)},
		models.StudySession{Subject: "Math", DurationMinutes: 20, StartTime: now.Add(-3 * time.Hour)},
		models.StudySession{Subject: "Go", DurationMinutes: 40, StartTime: now.Add(-3 * 24 * time.Hour)},
		models.StudySession{Subject: "History", DurationMinutes: 70, StartTime: now.Add(-20 * 24 * time.Hour)},
		models.StudySession{Subject: "Art", DurationMinutes: 10, StartTime: now.Add(-60 * 24 * time.Hour)},
	)
}

func TestStudySessionServiceCreateDefaultsStartTime(t *testing.T) {
	svc := newSessionServiceForTest(newMockSessionRepo(), nil)

	notes := "  chapter 3  "
	session, err := svc.Create(context.Background(), CreateSessionRequest{Subject: " Go ", DurationMinutes: 25, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Go", session.Subject)
	require.NotNil(t, session.Notes)
	assert.Equal(t, "chapter 3", *session.Notes)
	assert.False(t, session.StartTime.IsZero())

	start := fixedNow.Add(-time.Hour)
	blank := "   "
	session, err = svc.Create(context.Background(), CreateSessionRequest{Subject: "Math", DurationMinutes: 5, Notes: &blank, StartTime: &start})
	require.NoError(t, err)
	assert.Nil(t, session.Notes)
	assert.Equal(t, start, session.StartTime)
}

func TestStudySessionServiceCreateValidation(t *testing.T) {
	svc := newSessionServiceForTest(newMockSessionRepo(), nil)
	long := strings.Repeat("n", 1001)

	cases := []struct {
		name  string
		req   CreateSessionRequest
		field string
	}{
		{name: "blank subject", req: CreateSessionRequest{Subject: " ", DurationMinutes: 10}, field: "subject"},
		{name: "zero duration", req: CreateSessionRequest{Subject: "Go", DurationMinutes: 0}, field: "duration_minutes"},
		{name: "negative duration", req: CreateSessionRequest{Subject: "Go", DurationMinutes: -1}, field: "duration_minutes"},
		{name: "notes too long", req: CreateSessionRequest{Subject: "Go", DurationMinutes: 10, Notes: &long}, field: "notes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			appErr := appErrors.FromError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Contains(t, appErr.Fields, tc.field)
		})
	}
}

func TestStudySessionServiceDeleteThenGet(t *testing.T) {
	repo := sessionsAround(fixedNow)
	svc := newSessionServiceForTest(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "missing"))
	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "study session not found", appErrors.FromError(err).Message)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, 50, all[0].DurationMinutes)

	require.NoError(t, svc.Delete(context.Background(), all[0].ID))
	_, err = svc.Get(context.Background(), all[0].ID)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestStudySessionServiceAnalyticsBreakdown(t *testing.T) {
	svc := newSessionServiceForTest(sessionsAround(fixedNow), nil)

	cases := map[string]struct {
		period models.AnalyticsPeriod
		total  int
		first  string
	}{
		"daily":   {period: models.PeriodDaily, total: 70, first: "Go"},
		"WEEKLY":  {period: models.PeriodWeekly, total: 110, first: "Go"},
		"monthly": {period: models.PeriodMonthly, total: 180, first: "Go"},
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			analytics, cached, err := svc.Analytics(context.Background(), raw)
			require.NoError(t, err)
			assert.False(t, cached)
			assert.Equal(t, want.period, analytics.Period)
			assert.Equal(t, raw, analytics.RequestedPeriod)
			assert.Equal(t, want.total, analytics.TotalMinutes)
			require.NotEmpty(t, analytics.SubjectBreakdown)
			assert.Equal(t, want.first, analytics.SubjectBreakdown[0].Subject)

			sum := 0
			for i, row := range analytics.SubjectBreakdown {
				sum += row.Minutes
				if i > 0 {
					assert.GreaterOrEqual(t, analytics.SubjectBreakdown[i-1].Minutes, row.Minutes)
				}
			}
			assert.Equal(t, analytics.TotalMinutes, sum)
		})
	}
}

func TestStudySessionServiceAnalyticsUnknownPeriodIsWeekly(t *testing.T) {
	svc := newSessionServiceForTest(sessionsAround(fixedNow), nil)

	weekly, _, err := svc.Analytics(context.Background(), "weekly")
	require.NoError(t, err)
	unknown, _, err := svc.Analytics(context.Background(), "fortnightly")
	require.NoError(t, err)

	assert.Equal(t, models.PeriodWeekly, unknown.Period)
	assert.Equal(t, "fortnightly", unknown.RequestedPeriod)
	assert.Equal(t, weekly.WindowStart, unknown.WindowStart)
	assert.Equal(t, weekly.TotalMinutes, unknown.TotalMinutes)
	assert.Equal(t, weekly.SubjectBreakdown, unknown.SubjectBreakdown)
}

func TestStudySessionServiceAnalyticsCacheAndInvalidation(t *testing.T) {
	repo := sessionsAround(fixedNow)
	cacheRepo := &stubCacheRepo{}
	svc := newSessionServiceForTest(repo, NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true))
	ctx := context.Background()

	_, cached, err := svc.Analytics(ctx, "daily")
	require.NoError(t, err)
	assert.False(t, cached)

	hit, cached, err := svc.Analytics(ctx, "Daily")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "Daily", hit.RequestedPeriod)
	assert.Equal(t, 70, hit.TotalMinutes)
	assert.Equal(t, 1, repo.aggCalls)

	start := fixedNow.Add(-10 * time.Minute)
	_, err = svc.Create(ctx, CreateSessionRequest{Subject: "Art", DurationMinutes: 30, StartTime: &start})
	require.NoError(t, err)

	fresh, cached, err := svc.Analytics(ctx, "daily")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 100, fresh.TotalMinutes)
	assert.Equal(t, 2, repo.aggCalls)
}

func TestStudySessionServiceAnalyticsRepositoryError(t *testing.T) {
	repo := newMockSessionRepo()
	repo.aggErr = errors.New("connection reset")
	svc := newSessionServiceForTest(repo, nil)

	_, _, err := svc.Analytics(context.Background(), "daily")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestStudySessionServiceRange(t *testing.T) {
	svc := newSessionServiceForTest(sessionsAround(fixedNow), nil)
	ctx := context.Background()

	sessions, rng, err := svc.Range(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, fixedNow, rng.To)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), rng.From)
	assert.Len(t, sessions, 3)

	sessions, _, err = svc.Range(ctx, "2024-02-01T00:00:00Z", "2024-03-01T00:00:00Z")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "History", sessions[0].Subject)

	sessions, _, err = svc.Range(ctx, "yesterday", "now")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestStudySessionServiceRangeValidation(t *testing.T) {
	svc := newSessionServiceForTest(newMockSessionRepo(), nil)

	_, _, err := svc.Range(context.Background(), "2024-03-10T00:00:00Z", "2024-03-01T00:00:00Z")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "from")

	_, _, err = svc.Range(context.Background(), "", "not a date at all ###")
	appErr = appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Fields, "to")
}
