package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studytracker-api/internal/models"
	appErrors "github.com/noah-isme/studytracker-api/pkg/errors"
)

type mockGoalRepo struct {
	goals     map[string]models.Goal
	createErr error
}

func newMockGoalRepo() *mockGoalRepo {
	return &mockGoalRepo{goals: make(map[string]models.Goal)}
}

func (m *mockGoalRepo) List(_ context.Context, filter models.GoalFilter) ([]models.Goal, error) {
	out := make([]models.Goal, 0, len(m.goals))
	for _, g := range m.goals {
		if filter.ActiveOnly && !g.Active {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockGoalRepo) FindByID(_ context.Context, id string) (*models.Goal, error) {
	g, ok := m.goals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &g, nil
}

func (m *mockGoalRepo) Create(_ context.Context, goal *models.Goal) error {
	if m.createErr != nil {
		return m.createErr
	}
	goal.ID = uuid.NewString()
	goal.CreatedAt = time.Now().UTC()
	m.goals[goal.ID] = *goal
	return nil
}

func (m *mockGoalRepo) Update(_ context.Context, goal *models.Goal) error {
	m.goals[goal.ID] = *goal
	return nil
}

func (m *mockGoalRepo) Delete(_ context.Context, id string) error {
	delete(m.goals, id)
	return nil
}

// mockSessionRepo keeps sessions in memory and aggregates like the SQL
// repository does.
type mockSessionRepo struct {
	sessions   map[string]models.StudySession
	totalCalls int
	aggCalls   int
	aggErr     error
}

func newMockSessionRepo(sessions ...models.StudySession) *mockSessionRepo {
	m := &mockSessionRepo{sessions: make(map[string]models.StudySession)}
	for _, s := range sessions {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		m.sessions[s.ID] = s
	}
	return m
}

func (m *mockSessionRepo) sorted() []models.StudySession {
	out := make([]models.StudySession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (m *mockSessionRepo) List(context.Context) ([]models.StudySession, error) {
	return m.sorted(), nil
}

func (m *mockSessionRepo) ListBetween(_ context.Context, rng models.SessionRange) ([]models.StudySession, error) {
	var out []models.StudySession
	for _, s := range m.sorted() {
		if !s.StartTime.Before(rng.From) && !s.StartTime.After(rng.To) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) FindByID(_ context.Context, id string) (*models.StudySession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockSessionRepo) Create(_ context.Context, session *models.StudySession) error {
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now().UTC()
	if session.StartTime.IsZero() {
		session.StartTime = session.CreatedAt
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) MinutesBySubject(_ context.Context, since time.Time) ([]models.SubjectMinutes, error) {
	m.aggCalls++
	if m.aggErr != nil {
		return nil, m.aggErr
	}
	totals := map[string]int{}
	for _, s := range m.sessions {
		if !s.StartTime.Before(since) {
			totals[s.Subject] += s.DurationMinutes
		}
	}
	out := make([]models.SubjectMinutes, 0, len(totals))
	for subject, minutes := range totals {
		out = append(out, models.SubjectMinutes{Subject: subject, Minutes: minutes})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Subject < out[j].Subject
	})
	return out, nil
}

func (m *mockSessionRepo) TotalMinutes(_ context.Context, since time.Time) (int, error) {
	m.totalCalls++
	total := 0
	for _, s := range m.sessions {
		if !s.StartTime.Before(since) {
			total += s.DurationMinutes
		}
	}
	return total, nil
}

type stubCacheRepo struct {
	store   map[string][]byte
	deleted []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newGoalServiceForTest(goals *mockGoalRepo, sessions *mockSessionRepo, cache *CacheService) *GoalService {
	svc := NewGoalService(GoalServiceParams{
		Goals:    goals,
		Sessions: sessions,
		Cache:    cache,
		Logger:   zap.NewNop(),
		Location: time.UTC,
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestGoalServiceCreateDefaultsActive(t *testing.T) {
	svc := newGoalServiceForTest(newMockGoalRepo(), newMockSessionRepo(), nil)

	goal, err := svc.Create(context.Background(), CreateGoalRequest{Name: "  Read daily  ", TargetMinutes: 60, Type: "daily"})
	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, "Read daily", goal.Name)
	assert.Equal(t, models.GoalTypeDaily, goal.Type)
	assert.True(t, goal.Active)
	assert.False(t, goal.CreatedAt.IsZero())
}

func TestGoalServiceCreateValidation(t *testing.T) {
	svc := newGoalServiceForTest(newMockGoalRepo(), newMockSessionRepo(), nil)

	cases := []struct {
		name  string
		req   CreateGoalRequest
		field string
	}{
		{name: "zero target", req: CreateGoalRequest{Name: "x", TargetMinutes: 0, Type: "DAILY"}, field: "target_minutes"},
		{name: "negative target", req: CreateGoalRequest{Name: "x", TargetMinutes: -5, Type: "DAILY"}, field: "target_minutes"},
		{name: "blank name", req: CreateGoalRequest{Name: "   ", TargetMinutes: 10, Type: "DAILY"}, field: "name"},
		{name: "missing type", req: CreateGoalRequest{Name: "x", TargetMinutes: 10}, field: "type"},
		{name: "unknown type", req: CreateGoalRequest{Name: "x", TargetMinutes: 10, Type: "YEARLY"}, field: "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Contains(t, appErr.Fields, tc.field)
		})
	}
}

func TestGoalServiceCreateRepositoryFailure(t *testing.T) {
	goals := newMockGoalRepo()
	goals.createErr = errors.New("disk full")
	svc := newGoalServiceForTest(goals, newMockSessionRepo(), nil)

	_, err := svc.Create(context.Background(), CreateGoalRequest{Name: "x", TargetMinutes: 10, Type: "WEEKLY"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestGoalServiceListActiveOnly(t *testing.T) {
	goals := newMockGoalRepo()
	goals.goals["a"] = models.Goal{ID: "a", Name: "old", Active: true, CreatedAt: fixedNow.Add(-2 * time.Hour)}
	goals.goals["b"] = models.Goal{ID: "b", Name: "paused", Active: false, CreatedAt: fixedNow.Add(-time.Hour)}
	goals.goals["c"] = models.Goal{ID: "c", Name: "new", Active: true, CreatedAt: fixedNow}
	svc := newGoalServiceForTest(goals, newMockSessionRepo(), nil)

	all, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, []string{"c", "a"}, []string{active[0].ID, active[1].ID})
}

func TestGoalServiceUpdate(t *testing.T) {
	goals := newMockGoalRepo()
	goals.goals["g1"] = models.Goal{ID: "g1", Name: "Read", TargetMinutes: 30, Type: models.GoalTypeDaily, Active: true, CreatedAt: fixedNow}
	svc := newGoalServiceForTest(goals, newMockSessionRepo(), nil)

	inactive := false
	updated, err := svc.Update(context.Background(), "g1", UpdateGoalRequest{Name: "Read more", TargetMinutes: 90, Type: "weekly", Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Read more", updated.Name)
	assert.Equal(t, 90, updated.TargetMinutes)
	assert.Equal(t, models.GoalTypeWeekly, updated.Type)
	assert.False(t, updated.Active)
	assert.Equal(t, fixedNow, updated.CreatedAt)

	kept, err := svc.Update(context.Background(), "g1", UpdateGoalRequest{Name: "Read more", TargetMinutes: 90, Type: "WEEKLY"})
	require.NoError(t, err)
	assert.False(t, kept.Active)

	_, err = svc.Update(context.Background(), "missing", UpdateGoalRequest{Name: "x", TargetMinutes: 1, Type: "DAILY"})
	assert.True(t, appErrors.IsNotFound(err))
}

func TestGoalServiceDeleteIsIdempotent(t *testing.T) {
	svc := newGoalServiceForTest(newMockGoalRepo(), newMockSessionRepo(), nil)

	require.NoError(t, svc.Delete(context.Background(), "does-not-exist"))
	_, err := svc.Get(context.Background(), "does-not-exist")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "goal not found", appErr.Message)
}

func TestGoalServiceProgressClampsPercentage(t *testing.T) {
	goals := newMockGoalRepo()
	goals.goals["g1"] = models.Goal{ID: "g1", Name: "Grind", TargetMinutes: 100, Type: models.GoalTypeWeekly, Active: true}
	sessions := newMockSessionRepo(models.StudySession{Subject: "Go", DurationMinutes: 500, StartTime: fixedNow.Add(-time.Hour)})
	svc := newGoalServiceForTest(goals, sessions, nil)

	progress, cached, err := svc.Progress(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 500, progress.CurrentMinutes)
	assert.Equal(t, 100, progress.TargetMinutes)
	assert.Equal(t, 100.0, progress.Percentage)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), progress.WindowStart)
}

func TestGoalServiceProgressDailyExcludesYesterday(t *testing.T) {
	goals := newMockGoalRepo()
	goals.goals["g1"] = models.Goal{ID: "g1", Name: "Daily", TargetMinutes: 120, Type: models.GoalTypeDaily, Active: true}
	sessions := newMockSessionRepo(
		models.StudySession{Subject: "Go", DurationMinutes: 30, StartTime: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		models.StudySession{Subject: "Go", DurationMinutes: 30, StartTime: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)},
		models.StudySession{Subject: "Math", DurationMinutes: 90, StartTime: time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC)},
	)
	svc := newGoalServiceForTest(goals, sessions, nil)

	progress, _, err := svc.Progress(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), progress.WindowStart)
	assert.Equal(t, 60, progress.CurrentMinutes)
	assert.Equal(t, 50.0, progress.Percentage)
}

func TestGoalServiceProgressNotFound(t *testing.T) {
	svc := newGoalServiceForTest(newMockGoalRepo(), newMockSessionRepo(), nil)

	_, _, err := svc.Progress(context.Background(), "missing")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestGoalServiceProgressUsesCache(t *testing.T) {
	goals := newMockGoalRepo()
	goals.goals["g1"] = models.Goal{ID: "g1", Name: "Cached", TargetMinutes: 60, Type: models.GoalTypeMonthly, Active: true}
	sessions := newMockSessionRepo(models.StudySession{Subject: "Go", DurationMinutes: 15, StartTime: fixedNow.Add(-time.Hour)})
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := newGoalServiceForTest(goals, sessions, cache)

	first, cached, err := svc.Progress(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := svc.Progress(context.Background(), "g1")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.CurrentMinutes, second.CurrentMinutes)
	assert.Equal(t, 1, sessions.totalCalls)

	require.NoError(t, svc.Delete(context.Background(), "other"))
	assert.Equal(t, []string{"studytracker:*"}, cacheRepo.deleted)

	_, cached, err = svc.Progress(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, sessions.totalCalls)
}
