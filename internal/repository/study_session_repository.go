package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studytracker-api/internal/models"
)

const sessionColumns = "id, subject, duration_minutes, notes, start_time, created_at"

// StudySessionRepository handles persistence and aggregation for study sessions.
type StudySessionRepository struct {
	db *sqlx.DB
}

// NewStudySessionRepository creates a new repository instance.
func NewStudySessionRepository(db *sqlx.DB) *StudySessionRepository {
	return &StudySessionRepository{db: db}
}

// List returns every session, most recent start first.
func (r *StudySessionRepository) List(ctx context.Context) ([]models.StudySession, error) {
	query := "SELECT " + sessionColumns + " FROM study_sessions ORDER BY start_time DESC, id DESC"
	sessions := make([]models.StudySession, 0)
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListBetween returns sessions whose start time lies within the inclusive range.
func (r *StudySessionRepository) ListBetween(ctx context.Context, rng models.SessionRange) ([]models.StudySession, error) {
	query := r.db.Rebind("SELECT " + sessionColumns + " FROM study_sessions WHERE start_time >= ? AND start_time <= ? ORDER BY start_time DESC, id DESC")
	sessions := make([]models.StudySession, 0)
	if err := r.db.SelectContext(ctx, &sessions, query, rng.From.UTC(), rng.To.UTC()); err != nil {
		return nil, fmt.Errorf("list sessions between: %w", err)
	}
	return sessions, nil
}

// FindByID returns a session by id.
func (r *StudySessionRepository) FindByID(ctx context.Context, id string) (*models.StudySession, error) {
	query := r.db.Rebind("SELECT " + sessionColumns + " FROM study_sessions WHERE id = ?")
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create persists a new session. The start time defaults to the creation time.
func (r *StudySessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	if session.StartTime.IsZero() {
		session.StartTime = now
	}
	session.StartTime = session.StartTime.UTC()

	const query = `INSERT INTO study_sessions (id, subject, duration_minutes, notes, start_time, created_at) VALUES (:id, :subject, :duration_minutes, :notes, :start_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Delete removes a session record; missing ids are not an error.
func (r *StudySessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM study_sessions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// MinutesBySubject sums durations per subject for sessions started at or after since,
// largest total first.
func (r *StudySessionRepository) MinutesBySubject(ctx context.Context, since time.Time) ([]models.SubjectMinutes, error) {
	query := r.db.Rebind(`SELECT subject, SUM(duration_minutes) AS minutes FROM study_sessions WHERE start_time >= ? GROUP BY subject ORDER BY minutes DESC, subject ASC`)
	rows := make([]models.SubjectMinutes, 0)
	if err := r.db.SelectContext(ctx, &rows, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("minutes by subject: %w", err)
	}
	return rows, nil
}

// TotalMinutes sums durations of sessions started at or after since.
func (r *StudySessionRepository) TotalMinutes(ctx context.Context, since time.Time) (int, error) {
	query := r.db.Rebind(`SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions WHERE start_time >= ?`)
	var total int
	if err := r.db.GetContext(ctx, &total, query, since.UTC()); err != nil {
		return 0, fmt.Errorf("total minutes: %w", err)
	}
	return total, nil
}

