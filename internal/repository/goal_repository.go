package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studytracker-api/internal/models"
)

const goalColumns = "id, name, target_minutes, type, created_at, active"

// GoalRepository handles persistence for goals.
type GoalRepository struct {
	db *sqlx.DB
}

// NewGoalRepository creates a new repository instance.
func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// List returns goals newest first, optionally only the active ones.
func (r *GoalRepository) List(ctx context.Context, filter models.GoalFilter) ([]models.Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals"
	var args []interface{}
	if filter.ActiveOnly {
		query += " WHERE active = ?"
		args = append(args, true)
	}
	query += " ORDER BY created_at DESC, id DESC"

	goals := make([]models.Goal, 0)
	if err := r.db.SelectContext(ctx, &goals, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// FindByID returns a goal by id.
func (r *GoalRepository) FindByID(ctx context.Context, id string) (*models.Goal, error) {
	query := r.db.Rebind("SELECT " + goalColumns + " FROM goals WHERE id = ?")
	var goal models.Goal
	if err := r.db.GetContext(ctx, &goal, query, id); err != nil {
		return nil, err
	}
	return &goal, nil
}

// Create persists a new goal, assigning its id and creation time.
func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	goal.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO goals (id, name, target_minutes, type, created_at, active) VALUES (:id, :name, :target_minutes, :type, :created_at, :active)`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a goal.
func (r *GoalRepository) Update(ctx context.Context, goal *models.Goal) error {
	const query = `UPDATE goals SET name = :name, target_minutes = :target_minutes, type = :type, active = :active WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// Delete removes a goal record; missing ids are not an error.
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM goals WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}
