package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/empdesk/empdesk/internal/db"
	"github.com/empdesk/empdesk/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo over employee_projects.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

const assignmentColumns = `id, employee_id, project_id, allocation_pct, start_date, end_date, created_at, updated_at`

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.EmployeeProject) error {
	query := `INSERT INTO employee_projects (` + assignmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.EmployeeID,
		a.ProjectID,
		a.AllocationPct,
		a.StartDate.Format(dateLayout),
		nullableTimeToString(a.EndDate, dateLayout),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.EmployeeProject, error) {
	query := `SELECT ` + assignmentColumns + ` FROM employee_projects WHERE id = ?`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning assignment: %w", err)
	}
	return a, nil
}

func (r *SQLiteAssignmentRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error) {
	query := `SELECT ` + assignmentColumns + ` FROM employee_projects WHERE project_id = ? ORDER BY start_date, id`
	return r.query(ctx, query, projectID)
}

func (r *SQLiteAssignmentRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.EmployeeProject, error) {
	query := `SELECT ` + assignmentColumns + ` FROM employee_projects WHERE employee_id = ? ORDER BY start_date, id`
	return r.query(ctx, query, employeeID)
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employee_projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return requireAffected(res, "assignment", id)
}

func (r *SQLiteAssignmentRepo) query(ctx context.Context, query string, args ...any) ([]*domain.EmployeeProject, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []*domain.EmployeeProject
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

func scanAssignment(row rowScanner) (*domain.EmployeeProject, error) {
	var a domain.EmployeeProject
	var startStr, createdAtStr, updatedAtStr string
	var endStr sql.NullString
	err := row.Scan(&a.ID, &a.EmployeeID, &a.ProjectID, &a.AllocationPct,
		&startStr, &endStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}
	a.StartDate = parseLenientDay(startStr)
	a.EndDate = parseNullableTime(endStr, dateLayout)
	a.CreatedAt = parseTimestamp(createdAtStr)
	a.UpdatedAt = parseTimestamp(updatedAtStr)
	return &a, nil
}
