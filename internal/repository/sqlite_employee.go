package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/empdesk/empdesk/internal/db"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteEmployeeRepo implements EmployeeRepo using a SQLite database.
type SQLiteEmployeeRepo struct {
	db db.DBTX
}

func NewSQLiteEmployeeRepo(conn db.DBTX) *SQLiteEmployeeRepo {
	return &SQLiteEmployeeRepo{db: conn}
}

const employeeColumns = `id, employee_code, name, email, department, hourly_cost, status, created_at, updated_at`

func (r *SQLiteEmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO employees (` + employeeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Code,
		e.Name,
		e.Email,
		e.Department,
		e.HourlyCost.String(),
		string(e.Status),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting employee: %w", err)
	}
	return nil
}

func (r *SQLiteEmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
}

// GetByCode looks an employee up by code, case-insensitively.
func (r *SQLiteEmployeeRepo) GetByCode(ctx context.Context, code string) (*domain.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE UPPER(employee_code) = UPPER(?)`, code)
}

func (r *SQLiteEmployeeRepo) getOne(ctx context.Context, query, key string) (*domain.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("employee %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning employee: %w", err)
	}
	return e, nil
}

func (r *SQLiteEmployeeRepo) List(ctx context.Context) ([]*domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY employee_code`)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}
	return employees, nil
}

func (r *SQLiteEmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	query := `UPDATE employees SET employee_code = ?, name = ?, email = ?, department = ?,
		hourly_cost = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.Code,
		e.Name,
		e.Email,
		e.Department,
		e.HourlyCost.String(),
		string(e.Status),
		e.UpdatedAt.Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}
	return requireAffected(res, "employee", e.ID)
}

func (r *SQLiteEmployeeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	return requireAffected(res, "employee", id)
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	var costStr, statusStr, createdAtStr, updatedAtStr string
	err := row.Scan(&e.ID, &e.Code, &e.Name, &e.Email, &e.Department,
		&costStr, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}
	cost, err := decimal.NewFromString(costStr)
	if err != nil {
		return nil, fmt.Errorf("parsing hourly_cost %q: %w", costStr, err)
	}
	e.HourlyCost = cost
	e.Status = domain.EmployeeStatus(statusStr)
	e.CreatedAt = parseTimestamp(createdAtStr)
	e.UpdatedAt = parseTimestamp(updatedAtStr)
	return &e, nil
}
