package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/empdesk/empdesk/internal/db"
	"github.com/empdesk/empdesk/internal/domain"
)

// SQLiteAmendmentRepo implements AmendmentRepo using a SQLite database.
type SQLiteAmendmentRepo struct {
	db db.DBTX
}

func NewSQLiteAmendmentRepo(conn db.DBTX) *SQLiteAmendmentRepo {
	return &SQLiteAmendmentRepo{db: conn}
}

const amendmentColumns = `id, owner_kind, owner_id, po_number, start_date, end_date, amount, notes, is_active, created_at, updated_at`

// Create inserts a new amendment. is_active always starts at its column
// default; the caller's IsActive is ignored.
func (r *SQLiteAmendmentRepo) Create(ctx context.Context, a *domain.POAmendment) error {
	query := `INSERT INTO po_amendments (id, owner_kind, owner_id, po_number, start_date, end_date, amount, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		string(a.Owner.Kind),
		a.Owner.ID,
		a.PONumber,
		a.StartDate.Format(dateLayout),
		nullableTimeToString(a.EndDate, dateLayout),
		nullableDecimalToString(a.Amount),
		a.Notes,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting amendment: %w", err)
	}
	return nil
}

func (r *SQLiteAmendmentRepo) GetByID(ctx context.Context, id string) (*domain.POAmendment, error) {
	query := `SELECT ` + amendmentColumns + ` FROM po_amendments WHERE id = ?`
	a, err := scanAmendment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("amendment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning amendment: %w", err)
	}
	return a, nil
}

// ListByOwner returns every amendment of owner. Rows with malformed dates are
// returned with zero dates rather than failing the whole list.
func (r *SQLiteAmendmentRepo) ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.POAmendment, error) {
	query := `SELECT ` + amendmentColumns + ` FROM po_amendments
		WHERE owner_kind = ? AND owner_id = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, query, string(owner.Kind), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("listing amendments: %w", err)
	}
	defer rows.Close()

	var out []*domain.POAmendment
	for rows.Next() {
		a, err := scanAmendment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning amendment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating amendments: %w", err)
	}
	return out, nil
}

// Update writes the user-editable fields. is_active and the owner are not
// touched.
func (r *SQLiteAmendmentRepo) Update(ctx context.Context, a *domain.POAmendment) error {
	query := `UPDATE po_amendments SET po_number = ?, start_date = ?, end_date = ?, amount = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.PONumber,
		a.StartDate.Format(dateLayout),
		nullableTimeToString(a.EndDate, dateLayout),
		nullableDecimalToString(a.Amount),
		a.Notes,
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating amendment: %w", err)
	}
	return requireAffected(res, "amendment", a.ID)
}

func (r *SQLiteAmendmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM po_amendments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting amendment: %w", err)
	}
	return requireAffected(res, "amendment", id)
}

func (r *SQLiteAmendmentRepo) SetActive(ctx context.Context, owner domain.Owner, id *string) error {
	now := nowUTC()
	clearQuery := `UPDATE po_amendments SET is_active = ?, updated_at = ?
		WHERE owner_kind = ? AND owner_id = ? AND is_active = 1`
	if _, err := r.db.ExecContext(ctx, clearQuery, boolToInt(false), now, string(owner.Kind), owner.ID); err != nil {
		return fmt.Errorf("clearing active amendment for %s: %w", owner, err)
	}
	if id == nil {
		return nil
	}

	setQuery := `UPDATE po_amendments SET is_active = ?, updated_at = ?
		WHERE id = ? AND owner_kind = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, setQuery, boolToInt(true), now, *id, string(owner.Kind), owner.ID)
	if err != nil {
		return fmt.Errorf("setting active amendment %s: %w", *id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking amendment rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("amendment %s for %s: %w", *id, owner, ErrNotFound)
	}
	return nil
}

func scanAmendment(row rowScanner) (*domain.POAmendment, error) {
	var a domain.POAmendment
	var kindStr, startStr, createdAtStr, updatedAtStr string
	var endStr, amountStr sql.NullString
	var active int
	err := row.Scan(&a.ID, &kindStr, &a.Owner.ID, &a.PONumber, &startStr, &endStr,
		&amountStr, &a.Notes, &active, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}
	a.Owner.Kind = domain.OwnerKind(kindStr)
	a.StartDate = parseLenientDay(startStr)
	a.EndDate = parseLenientEndDay(endStr)
	a.Amount = parseNullableDecimal(amountStr)
	a.IsActive = intToBool(active)
	a.CreatedAt = parseTimestamp(createdAtStr)
	a.UpdatedAt = parseTimestamp(updatedAtStr)
	return &a, nil
}
