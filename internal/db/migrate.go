package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateDemoteDuplicateActive(db); err != nil {
		return fmt.Errorf("demoting duplicate active amendments: %w", err)
	}
	if _, err := db.Exec(activeUniqueIndex); err != nil {
		return fmt.Errorf("creating active amendment index: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		client      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','completed','on_hold','cancelled')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,

	`CREATE TABLE IF NOT EXISTS employees (
		id            TEXT PRIMARY KEY,
		employee_code TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL DEFAULT '',
		department    TEXT NOT NULL DEFAULT '',
		hourly_cost   TEXT NOT NULL DEFAULT '0',
		status        TEXT NOT NULL DEFAULT 'active'
		              CHECK(status IN ('active','inactive')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS employee_projects (
		id             TEXT PRIMARY KEY,
		employee_id    TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		allocation_pct INTEGER NOT NULL CHECK(allocation_pct > 0 AND allocation_pct <= 100),
		start_date     TEXT NOT NULL,
		end_date       TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_employee_projects_project ON employee_projects(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_employee_projects_employee ON employee_projects(employee_id)`,

	`CREATE TABLE IF NOT EXISTS po_amendments (
		id          TEXT PRIMARY KEY,
		owner_kind  TEXT NOT NULL CHECK(owner_kind IN ('project','assignment')),
		owner_id    TEXT NOT NULL,
		po_number   TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT,
		amount      TEXT,
		is_active   INTEGER NOT NULL DEFAULT 0 CHECK(is_active IN (0,1)),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_po_amendments_owner ON po_amendments(owner_kind, owner_id)`,

	// Amendments have no foreign key (the owner is polymorphic), so owner
	// deletion is propagated by triggers.
	`CREATE TRIGGER IF NOT EXISTS trg_projects_delete_amendments
		AFTER DELETE ON projects
	BEGIN
		DELETE FROM po_amendments WHERE owner_kind = 'project' AND owner_id = OLD.id;
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_employee_projects_delete_amendments
		AFTER DELETE ON employee_projects
	BEGIN
		DELETE FROM po_amendments WHERE owner_kind = 'assignment' AND owner_id = OLD.id;
	END`,

	`ALTER TABLE po_amendments ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
}

// activeUniqueIndex enforces at most one active amendment per owner.
const activeUniqueIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_po_amendments_one_active
	ON po_amendments(owner_kind, owner_id) WHERE is_active = 1`

// migrateDemoteDuplicateActive clears is_active on every amendment of an owner
// that has more than one active row, so the unique index can be built on
// databases written before it existed. The next recalculation restores the
// correct flag.
func migrateDemoteDuplicateActive(db *sql.DB) error {
	ctx := context.Background()
	query := `UPDATE po_amendments SET is_active = 0
		WHERE is_active = 1 AND (owner_kind, owner_id) IN (
			SELECT owner_kind, owner_id FROM po_amendments
			WHERE is_active = 1
			GROUP BY owner_kind, owner_id
			HAVING COUNT(*) > 1
		)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return err
	}
	return nil
}
