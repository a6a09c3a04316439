package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/northstar/dispatch-backend/internal/models"
)

// DriverRepository handles driver database operations
type DriverRepository struct {
	db *sqlx.DB
}

// NewDriverRepository creates a new DriverRepository
func NewDriverRepository(db *sqlx.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

const driverColumns = `id, name, phone, email, notes, created_at`

// Create inserts a driver and sets its ID
func (r *DriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	if driver.CreatedAt.IsZero() {
		driver.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	query := r.db.Rebind(`
		INSERT INTO drivers (name, phone, email, notes, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query,
		driver.Name, driver.Phone, driver.Email, driver.Notes, driver.CreatedAt,
	).Scan(&driver.ID)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

// GetByID retrieves a driver by ID
func (r *DriverRepository) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return getDriver(ctx, r.db, id)
}

// Exists reports whether a driver with the given ID is stored
func (r *DriverRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM drivers WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to check driver: %w", err)
	}
	return count > 0, nil
}

// List returns drivers ordered by name, optionally filtered by a
// case-insensitive substring of name, phone or email
func (r *DriverRepository) List(ctx context.Context, search string) ([]models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers`
	var args []interface{}

	if search = strings.TrimSpace(search); search != "" {
		pattern := containsPattern(search)
		query += ` WHERE LOWER(name) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(phone, '')) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(email, '')) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY name ASC, id ASC`

	drivers := []models.Driver{}
	if err := r.db.SelectContext(ctx, &drivers, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	return drivers, nil
}

// Update writes every mutable driver field
func (r *DriverRepository) Update(ctx context.Context, driver *models.Driver) error {
	query := r.db.Rebind(`UPDATE drivers SET name = ?, phone = ?, email = ?, notes = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, driver.Name, driver.Phone, driver.Email, driver.Notes, driver.ID)
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrDriverNotFound
	}
	return nil
}

// Delete removes a driver that no route references. When routes still
// reference it, ErrDriverInUse is returned with the number of such routes and
// nothing is deleted.
func (r *DriverRepository) Delete(ctx context.Context, id int64) (int, error) {
	var inUse int

	err := runInTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &inUse, tx.Rebind(`SELECT COUNT(*) FROM routes WHERE driver_id = ?`), id); err != nil {
			return fmt.Errorf("failed to count driver routes: %w", err)
		}
		if inUse > 0 {
			return ErrDriverInUse
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM drivers WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete driver: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrDriverNotFound
		}
		return nil
	})

	return inUse, err
}

func getDriver(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Driver, error) {
	var driver models.Driver
	query := q.Rebind(`SELECT ` + driverColumns + ` FROM drivers WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &driver, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return &driver, nil
}
