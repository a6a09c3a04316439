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

// RouteRepository handles route, order and stop database operations
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// RouteFilter narrows a route listing
type RouteFilter struct {
	Status models.RouteStatus
	Search string
	Now    time.Time
}

const routeColumns = `r.id, r.name, r.driver_id, r.total_distance, r.total_duration,
	r.total_revenue, r.created_at, r.eta, r.expiration, r.share_token, r.notes`

// ============================================================================
// WRITES
// ============================================================================

// Create inserts the route, then each order, then each order's stops in one
// transaction. A share token collision is reported as ErrDuplicateShareToken.
func (r *RouteRepository) Create(ctx context.Context, route *models.Route, drafts []models.OrderDraft) (int64, error) {
	var routeID int64

	err := runInTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			INSERT INTO routes (
				name, driver_id, total_distance, total_duration, total_revenue,
				created_at, eta, expiration, share_token, notes
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`)

		err := tx.QueryRowxContext(ctx, query,
			route.Name, route.DriverID, route.TotalDistance, route.TotalDuration, route.TotalRevenue,
			route.CreatedAt, route.ETA, route.Expiration, route.ShareToken, route.Notes,
		).Scan(&routeID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateShareToken
			}
			return fmt.Errorf("failed to insert route: %w", err)
		}

		return insertOrders(ctx, tx, routeID, route.CreatedAt, drafts)
	})
	if err != nil {
		return 0, err
	}

	route.ID = routeID
	return routeID, nil
}

// Update loads the route, lets patch modify it and writes it back. When
// replace is non-nil the route's orders and stops are replaced by it, in the
// same transaction.
func (r *RouteRepository) Update(
	ctx context.Context,
	id int64,
	patch func(route *models.Route) error,
	replace *[]models.OrderDraft,
) (*models.Route, error) {
	var route *models.Route

	err := runInTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		var err error
		route, err = getRoute(ctx, tx, "r.id = ?", id)
		if err != nil {
			return err
		}

		if patch != nil {
			if err := patch(route); err != nil {
				return err
			}
		}

		query := tx.Rebind(`
			UPDATE routes SET
				name = ?, driver_id = ?, total_distance = ?, total_duration = ?,
				total_revenue = ?, notes = ?
			WHERE id = ?`)
		if _, err := tx.ExecContext(ctx, query,
			route.Name, route.DriverID, route.TotalDistance, route.TotalDuration,
			route.TotalRevenue, route.Notes, id,
		); err != nil {
			return fmt.Errorf("failed to update route: %w", err)
		}

		if replace == nil {
			return nil
		}

		if err := deleteRouteChildren(ctx, tx, "route_id = ?", id); err != nil {
			return err
		}
		return insertOrders(ctx, tx, id, time.Now().UTC().Truncate(time.Second), *replace)
	})
	if err != nil {
		return nil, err
	}

	return route, nil
}

// Delete removes the route with its stops and orders
func (r *RouteRepository) Delete(ctx context.Context, id int64) error {
	return runInTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if err := deleteRouteChildren(ctx, tx, "route_id = ?", id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM routes WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete route: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrRouteNotFound
		}
		return nil
	})
}

// UpdateShareToken replaces the route's share token. Expiration is untouched.
func (r *RouteRepository) UpdateShareToken(ctx context.Context, id int64, token string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE routes SET share_token = ? WHERE id = ?`), token, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateShareToken
		}
		return fmt.Errorf("failed to update share token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// ============================================================================
// READS
// ============================================================================

// GetByID returns the route row only
func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*models.Route, error) {
	return getRoute(ctx, r.db, "r.id = ?", id)
}

// GetDetail composes route, orders, stops and driver in one read-only
// transaction
func (r *RouteRepository) GetDetail(ctx context.Context, id int64) (*models.RouteDetail, error) {
	return r.getDetail(ctx, "r.id = ?", id)
}

// GetDetailByToken is GetDetail keyed by share token
func (r *RouteRepository) GetDetailByToken(ctx context.Context, token string) (*models.RouteDetail, error) {
	return r.getDetail(ctx, "r.share_token = ?", token)
}

func (r *RouteRepository) getDetail(ctx context.Context, where string, arg interface{}) (*models.RouteDetail, error) {
	var detail *models.RouteDetail

	err := runInTx(ctx, r.db, &sql.TxOptions{ReadOnly: true}, func(tx *sqlx.Tx) error {
		route, err := getRoute(ctx, tx, where, arg)
		if err != nil {
			return err
		}

		orders := []models.Order{}
		if err := tx.SelectContext(ctx, &orders, tx.Rebind(`
			SELECT id, route_id, vehicle_year, vehicle_make, vehicle_model, price, notes, created_at
			FROM orders
			WHERE route_id = ?
			ORDER BY id`), route.ID); err != nil {
			return fmt.Errorf("failed to get orders: %w", err)
		}

		stops := []models.Stop{}
		if err := tx.SelectContext(ctx, &stops, tx.Rebind(`
			SELECT id, route_id, order_id, address, latitude, longitude, stop_type, sequence_number, notes
			FROM stops
			WHERE route_id = ?
			ORDER BY sequence_number, order_id,
				CASE stop_type WHEN 'pickup' THEN 0 ELSE 1 END, id`), route.ID); err != nil {
			return fmt.Errorf("failed to get stops: %w", err)
		}

		var driver *models.Driver
		if route.DriverID != nil {
			driver, err = getDriver(ctx, tx, *route.DriverID)
			if err != nil && !errors.Is(err, ErrDriverNotFound) {
				return err
			}
		}

		detail = &models.RouteDetail{Route: *route, Orders: orders, Stops: stops, Driver: driver}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// List returns route summaries ordered newest first
func (r *RouteRepository) List(ctx context.Context, filter RouteFilter) ([]models.RouteSummary, error) {
	var (
		conditions []string
		args       []interface{}
	)

	switch filter.Status {
	case models.RouteStatusActive:
		conditions = append(conditions, "r.expiration > ?")
		args = append(args, filter.Now.UTC())
	case models.RouteStatusExpired:
		conditions = append(conditions, "r.expiration <= ?")
		args = append(args, filter.Now.UTC())
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		conditions = append(conditions, `(LOWER(r.name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(d.name, '')) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := `
		SELECT ` + routeColumns + `,
			(SELECT COUNT(*) FROM orders o WHERE o.route_id = r.id) AS vehicle_count,
			d.name AS driver_name
		FROM routes r
		LEFT JOIN drivers d ON d.id = r.driver_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id DESC"

	routes := []models.RouteSummary{}
	if err := r.db.SelectContext(ctx, &routes, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// ============================================================================
// EXPIRY
// ============================================================================

// FindExpired lists routes whose expiration is at or before now
func (r *RouteRepository) FindExpired(ctx context.Context, now time.Time) ([]models.ExpiredRoute, error) {
	return findExpired(ctx, r.db, now)
}

// DeleteExpired removes every route whose expiration is at or before now,
// together with its stops and orders, and returns what it removed.
func (r *RouteRepository) DeleteExpired(ctx context.Context, now time.Time) ([]models.ExpiredRoute, error) {
	var expired []models.ExpiredRoute

	err := runInTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		var err error
		expired, err = findExpired(ctx, tx, now)
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		selector := "route_id IN (SELECT id FROM routes WHERE expiration <= ?)"
		if err := deleteRouteChildren(ctx, tx, selector, now.UTC()); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM routes WHERE expiration <= ?`), now.UTC()); err != nil {
			return fmt.Errorf("failed to delete expired routes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func getRoute(ctx context.Context, q sqlx.ExtContext, where string, arg interface{}) (*models.Route, error) {
	var route models.Route
	query := q.Rebind(`SELECT ` + routeColumns + ` FROM routes r WHERE ` + where)
	if err := sqlx.GetContext(ctx, q, &route, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return &route, nil
}

func findExpired(ctx context.Context, q sqlx.ExtContext, now time.Time) ([]models.ExpiredRoute, error) {
	expired := []models.ExpiredRoute{}
	query := q.Rebind(`SELECT id, name, expiration FROM routes WHERE expiration <= ? ORDER BY expiration, id`)
	if err := sqlx.SelectContext(ctx, q, &expired, query, now.UTC()); err != nil {
		return nil, fmt.Errorf("failed to find expired routes: %w", err)
	}
	return expired, nil
}

// deleteRouteChildren removes stops before orders so the order foreign key
// never dangles, whether or not the engine cascades.
func deleteRouteChildren(ctx context.Context, tx *sqlx.Tx, selector string, arg interface{}) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM stops WHERE `+selector), arg); err != nil {
		return fmt.Errorf("failed to delete stops: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM orders WHERE `+selector), arg); err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}

func insertOrders(ctx context.Context, tx *sqlx.Tx, routeID int64, createdAt time.Time, drafts []models.OrderDraft) error {
	orderQuery := tx.Rebind(`
		INSERT INTO orders (route_id, vehicle_year, vehicle_make, vehicle_model, price, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	stopQuery := tx.Rebind(`
		INSERT INTO stops (route_id, order_id, address, latitude, longitude, stop_type, sequence_number, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	for i, draft := range drafts {
		order := draft.Order
		if order.CreatedAt.IsZero() {
			order.CreatedAt = createdAt
		}

		var orderID int64
		if err := tx.QueryRowxContext(ctx, orderQuery,
			routeID, order.VehicleYear, order.VehicleMake, order.VehicleModel, order.Price, order.Notes, order.CreatedAt,
		).Scan(&orderID); err != nil {
			return fmt.Errorf("failed to insert order %d: %w", i+1, err)
		}

		for _, stop := range draft.Stops {
			if _, err := tx.ExecContext(ctx, stopQuery,
				routeID, orderID, stop.Address, stop.Latitude, stop.Longitude,
				string(stop.StopType), stop.SequenceNumber, stop.Notes,
			); err != nil {
				return fmt.Errorf("failed to insert %s stop for order %d: %w", stop.StopType, i+1, err)
			}
		}
	}
	return nil
}
