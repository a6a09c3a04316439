package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// maxTokenAttempts bounds share token generation on unique collisions
const maxTokenAttempts = 5

// RouteService handles business logic for the route lifecycle
type RouteService struct {
	routes   *database.RouteRepository
	drivers  *database.DriverRepository
	share    config.ShareConfig
	logger   *logrus.Logger
	now      func() time.Time
	newToken func(length int) string
}

// NewRouteService creates a new RouteService
func NewRouteService(
	routes *database.RouteRepository,
	drivers *database.DriverRepository,
	share config.ShareConfig,
	logger *logrus.Logger,
) *RouteService {
	return &RouteService{
		routes:   routes,
		drivers:  drivers,
		share:    share,
		logger:   logger,
		now:      time.Now,
		newToken: utils.GenerateShareToken,
	}
}

// Create validates and persists a route with its orders and stops, and
// returns its share link
func (s *RouteService) Create(ctx context.Context, req *models.CreateRouteRequest, requestBaseURL string) (*models.CreateRouteResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ValidationError("Route name is required")
	}
	if err := validateTotals(req.TotalDistance, req.TotalDuration, req.TotalRevenue); err != nil {
		return nil, err
	}
	if err := validateOrders(req.Orders); err != nil {
		return nil, err
	}
	if err := s.ensureDriver(ctx, req.DriverID); err != nil {
		return nil, err
	}

	duration := 0
	if req.TotalDuration != nil {
		duration = *req.TotalDuration
	}
	times := models.ComputeRouteTimes(s.now(), duration)

	route := &models.Route{
		Name:          req.Name,
		DriverID:      req.DriverID,
		TotalDuration: duration,
		CreatedAt:     times.CreatedAt,
		ETA:           times.ETA,
		Expiration:    times.Expiration,
		Notes:         req.Notes,
	}
	if req.TotalDistance != nil {
		route.TotalDistance = *req.TotalDistance
	}
	if req.TotalRevenue != nil {
		route.TotalRevenue = *req.TotalRevenue
	}

	drafts := draftOrders(req.Orders, times.CreatedAt)

	err := s.withFreshToken(func(token string) error {
		route.ShareToken = token
		_, err := s.routes.Create(ctx, route, drafts)
		return err
	})
	if err != nil {
		s.logger.WithError(err).WithField("route_name", route.Name).Error("Failed to create route")
		return nil, StorageError("Failed to create route", err)
	}

	s.logger.WithFields(logrus.Fields{
		"route_id":   route.ID,
		"orders":     len(drafts),
		"expiration": route.Expiration,
	}).Info("Route created")

	return &models.CreateRouteResponse{
		Status:     "success",
		Message:    "Route created successfully",
		RouteID:    route.ID,
		ShareToken: route.ShareToken,
		ShareURL:   BuildShareURL(s.share, requestBaseURL, route.ShareToken),
		Expiration: route.Expiration,
	}, nil
}

// Get returns the composed route selected by exactly one of id or token.
// Expired routes fail with an Expired error rather than NotFound.
func (s *RouteService) Get(ctx context.Context, id int64, token string) (*models.RouteDetail, error) {
	token = strings.TrimSpace(token)

	var (
		detail *models.RouteDetail
		err    error
	)
	switch {
	case id == 0 && token == "":
		return nil, ValidationError("Route ID or share token is required")
	case id != 0 && token != "":
		return nil, ValidationError("Supply either a route ID or a share token, not both")
	case id != 0:
		detail, err = s.routes.GetDetail(ctx, id)
	case !utils.IsShareToken(token):
		return nil, NotFoundError("Route not found")
	default:
		detail, err = s.routes.GetDetailByToken(ctx, token)
	}

	if err != nil {
		if errors.Is(err, database.ErrRouteNotFound) {
			return nil, NotFoundError("Route not found")
		}
		s.logger.WithError(err).Error("Failed to get route")
		return nil, StorageError("Failed to get route", err)
	}

	if detail.Route.IsExpired(s.now()) {
		return nil, ExpiredError("Route has expired")
	}

	return detail, nil
}

// List returns route summaries filtered by expiration status and an
// optional search over route and driver names
func (s *RouteService) List(ctx context.Context, status, search string) ([]models.RouteSummary, error) {
	filter := models.RouteStatus(strings.ToLower(strings.TrimSpace(status)))
	if filter == "" {
		filter = models.RouteStatusAll
	}
	if !filter.IsValid() {
		return nil, ValidationError("Invalid status filter: %s", status)
	}

	routes, err := s.routes.List(ctx, database.RouteFilter{
		Status: filter,
		Search: search,
		Now:    s.now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to list routes")
		return nil, StorageError("Failed to list routes", err)
	}
	return routes, nil
}

// Update patches the supplied fields of a route and, when orders are
// supplied, replaces its orders and stops. eta and expiration keep their
// creation values.
func (s *RouteService) Update(ctx context.Context, req *models.UpdateRouteRequest) (*models.StatusResponse, error) {
	if req.ID == 0 {
		return nil, ValidationError("Route ID is required")
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, ValidationError("Route name cannot be empty")
		}
		req.Name = &trimmed
	}
	if err := validateTotals(req.TotalDistance, req.TotalDuration, req.TotalRevenue); err != nil {
		return nil, err
	}

	var replace *[]models.OrderDraft
	if req.Orders != nil {
		if err := validateOrders(*req.Orders); err != nil {
			return nil, err
		}
		drafts := draftOrders(*req.Orders, s.now().UTC().Truncate(time.Second))
		replace = &drafts
	}

	if req.DriverID.Set {
		if err := s.ensureDriver(ctx, req.DriverID.Value); err != nil {
			return nil, err
		}
	}

	_, err := s.routes.Update(ctx, req.ID, func(route *models.Route) error {
		req.Apply(route)
		return nil
	}, replace)
	if err != nil {
		if errors.Is(err, database.ErrRouteNotFound) {
			return nil, NotFoundError("Route not found")
		}
		s.logger.WithError(err).WithField("route_id", req.ID).Error("Failed to update route")
		return nil, StorageError("Failed to update route", err)
	}

	s.logger.WithFields(logrus.Fields{
		"route_id":        req.ID,
		"orders_replaced": replace != nil,
	}).Info("Route updated")

	return &models.StatusResponse{
		Status:  "success",
		Message: "Route updated successfully",
		RouteID: req.ID,
	}, nil
}

// Delete removes a route with its orders and stops
func (s *RouteService) Delete(ctx context.Context, id int64) (*models.StatusResponse, error) {
	if id == 0 {
		return nil, ValidationError("Route ID is required")
	}

	if err := s.routes.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrRouteNotFound) {
			return nil, NotFoundError("Route not found")
		}
		s.logger.WithError(err).WithField("route_id", id).Error("Failed to delete route")
		return nil, StorageError("Failed to delete route", err)
	}

	s.logger.WithField("route_id", id).Info("Route deleted")

	return &models.StatusResponse{Status: "success", Message: "Route deleted successfully"}, nil
}

// withFreshToken calls store with newly generated tokens until it succeeds,
// fails with something other than a token collision, or runs out of attempts
func (s *RouteService) withFreshToken(store func(token string) error) error {
	var err error
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		err = store(s.newToken(s.share.TokenLength))
		if !errors.Is(err, database.ErrDuplicateShareToken) {
			return err
		}
		s.logger.WithField("attempt", attempt).Warn("Share token collision, regenerating")
	}
	return err
}

// ensureDriver rejects a driver id that does not exist; nil means unassigned
func (s *RouteService) ensureDriver(ctx context.Context, driverID *int64) error {
	if driverID == nil {
		return nil
	}

	exists, err := s.drivers.Exists(ctx, *driverID)
	if err != nil {
		return StorageError("Failed to check driver", err)
	}
	if !exists {
		return ValidationError("Driver %d does not exist", *driverID)
	}
	return nil
}

func validateTotals(distance *float64, duration *int, revenue *float64) error {
	if distance != nil && *distance < 0 {
		return ValidationError("total_distance must be non-negative")
	}
	if duration != nil && *duration < 0 {
		return ValidationError("total_duration must be non-negative")
	}
	if revenue != nil && *revenue < 0 {
		return ValidationError("total_revenue must be non-negative")
	}
	return nil
}

func validateOrders(orders []models.OrderRequest) error {
	for i, order := range orders {
		n := i + 1
		if order.Price != nil && *order.Price < 0 {
			return ValidationError("Order %d: price must be non-negative", n)
		}
		for j, loc := range order.Pickups {
			if err := validateLocation(loc, "pickup", n, j+1); err != nil {
				return err
			}
		}
		for j, loc := range order.Deliveries {
			if err := validateLocation(loc, "delivery", n, j+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateLocation(loc models.StopLocation, kind string, order, index int) error {
	if strings.TrimSpace(loc.Address) == "" {
		return ValidationError("Order %d: %s %d address is required", order, kind, index)
	}
	if (loc.Lat == nil) != (loc.Lng == nil) {
		return ValidationError("Order %d: %s %d needs both lat and lng", order, kind, index)
	}
	if loc.Lat != nil && !(utils.LatLng{Lat: *loc.Lat, Lng: *loc.Lng}).IsValid() {
		return ValidationError("Order %d: %s %d coordinates are out of range", order, kind, index)
	}
	return nil
}

func draftOrders(orders []models.OrderRequest, createdAt time.Time) []models.OrderDraft {
	drafts := make([]models.OrderDraft, 0, len(orders))
	for i := range orders {
		draft := orders[i].Draft()
		draft.Order.CreatedAt = createdAt
		drafts = append(drafts, draft)
	}
	return drafts
}
