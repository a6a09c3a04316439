package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// ShareService serves the driver-facing route view and rotates share links
type ShareService struct {
	routeSvc *RouteService
	routes   *database.RouteRepository
	logger   *logrus.Logger
}

// NewShareService creates a new ShareService
func NewShareService(routeSvc *RouteService, routes *database.RouteRepository, logger *logrus.Logger) *ShareService {
	return &ShareService{
		routeSvc: routeSvc,
		routes:   routes,
		logger:   logger,
	}
}

// GetByToken returns the driver projection of the route behind token, with
// the same NotFound and Expired behaviour as a route lookup by token
func (s *ShareService) GetByToken(ctx context.Context, token string) (*models.SharedRoute, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ValidationError("Share token is required")
	}

	detail, err := s.routeSvc.Get(ctx, 0, token)
	if err != nil {
		return nil, err
	}

	shared := models.NewSharedRoute(detail)

	points := make([]utils.LatLng, 0, len(detail.Stops))
	for _, stop := range detail.Stops {
		if stop.HasCoordinates() {
			points = append(points, utils.LatLng{Lat: *stop.Latitude, Lng: *stop.Longitude})
		}
	}

	geometry, err := utils.LineStringGeoJSON(points)
	if err != nil {
		// the itinerary is still usable without a line
		s.logger.WithError(err).WithField("route_id", detail.Route.ID).Warn("Failed to build route geometry")
	}
	shared.Geometry = geometry

	return shared, nil
}

// Resend rotates the route's share token and returns the new link with the
// route's unchanged expiration
func (s *ShareService) Resend(ctx context.Context, routeID int64, requestBaseURL string) (*models.ResendResponse, error) {
	if routeID == 0 {
		return nil, ValidationError("Route ID is required")
	}

	route, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, database.ErrRouteNotFound) {
			return nil, NotFoundError("Route not found")
		}
		s.logger.WithError(err).WithField("route_id", routeID).Error("Failed to get route")
		return nil, StorageError("Failed to generate new share link", err)
	}

	var token string
	err = s.routeSvc.withFreshToken(func(candidate string) error {
		token = candidate
		return s.routes.UpdateShareToken(ctx, routeID, candidate)
	})
	if err != nil {
		if errors.Is(err, database.ErrRouteNotFound) {
			return nil, NotFoundError("Route not found")
		}
		s.logger.WithError(err).WithField("route_id", routeID).Error("Failed to rotate share token")
		return nil, StorageError("Failed to generate new share link", err)
	}

	s.logger.WithField("route_id", routeID).Info("Share token rotated")

	return &models.ResendResponse{
		Status:     "success",
		Message:    "New share link generated",
		RouteID:    routeID,
		ShareToken: token,
		ShareURL:   BuildShareURL(s.routeSvc.share, requestBaseURL, token),
		Expiration: route.Expiration,
	}, nil
}

// BuildShareURL joins the public base URL (or the request's own base when
// none is configured), the viewer page and the token
func BuildShareURL(cfg config.ShareConfig, requestBaseURL, token string) string {
	base := cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(requestBaseURL, "/")
	}

	viewer := cfg.ViewerPath
	if viewer == "" {
		viewer = "/driver-view.html"
	}

	return base + viewer + "?token=" + url.QueryEscape(token)
}
