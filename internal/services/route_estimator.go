package services

import (
	"math"

	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// minutesPerMile is the flat average-speed assumption of the builder page
const minutesPerMile = 1.5

// RouteEstimator computes straight-line totals for an itinerary before it is
// saved. It is an approximation, not a routing engine.
type RouteEstimator struct {
	logger *logrus.Logger
}

// NewRouteEstimator creates a new RouteEstimator
func NewRouteEstimator(logger *logrus.Logger) *RouteEstimator {
	return &RouteEstimator{logger: logger}
}

// Estimate walks each order's geocoded pickups then deliveries, in input
// order, and sums great-circle leg distances. Revenue is the sum of prices.
func (e *RouteEstimator) Estimate(orders []models.OrderRequest) (*models.RouteEstimate, error) {
	if err := validateOrders(orders); err != nil {
		return nil, err
	}

	var (
		points  []utils.LatLng
		revenue float64
	)
	for _, order := range orders {
		if order.Price != nil {
			revenue += *order.Price
		}
		for _, loc := range append(append([]models.StopLocation{}, order.Pickups...), order.Deliveries...) {
			if loc.Lat != nil && loc.Lng != nil {
				points = append(points, utils.LatLng{Lat: *loc.Lat, Lng: *loc.Lng})
			}
		}
	}

	miles := round2(utils.PathMiles(points))

	estimate := &models.RouteEstimate{
		TotalDistance: miles,
		TotalDuration: int(math.Round(miles * minutesPerMile)),
		TotalRevenue:  round2(revenue),
		StopCount:     len(points),
	}
	if miles > 0 {
		estimate.RevenuePerMile = round2(revenue / miles)
	}

	geometry, err := utils.LineStringGeoJSON(points)
	if err != nil {
		e.logger.WithError(err).Warn("Failed to build estimate geometry")
	}
	estimate.Geometry = geometry

	return estimate, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
