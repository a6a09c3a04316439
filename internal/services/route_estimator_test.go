package services

import (
	"testing"

	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteEstimator_Estimate(t *testing.T) {
	estimator := NewRouteEstimator(newTestLogger())

	t.Run("single leg", func(t *testing.T) {
		estimate, err := estimator.Estimate(chicagoToDetroit().Orders)
		require.NoError(t, err)

		assert.InDelta(t, 237.03, estimate.TotalDistance, 0.01)
		assert.Equal(t, 356, estimate.TotalDuration)
		assert.Equal(t, 750.0, estimate.TotalRevenue)
		assert.InDelta(t, 3.16, estimate.RevenuePerMile, 0.01)
		assert.Equal(t, 2, estimate.StopCount)
		assert.NotNil(t, estimate.Geometry)
	})

	t.Run("ungeocoded stops are skipped", func(t *testing.T) {
		orders := chicagoToDetroit().Orders
		orders = append(orders, models.OrderRequest{
			VehicleModel: "Tesla Model 3",
			Price:        floatPtr(250),
			Pickups:      []models.StopLocation{{Address: "Somewhere without coordinates"}},
			Deliveries:   []models.StopLocation{{Address: "Elsewhere"}},
		})

		estimate, err := estimator.Estimate(orders)
		require.NoError(t, err)
		assert.Equal(t, 2, estimate.StopCount)
		assert.Equal(t, 1000.0, estimate.TotalRevenue)
	})

	t.Run("no coordinates", func(t *testing.T) {
		estimate, err := estimator.Estimate([]models.OrderRequest{{
			VehicleModel: "2020 Ford Escape",
			Price:        floatPtr(400),
			Pickups:      []models.StopLocation{{Address: "A"}},
		}})
		require.NoError(t, err)
		assert.Zero(t, estimate.TotalDistance)
		assert.Zero(t, estimate.TotalDuration)
		assert.Zero(t, estimate.RevenuePerMile)
		assert.Nil(t, estimate.Geometry)
	})

	t.Run("invalid input", func(t *testing.T) {
		orders := chicagoToDetroit().Orders
		orders[0].Price = floatPtr(-1)

		_, err := estimator.Estimate(orders)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}
