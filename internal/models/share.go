package models

import (
	"encoding/json"
	"time"
)

// SharedRoute is the driver-facing view of a route opened through its link
type SharedRoute struct {
	Route    SharedRouteSummary `json:"route"`
	Driver   *SharedDriver      `json:"driver"`
	Orders   []SharedOrder      `json:"orders"`
	Stops    []SharedStop       `json:"stops"`
	Geometry json.RawMessage    `json:"geometry"`
}

// SharedRouteSummary holds the route fields a driver needs
type SharedRouteSummary struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	TotalDistance float64   `json:"total_distance" db:"total_distance"`
	TotalDuration int       `json:"total_duration" db:"total_duration"`
	TotalRevenue  float64   `json:"total_revenue" db:"total_revenue"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	ETA           time.Time `json:"eta" db:"eta"`
	Expiration    time.Time `json:"expiration" db:"expiration"`
	Notes         *string   `json:"notes" db:"notes"`
}

// SharedDriver is the contact card of the assigned driver
type SharedDriver struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Phone *string `json:"phone" db:"phone"`
	Email *string `json:"email" db:"email"`
}

// SharedOrder is a vehicle on the shared itinerary
type SharedOrder struct {
	ID           int64   `json:"id" db:"id"`
	VehicleYear  *int    `json:"vehicle_year" db:"vehicle_year"`
	VehicleMake  *string `json:"vehicle_make" db:"vehicle_make"`
	VehicleModel string  `json:"vehicle_model" db:"vehicle_model"`
	Price        float64 `json:"price" db:"price"`
	Notes        *string `json:"notes" db:"notes"`
}

// SharedStop is a stop joined with the vehicle of its order
type SharedStop struct {
	Stop
	VehicleYear  *int    `json:"vehicle_year" db:"vehicle_year"`
	VehicleMake  *string `json:"vehicle_make" db:"vehicle_make"`
	VehicleModel string  `json:"vehicle_model" db:"vehicle_model"`
	Vehicle      string  `json:"vehicle" db:"-"`
}

// NewSharedRoute projects a composed route detail into the driver view
func NewSharedRoute(detail *RouteDetail) *SharedRoute {
	r := detail.Route
	shared := &SharedRoute{
		Route: SharedRouteSummary{
			ID:            r.ID,
			Name:          r.Name,
			TotalDistance: r.TotalDistance,
			TotalDuration: r.TotalDuration,
			TotalRevenue:  r.TotalRevenue,
			CreatedAt:     r.CreatedAt,
			ETA:           r.ETA,
			Expiration:    r.Expiration,
			Notes:         r.Notes,
		},
		Orders: make([]SharedOrder, 0, len(detail.Orders)),
		Stops:  make([]SharedStop, 0, len(detail.Stops)),
	}

	if d := detail.Driver; d != nil {
		shared.Driver = &SharedDriver{ID: d.ID, Name: d.Name, Phone: d.Phone, Email: d.Email}
	}

	byID := make(map[int64]Order, len(detail.Orders))
	for _, o := range detail.Orders {
		byID[o.ID] = o
		shared.Orders = append(shared.Orders, SharedOrder{
			ID:           o.ID,
			VehicleYear:  o.VehicleYear,
			VehicleMake:  o.VehicleMake,
			VehicleModel: o.VehicleModel,
			Price:        o.Price,
			Notes:        o.Notes,
		})
	}

	for _, s := range detail.Stops {
		o := byID[s.OrderID]
		shared.Stops = append(shared.Stops, SharedStop{
			Stop:         s,
			VehicleYear:  o.VehicleYear,
			VehicleMake:  o.VehicleMake,
			VehicleModel: o.VehicleModel,
			Vehicle:      VehicleLabel(o.VehicleYear, o.VehicleMake, o.VehicleModel),
		})
	}

	return shared
}

// RouteEstimate is the straight-line estimate for a set of orders
type RouteEstimate struct {
	TotalDistance  float64         `json:"total_distance"`
	TotalDuration  int             `json:"total_duration"`
	TotalRevenue   float64         `json:"total_revenue"`
	RevenuePerMile float64         `json:"revenue_per_mile"`
	StopCount      int             `json:"stop_count"`
	Geometry       json.RawMessage `json:"geometry"`
}

// ResendResponse is returned after a share token is rotated
type ResendResponse struct {
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	RouteID    int64     `json:"route_id"`
	ShareToken string    `json:"share_token"`
	ShareURL   string    `json:"share_url"`
	Expiration time.Time `json:"expiration"`
}
