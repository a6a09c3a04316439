package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// RouteExpirationMultiplier is the factor applied to a route's estimated
// duration to derive its expiration deadline.
const RouteExpirationMultiplier = 2

// RouteStatus filters route listings by expiration
type RouteStatus string

const (
	RouteStatusAll     RouteStatus = "all"
	RouteStatusActive  RouteStatus = "active"
	RouteStatusExpired RouteStatus = "expired"
)

// IsValid reports whether s is a known listing filter
func (s RouteStatus) IsValid() bool {
	switch s {
	case RouteStatusAll, RouteStatusActive, RouteStatusExpired:
		return true
	}
	return false
}

// Route is a dispatch unit grouping vehicle orders and their stops
type Route struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	DriverID      *int64    `json:"driver_id" db:"driver_id"`
	TotalDistance float64   `json:"total_distance" db:"total_distance"` // miles
	TotalDuration int       `json:"total_duration" db:"total_duration"` // minutes
	TotalRevenue  float64   `json:"total_revenue" db:"total_revenue"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	ETA           time.Time `json:"eta" db:"eta"`
	Expiration    time.Time `json:"expiration" db:"expiration"`
	ShareToken    string    `json:"share_token" db:"share_token"`
	Notes         *string   `json:"notes" db:"notes"`
}

// IsExpired reports whether the route's expiration is before now
func (r *Route) IsExpired(now time.Time) bool {
	return r.Expiration.Before(now)
}

// RouteTimes holds the timestamps derived when a route is created
type RouteTimes struct {
	CreatedAt  time.Time
	ETA        time.Time
	Expiration time.Time
}

// ComputeRouteTimes derives eta and expiration from the creation instant and
// the estimated duration in minutes. Times are UTC, truncated to the second.
func ComputeRouteTimes(now time.Time, durationMinutes int) RouteTimes {
	createdAt := now.UTC().Truncate(time.Second)
	duration := time.Duration(durationMinutes) * time.Minute
	return RouteTimes{
		CreatedAt:  createdAt,
		ETA:        createdAt.Add(duration),
		Expiration: createdAt.Add(duration * RouteExpirationMultiplier),
	}
}

// RouteSummary is one row of a route listing
type RouteSummary struct {
	Route
	VehicleCount int     `json:"vehicle_count" db:"vehicle_count"`
	DriverName   *string `json:"driver_name" db:"driver_name"`
}

// RouteDetail is the composed read model of a route
type RouteDetail struct {
	Route  Route   `json:"route"`
	Orders []Order `json:"orders"`
	Stops  []Stop  `json:"stops"`
	Driver *Driver `json:"driver"`
}

// CreateRouteRequest is the body of a route create call
type CreateRouteRequest struct {
	Name          string         `json:"name"`
	DriverID      *int64         `json:"driver_id,omitempty"`
	TotalDistance *float64       `json:"total_distance,omitempty"`
	TotalDuration *int           `json:"total_duration,omitempty"`
	TotalRevenue  *float64       `json:"total_revenue,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Orders        []OrderRequest `json:"orders"`
}

// CreateRouteResponse is returned after a route is persisted
type CreateRouteResponse struct {
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	RouteID    int64     `json:"route_id"`
	ShareToken string    `json:"share_token"`
	ShareURL   string    `json:"share_url"`
	Expiration time.Time `json:"expiration"`
}

// UpdateRouteRequest patches a route. Nil fields keep their stored value.
// A non-nil Orders replaces the route's orders and stops, even when empty.
type UpdateRouteRequest struct {
	ID            int64           `json:"id"`
	Name          *string         `json:"name,omitempty"`
	DriverID      OptionalInt64   `json:"driver_id"`
	TotalDistance *float64        `json:"total_distance,omitempty"`
	TotalDuration *int            `json:"total_duration,omitempty"`
	TotalRevenue  *float64        `json:"total_revenue,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Orders        *[]OrderRequest `json:"orders,omitempty"`
}

// Apply copies the supplied fields onto route. eta and expiration are left
// as they were set at creation.
func (r *UpdateRouteRequest) Apply(route *Route) {
	if r.Name != nil {
		route.Name = *r.Name
	}
	if r.DriverID.Set {
		route.DriverID = r.DriverID.Value
	}
	if r.TotalDistance != nil {
		route.TotalDistance = *r.TotalDistance
	}
	if r.TotalDuration != nil {
		route.TotalDuration = *r.TotalDuration
	}
	if r.TotalRevenue != nil {
		route.TotalRevenue = *r.TotalRevenue
	}
	if r.Notes != nil {
		route.Notes = r.Notes
	}
}

// OptionalInt64 distinguishes an absent JSON field from an explicit null
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON records that the field was present
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null
func (o OptionalInt64) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// OptionalString distinguishes an absent JSON field from an explicit null
// or blank value
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records that the field was present
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// StatusResponse is the generic success envelope
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RouteID int64  `json:"route_id,omitempty"`
}
