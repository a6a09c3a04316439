package models

import (
	"strconv"
	"strings"
	"time"
)

// StopType is either a pickup or a delivery
type StopType string

const (
	StopTypePickup   StopType = "pickup"
	StopTypeDelivery StopType = "delivery"
)

// IsValid reports whether t is one of the two permitted stop types
func (t StopType) IsValid() bool {
	return t == StopTypePickup || t == StopTypeDelivery
}

// Order is one vehicle to be transported on a route
type Order struct {
	ID           int64     `json:"id" db:"id"`
	RouteID      int64     `json:"route_id" db:"route_id"`
	VehicleYear  *int      `json:"vehicle_year" db:"vehicle_year"`
	VehicleMake  *string   `json:"vehicle_make" db:"vehicle_make"`
	VehicleModel string    `json:"vehicle_model" db:"vehicle_model"`
	Price        float64   `json:"price" db:"price"`
	Notes        *string   `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Stop is a pickup or delivery location tied to an order
type Stop struct {
	ID             int64    `json:"id" db:"id"`
	RouteID        int64    `json:"route_id" db:"route_id"`
	OrderID        int64    `json:"order_id" db:"order_id"`
	Address        string   `json:"address" db:"address"`
	Latitude       *float64 `json:"latitude" db:"latitude"`
	Longitude      *float64 `json:"longitude" db:"longitude"`
	StopType       StopType `json:"stop_type" db:"stop_type"`
	SequenceNumber int      `json:"sequence_number" db:"sequence_number"`
	Notes          *string  `json:"notes" db:"notes"`
}

// HasCoordinates reports whether the stop was geocoded
func (s *Stop) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// OrderRequest is one order of a create or update body. VehicleModel is the
// free-text "2022 Honda Accord" field entered by the dispatcher.
type OrderRequest struct {
	VehicleModel string         `json:"vehicle_model"`
	VehicleMake  *string        `json:"vehicle_make,omitempty"`
	Price        *float64       `json:"price,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	Pickups      []StopLocation `json:"pickups"`
	Deliveries   []StopLocation `json:"deliveries"`
}

// StopLocation is an address entered for a pickup or delivery
type StopLocation struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Notes   *string  `json:"notes,omitempty"`
}

// OrderDraft is an order with its stops, ready to be inserted
type OrderDraft struct {
	Order Order
	Stops []Stop
}

// ParseVehicleModel splits "2022 Honda Accord" into a year and the remaining
// text. When the first token is not an integer the whole string is the model.
func ParseVehicleModel(raw string) (*int, string) {
	raw = strings.TrimSpace(raw)
	first, rest, found := strings.Cut(raw, " ")
	year, err := strconv.Atoi(first)
	if err != nil {
		return nil, raw
	}
	if !found {
		return &year, ""
	}
	return &year, strings.TrimSpace(rest)
}

// Draft converts the request into an order and its stops. Sequence numbers
// are indexes within the pickup list and within the delivery list.
func (r *OrderRequest) Draft() OrderDraft {
	year, model := ParseVehicleModel(r.VehicleModel)

	order := Order{
		VehicleYear:  year,
		VehicleMake:  nonEmpty(r.VehicleMake),
		VehicleModel: model,
		Notes:        r.Notes,
	}
	if r.Price != nil {
		order.Price = *r.Price
	}

	stops := make([]Stop, 0, len(r.Pickups)+len(r.Deliveries))
	for i, loc := range r.Pickups {
		stops = append(stops, loc.toStop(StopTypePickup, i))
	}
	for i, loc := range r.Deliveries {
		stops = append(stops, loc.toStop(StopTypeDelivery, i))
	}

	return OrderDraft{Order: order, Stops: stops}
}

func (l StopLocation) toStop(stopType StopType, sequence int) Stop {
	return Stop{
		Address:        strings.TrimSpace(l.Address),
		Latitude:       l.Lat,
		Longitude:      l.Lng,
		StopType:       stopType,
		SequenceNumber: sequence,
		Notes:          l.Notes,
	}
}

// VehicleLabel joins year, make and model for display
func VehicleLabel(year *int, vehicleMake *string, model string) string {
	parts := make([]string, 0, 3)
	if year != nil && *year != 0 {
		parts = append(parts, strconv.Itoa(*year))
	}
	if vehicleMake != nil && *vehicleMake != "" {
		parts = append(parts, *vehicleMake)
	}
	if model != "" {
		parts = append(parts, model)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
