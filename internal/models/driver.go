package models

import "time"

// Driver is a person a route can be assigned to
type Driver struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone" db:"phone"`
	Email     *string   `json:"email" db:"email"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateDriverRequest represents the request to register a driver
type CreateDriverRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Notes *string `json:"notes,omitempty"`
}

// UpdateDriverRequest patches a driver; absent fields are left unchanged.
// phone and email are cleared by null or a blank string.
type UpdateDriverRequest struct {
	ID    int64          `json:"id"`
	Name  *string        `json:"name,omitempty"`
	Phone OptionalString `json:"phone"`
	Email OptionalString `json:"email"`
	Notes *string        `json:"notes,omitempty"`
}

// Apply copies the supplied fields onto driver
func (r *UpdateDriverRequest) Apply(driver *Driver) {
	if r.Name != nil {
		driver.Name = *r.Name
	}
	if r.Phone.Set {
		driver.Phone = r.Phone.Value
	}
	if r.Email.Set {
		driver.Email = r.Email.Value
	}
	if r.Notes != nil {
		driver.Notes = r.Notes
	}
}

// DriverResponse is returned by driver create and update
type DriverResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	DriverID int64  `json:"driver_id"`
}
