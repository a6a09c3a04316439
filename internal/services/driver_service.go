package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// DriverService handles business logic for the driver directory
type DriverService struct {
	drivers *database.DriverRepository
	phones  *validator.PhoneValidator
	emails  *validator.EmailValidator
	logger  *logrus.Logger
}

// NewDriverService creates a new DriverService
func NewDriverService(drivers *database.DriverRepository, logger *logrus.Logger) *DriverService {
	return &DriverService{
		drivers: drivers,
		phones:  validator.NewPhoneValidator(),
		emails:  validator.NewEmailValidator(),
		logger:  logger,
	}
}

// Create registers a driver
func (s *DriverService) Create(ctx context.Context, req *models.CreateDriverRequest) (*models.DriverResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ValidationError("Driver name is required")
	}

	driver := &models.Driver{
		Name:  name,
		Phone: s.normalizePhone(req.Phone),
		Email: trimmed(req.Email),
		Notes: req.Notes,
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		s.logger.WithError(err).Error("Failed to create driver")
		return nil, StorageError("Failed to create driver", err)
	}

	s.logger.WithField("driver_id", driver.ID).Info("Driver created")

	return &models.DriverResponse{
		Status:   "success",
		Message:  "Driver created successfully",
		DriverID: driver.ID,
	}, nil
}

// Get returns a driver by ID
func (s *DriverService) Get(ctx context.Context, id int64) (*models.Driver, error) {
	if id == 0 {
		return nil, ValidationError("Driver ID is required")
	}

	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrDriverNotFound) {
			return nil, NotFoundError("Driver not found")
		}
		return nil, StorageError("Failed to get driver", err)
	}
	return driver, nil
}

// List returns drivers ordered by name, filtered by search when non-empty
func (s *DriverService) List(ctx context.Context, search string) ([]models.Driver, error) {
	drivers, err := s.drivers.List(ctx, search)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list drivers")
		return nil, StorageError("Failed to list drivers", err)
	}
	return drivers, nil
}

// Update patches the supplied driver fields
func (s *DriverService) Update(ctx context.Context, req *models.UpdateDriverRequest) (*models.DriverResponse, error) {
	if req.ID == 0 {
		return nil, ValidationError("Driver ID is required")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ValidationError("Driver name cannot be empty")
		}
		req.Name = &name
	}
	if req.Phone.Set {
		req.Phone.Value = s.normalizePhone(req.Phone.Value)
	}
	if req.Email.Set {
		req.Email.Value = trimmed(req.Email.Value)
		if req.Email.Value != nil {
			email, err := s.emails.Validate(*req.Email.Value)
			if err != nil {
				return nil, ValidationError("Invalid email address")
			}
			req.Email.Value = &email
		}
	}

	driver, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	req.Apply(driver)

	if err := s.drivers.Update(ctx, driver); err != nil {
		if errors.Is(err, database.ErrDriverNotFound) {
			return nil, NotFoundError("Driver not found")
		}
		s.logger.WithError(err).WithField("driver_id", req.ID).Error("Failed to update driver")
		return nil, StorageError("Failed to update driver", err)
	}

	return &models.DriverResponse{
		Status:   "success",
		Message:  "Driver updated successfully",
		DriverID: driver.ID,
	}, nil
}

// Delete removes a driver no route references
func (s *DriverService) Delete(ctx context.Context, id int64) (*models.StatusResponse, error) {
	if id == 0 {
		return nil, ValidationError("Driver ID is required")
	}

	routeCount, err := s.drivers.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrDriverNotFound):
			return nil, NotFoundError("Driver not found")
		case errors.Is(err, database.ErrDriverInUse):
			return nil, ConflictError(fmt.Sprintf("Cannot delete driver. Driver is assigned to %d route(s)", routeCount))
		}
		s.logger.WithError(err).WithField("driver_id", id).Error("Failed to delete driver")
		return nil, StorageError("Failed to delete driver", err)
	}

	s.logger.WithField("driver_id", id).Info("Driver deleted")

	return &models.StatusResponse{Status: "success", Message: "Driver deleted successfully"}, nil
}

// normalizePhone formats North American numbers and keeps anything else as
// entered; blank values are stored as null
func (s *DriverService) normalizePhone(phone *string) *string {
	phone = trimmed(phone)
	if phone == nil {
		return nil
	}
	normalized := s.phones.Normalize(*phone)
	return &normalized
}

// trimmed returns nil for nil or blank input, the trimmed value otherwise
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
