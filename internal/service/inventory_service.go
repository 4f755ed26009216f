package service

import (
	"context"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/models"
)

type DeviceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type DevicePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type DeviceService = ResourceService[models.Device, DeviceRequest, DevicePatch]

// NewDeviceService constructs the device service.
func NewDeviceService(repo Store[models.Device], listCache cache.ListCache, events *Events) *DeviceService {
	return &DeviceService{
		resource: models.ResourceDevice,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       deviceID,
		build: func(_ context.Context, req *DeviceRequest) (*models.Device, error) {
			if err := requireText("name", req.Name); err != nil {
				return nil, err
			}
			return &models.Device{Name: req.Name, Description: req.Description}, nil
		},
		apply: func(_ context.Context, d *models.Device, req *DevicePatch) error {
			patch(&d.Name, req.Name)
			patch(&d.Description, req.Description)
			return requireText("name", d.Name)
		},
	}
}

type SimcardRequest struct {
	SimcardNumber string `json:"simcard_number" binding:"required"`
	Location      string `json:"location"`
}

type SimcardPatch struct {
	SimcardNumber *string `json:"simcard_number"`
	Location      *string `json:"location"`
}

type SimcardService = ResourceService[models.Simcard, SimcardRequest, SimcardPatch]

// NewSimcardService constructs the SIM card service.
func NewSimcardService(repo Store[models.Simcard], listCache cache.ListCache, events *Events) *SimcardService {
	return &SimcardService{
		resource: models.ResourceSimcard,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       simcardID,
		build: func(_ context.Context, req *SimcardRequest) (*models.Simcard, error) {
			if err := requireText("simcard_number", req.SimcardNumber); err != nil {
				return nil, err
			}
			return &models.Simcard{SimcardNumber: req.SimcardNumber, Location: req.Location}, nil
		},
		apply: func(_ context.Context, s *models.Simcard, req *SimcardPatch) error {
			patch(&s.SimcardNumber, req.SimcardNumber)
			patch(&s.Location, req.Location)
			return requireText("simcard_number", s.SimcardNumber)
		},
	}
}

type EmailRequest struct {
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password"`
	RegisterDeviceID *int   `json:"register_device_id"`
}

// EmailPatch updates an email. A register_device_id of 0 clears the device.
type EmailPatch struct {
	Email            *string `json:"email"`
	Password         *string `json:"password"`
	RegisterDeviceID *int    `json:"register_device_id"`
}

type EmailService = ResourceService[models.Email, EmailRequest, EmailPatch]

// NewEmailService constructs the email service.
func NewEmailService(repo Store[models.Email], populator *Populator, listCache cache.ListCache, events *Events) *EmailService {
	return &EmailService{
		resource: models.ResourceEmail,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       emailID,
		build: func(_ context.Context, req *EmailRequest) (*models.Email, error) {
			if err := requireText("email", req.Email); err != nil {
				return nil, err
			}
			return &models.Email{Email: req.Email, Password: req.Password, RegisterDeviceID: deviceRef(req.RegisterDeviceID)}, nil
		},
		apply: func(_ context.Context, e *models.Email, req *EmailPatch) error {
			patch(&e.Email, req.Email)
			patch(&e.Password, req.Password)
			if req.RegisterDeviceID != nil {
				e.RegisterDeviceID = deviceRef(req.RegisterDeviceID)
			}
			return requireText("email", e.Email)
		},
		populate: populator.PopulateEmails,
	}
}

// deviceRef treats non-positive ids as "no device".
func deviceRef(id *int) *int {
	if id == nil || *id < 1 {
		return nil
	}
	v := *id
	return &v
}
