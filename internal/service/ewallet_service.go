package service

import (
	"context"
	"time"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/models"
)

type EwalletTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

type EwalletTypePatch struct {
	Name *string `json:"name"`
}

type EwalletTypeService = ResourceService[models.EwalletType, EwalletTypeRequest, EwalletTypePatch]

func NewEwalletTypeService(repo Store[models.EwalletType], listCache cache.ListCache, events *Events) *EwalletTypeService {
	return &EwalletTypeService{
		resource: models.ResourceEwalletType,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       ewalletTypeID,
		build: func(_ context.Context, req *EwalletTypeRequest) (*models.EwalletType, error) {
			if err := requireText("name", req.Name); err != nil {
				return nil, err
			}
			return &models.EwalletType{Name: req.Name}, nil
		},
		apply: func(_ context.Context, t *models.EwalletType, req *EwalletTypePatch) error {
			patch(&t.Name, req.Name)
			return requireText("name", t.Name)
		},
	}
}

type EwalletRequest struct {
	Status           models.EwalletStatus `json:"status"`
	RegistrationDate time.Time            `json:"registration_date" binding:"required"`
	SimcardID        int                  `json:"simcard_id" binding:"required"`
	EwalletTypeID    int                  `json:"ewallet_type_id" binding:"required"`
	DeviceID         int                  `json:"device_id" binding:"required"`
}

type EwalletPatch struct {
	Status           *models.EwalletStatus `json:"status"`
	RegistrationDate *time.Time            `json:"registration_date"`
	SimcardID        *int                  `json:"simcard_id"`
	EwalletTypeID    *int                  `json:"ewallet_type_id"`
	DeviceID         *int                  `json:"device_id"`
}

type EwalletService = ResourceService[models.Ewallet, EwalletRequest, EwalletPatch]

// NewEwalletService constructs the e-wallet service. New e-wallets default
// to AKTIF.
func NewEwalletService(repo Store[models.Ewallet], populator *Populator, listCache cache.ListCache, events *Events) *EwalletService {
	return &EwalletService{
		resource: models.ResourceEwallet,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       ewalletID,
		build: func(_ context.Context, req *EwalletRequest) (*models.Ewallet, error) {
			e := &models.Ewallet{
				Status:           req.Status,
				RegistrationDate: req.RegistrationDate,
				SimcardID:        req.SimcardID,
				EwalletTypeID:    req.EwalletTypeID,
				DeviceID:         req.DeviceID,
			}
			if e.Status == "" {
				e.Status = models.EwalletStatusActive
			}
			return e, validateEwallet(e)
		},
		apply: func(_ context.Context, e *models.Ewallet, req *EwalletPatch) error {
			patch(&e.Status, req.Status)
			patch(&e.RegistrationDate, req.RegistrationDate)
			patch(&e.SimcardID, req.SimcardID)
			patch(&e.EwalletTypeID, req.EwalletTypeID)
			patch(&e.DeviceID, req.DeviceID)
			return validateEwallet(e)
		},
		populate: populator.PopulateEwallets,
	}
}

func validateEwallet(e *models.Ewallet) error {
	if !e.Status.Valid() {
		return invalidStatus(string(e.Status))
	}
	return firstError(
		requireID("simcard_id", e.SimcardID),
		requireID("ewallet_type_id", e.EwalletTypeID),
		requireID("device_id", e.DeviceID),
	)
}

type EwalletTopupRequest struct {
	Amount    int64 `json:"amount" binding:"required"`
	EwalletID int   `json:"ewallet_id" binding:"required"`
}

type EwalletTopupPatch struct {
	Amount    *int64 `json:"amount"`
	EwalletID *int   `json:"ewallet_id"`
}

type EwalletTopupService = ResourceService[models.EwalletTopup, EwalletTopupRequest, EwalletTopupPatch]

func NewEwalletTopupService(repo Store[models.EwalletTopup], populator *Populator, listCache cache.ListCache, events *Events) *EwalletTopupService {
	return &EwalletTopupService{
		resource: models.ResourceEwalletTopup,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       func(t *models.EwalletTopup) int { return t.ID },
		build: func(_ context.Context, req *EwalletTopupRequest) (*models.EwalletTopup, error) {
			t := &models.EwalletTopup{Amount: req.Amount, EwalletID: req.EwalletID}
			return t, validateTopup(t)
		},
		apply: func(_ context.Context, t *models.EwalletTopup, req *EwalletTopupPatch) error {
			patch(&t.Amount, req.Amount)
			patch(&t.EwalletID, req.EwalletID)
			return validateTopup(t)
		},
		populate: populator.PopulateEwalletTopups,
	}
}

func validateTopup(t *models.EwalletTopup) error {
	if t.Amount <= 0 {
		return requirePositive("amount", 0)
	}
	return requireID("ewallet_id", t.EwalletID)
}
