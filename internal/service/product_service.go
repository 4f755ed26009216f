package service

import (
	"context"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/models"
)

type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

type NamePatch struct {
	Name *string `json:"name"`
}

type PlatformService = ResourceService[models.Platform, NameRequest, NamePatch]

func NewPlatformService(repo Store[models.Platform], listCache cache.ListCache, events *Events) *PlatformService {
	return &PlatformService{
		resource: models.ResourcePlatform,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       platformID,
		build: func(_ context.Context, req *NameRequest) (*models.Platform, error) {
			return &models.Platform{Name: req.Name}, requireText("name", req.Name)
		},
		apply: func(_ context.Context, p *models.Platform, req *NamePatch) error {
			patch(&p.Name, req.Name)
			return requireText("name", p.Name)
		},
	}
}

type ProductService = ResourceService[models.Product, NameRequest, NamePatch]

// NewProductService constructs the product service.
func NewProductService(repo Store[models.Product], listCache cache.ListCache, events *Events) *ProductService {
	return &ProductService{
		resource: models.ResourceProduct,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       productID,
		build: func(_ context.Context, req *NameRequest) (*models.Product, error) {
			return &models.Product{Name: req.Name}, requireText("name", req.Name)
		},
		apply: func(_ context.Context, p *models.Product, req *NamePatch) error {
			patch(&p.Name, req.Name)
			return requireText("name", p.Name)
		},
	}
}

type ProductVariantRequest struct {
	Name         string `json:"name" binding:"required"`
	DurationHour int    `json:"duration_hour" binding:"required"`
	IntervalHour int    `json:"interval_hour"`
	Cooldown     int    `json:"cooldown"`
	MaxUser      int    `json:"max_user" binding:"required"`
	Template     string `json:"template"`
	ProductID    int    `json:"product_id" binding:"required"`
}

type ProductVariantPatch struct {
	Name         *string `json:"name"`
	DurationHour *int    `json:"duration_hour"`
	IntervalHour *int    `json:"interval_hour"`
	Cooldown     *int    `json:"cooldown"`
	MaxUser      *int    `json:"max_user"`
	Template     *string `json:"template"`
	ProductID    *int    `json:"product_id"`
}

type ProductVariantService = ResourceService[models.ProductVariant, ProductVariantRequest, ProductVariantPatch]

// NewProductVariantService constructs the product variant service.
func NewProductVariantService(repo Store[models.ProductVariant], populator *Populator, listCache cache.ListCache, events *Events) *ProductVariantService {
	return &ProductVariantService{
		resource: models.ResourceProductVariant,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       variantID,
		build: func(_ context.Context, req *ProductVariantRequest) (*models.ProductVariant, error) {
			v := &models.ProductVariant{
				Name:         req.Name,
				DurationHour: req.DurationHour,
				IntervalHour: req.IntervalHour,
				Cooldown:     req.Cooldown,
				MaxUser:      req.MaxUser,
				Template:     req.Template,
				ProductID:    req.ProductID,
			}
			return v, validateVariant(v)
		},
		apply: func(_ context.Context, v *models.ProductVariant, req *ProductVariantPatch) error {
			patch(&v.Name, req.Name)
			patch(&v.DurationHour, req.DurationHour)
			patch(&v.IntervalHour, req.IntervalHour)
			patch(&v.Cooldown, req.Cooldown)
			patch(&v.MaxUser, req.MaxUser)
			patch(&v.Template, req.Template)
			patch(&v.ProductID, req.ProductID)
			return validateVariant(v)
		},
		populate: populator.PopulateProductVariants,
	}
}

func validateVariant(v *models.ProductVariant) error {
	return firstError(
		requireText("name", v.Name),
		requirePositive("duration_hour", v.DurationHour),
		requireNonNegative("interval_hour", v.IntervalHour),
		requireNonNegative("cooldown", v.Cooldown),
		requirePositive("max_user", v.MaxUser),
		requireID("product_id", v.ProductID),
	)
}

type PlatformProductRequest struct {
	PlatformProductID string `json:"platform_product_id" binding:"required"`
	ProductName       string `json:"product_name" binding:"required"`
	PlatformID        int    `json:"platform_id" binding:"required"`
	ProductVariantID  int    `json:"product_variant_id" binding:"required"`
}

type PlatformProductPatch struct {
	PlatformProductID *string `json:"platform_product_id"`
	ProductName       *string `json:"product_name"`
	PlatformID        *int    `json:"platform_id"`
	ProductVariantID  *int    `json:"product_variant_id"`
}

type PlatformProductService = ResourceService[models.PlatformProduct, PlatformProductRequest, PlatformProductPatch]

func NewPlatformProductService(repo Store[models.PlatformProduct], populator *Populator, listCache cache.ListCache, events *Events) *PlatformProductService {
	return &PlatformProductService{
		resource: models.ResourcePlatformProduct,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       func(pp *models.PlatformProduct) int { return pp.ID },
		build: func(_ context.Context, req *PlatformProductRequest) (*models.PlatformProduct, error) {
			pp := &models.PlatformProduct{
				PlatformProductID: req.PlatformProductID,
				ProductName:       req.ProductName,
				PlatformID:        req.PlatformID,
				ProductVariantID:  req.ProductVariantID,
			}
			return pp, validatePlatformProduct(pp)
		},
		apply: func(_ context.Context, pp *models.PlatformProduct, req *PlatformProductPatch) error {
			patch(&pp.PlatformProductID, req.PlatformProductID)
			patch(&pp.ProductName, req.ProductName)
			patch(&pp.PlatformID, req.PlatformID)
			patch(&pp.ProductVariantID, req.ProductVariantID)
			return validatePlatformProduct(pp)
		},
		populate: populator.PopulatePlatformProducts,
	}
}

func validatePlatformProduct(pp *models.PlatformProduct) error {
	return firstError(
		requireText("platform_product_id", pp.PlatformProductID),
		requireText("product_name", pp.ProductName),
		requireID("platform_id", pp.PlatformID),
		requireID("product_variant_id", pp.ProductVariantID),
	)
}
