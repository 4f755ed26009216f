package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

var platformList = &listSpec{
	from:     `platforms pl`,
	columns:  `pl.*`,
	idColumn: `pl.id`,
	filters: map[string]filterSpec{
		"name": {column: "pl.name", kind: filterContains},
	},
	sortable: map[string]string{
		"id":   "pl.id",
		"name": "pl.name",
	},
	defaultOrder: `pl.id ASC`,
}

var productList = &listSpec{
	from:     `products p`,
	columns:  `p.*`,
	idColumn: `p.id`,
	filters: map[string]filterSpec{
		"name": {column: "p.name", kind: filterContains},
	},
	sortable: map[string]string{
		"id":   "p.id",
		"name": "p.name",
	},
	defaultOrder: `p.id ASC`,
}

var productVariantList = &listSpec{
	from:     `product_variants pv`,
	columns:  `pv.*`,
	idColumn: `pv.id`,
	filters: map[string]filterSpec{
		"name":       {column: "pv.name", kind: filterContains},
		"product_id": {column: "pv.product_id", kind: filterEqualsID},
	},
	sortable: map[string]string{
		"id":            "pv.id",
		"name":          "pv.name",
		"duration_hour": "pv.duration_hour",
		"max_user":      "pv.max_user",
	},
	defaultOrder: `pv.id ASC`,
}

var platformProductList = &listSpec{
	from:     `platform_products pp JOIN product_variants pv ON pv.id = pp.product_variant_id`,
	columns:  `pp.*`,
	idColumn: `pp.id`,
	filters: map[string]filterSpec{
		"product_name": {column: "pp.product_name", kind: filterContains},
		"platform_id":  {column: "pp.platform_id", kind: filterEqualsID},
		"product_id":   {column: "pv.product_id", kind: filterEqualsID},
	},
	sortable: map[string]string{
		"id":                  "pp.id",
		"product_name":        "pp.product_name",
		"platform_product_id": "pp.platform_product_id",
	},
	defaultOrder: `pp.id ASC`,
}

// PlatformRepository handles data access for marketplaces.
type PlatformRepository struct {
	db sqlx.ExtContext
}

func NewPlatformRepository(db sqlx.ExtContext) *PlatformRepository {
	return &PlatformRepository{db: db}
}

func (r *PlatformRepository) FilterKeys() []string {
	return platformList.FilterKeys()
}

func (r *PlatformRepository) List(ctx context.Context, params listquery.Params) ([]models.Platform, int, error) {
	return selectPage[models.Platform](ctx, r.db, platformList, params)
}

func (r *PlatformRepository) GetByID(ctx context.Context, id int) (*models.Platform, error) {
	var p models.Platform
	if err := getByID(ctx, r.db, "platform", &p, `SELECT * FROM platforms WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlatformRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Platform, error) {
	return selectByIDs[models.Platform](ctx, r.db, `SELECT * FROM platforms WHERE id IN (?)`, ids)
}

func (r *PlatformRepository) Create(ctx context.Context, p *models.Platform) error {
	const q = `INSERT INTO platforms (name) VALUES ($1) RETURNING id, created_at, updated_at`
	return wrapError("platform", r.db.QueryRowxContext(ctx, q, p.Name).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PlatformRepository) Update(ctx context.Context, p *models.Platform) error {
	const q = `UPDATE platforms SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	return wrapError("platform", r.db.QueryRowxContext(ctx, q, p.Name, p.ID).Scan(&p.UpdatedAt))
}

func (r *PlatformRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "platform", "platforms", id)
}

// ProductRepository handles data access for products.
type ProductRepository struct {
	db sqlx.ExtContext
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db sqlx.ExtContext) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FilterKeys() []string {
	return productList.FilterKeys()
}

// List returns one page of products.
func (r *ProductRepository) List(ctx context.Context, params listquery.Params) ([]models.Product, int, error) {
	return selectPage[models.Product](ctx, r.db, productList, params)
}

// GetByID returns a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := getByID(ctx, r.db, "product", &p, `SELECT * FROM products WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	return selectByIDs[models.Product](ctx, r.db, `SELECT * FROM products WHERE id IN (?)`, ids)
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `INSERT INTO products (name) VALUES ($1) RETURNING id, created_at, updated_at`
	return wrapError("product", r.db.QueryRowxContext(ctx, q, p.Name).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

// Update updates an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	const q = `UPDATE products SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	return wrapError("product", r.db.QueryRowxContext(ctx, q, p.Name, p.ID).Scan(&p.UpdatedAt))
}

// Delete deletes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "product", "products", id)
}

// ProductVariantRepository handles data access for product variants.
type ProductVariantRepository struct {
	db sqlx.ExtContext
}

func NewProductVariantRepository(db sqlx.ExtContext) *ProductVariantRepository {
	return &ProductVariantRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductVariantRepository) WithTx(tx *sqlx.Tx) *ProductVariantRepository {
	return &ProductVariantRepository{db: tx}
}

func (r *ProductVariantRepository) FilterKeys() []string {
	return productVariantList.FilterKeys()
}

func (r *ProductVariantRepository) List(ctx context.Context, params listquery.Params) ([]models.ProductVariant, int, error) {
	return selectPage[models.ProductVariant](ctx, r.db, productVariantList, params)
}

func (r *ProductVariantRepository) GetByID(ctx context.Context, id int) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := getByID(ctx, r.db, "product variant", &v, `SELECT * FROM product_variants WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ProductVariantRepository) GetByIDs(ctx context.Context, ids []int) ([]models.ProductVariant, error) {
	return selectByIDs[models.ProductVariant](ctx, r.db, `SELECT * FROM product_variants WHERE id IN (?)`, ids)
}

func (r *ProductVariantRepository) Create(ctx context.Context, v *models.ProductVariant) error {
	const q = `INSERT INTO product_variants (name, duration_hour, interval_hour, cooldown, max_user, template, product_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, v.Name, v.DurationHour, v.IntervalHour, v.Cooldown, v.MaxUser, v.Template, v.ProductID).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return wrapError("product variant", err)
}

func (r *ProductVariantRepository) Update(ctx context.Context, v *models.ProductVariant) error {
	const q = `UPDATE product_variants
              SET name = $1, duration_hour = $2, interval_hour = $3, cooldown = $4, max_user = $5,
                  template = $6, product_id = $7, updated_at = NOW()
              WHERE id = $8
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, v.Name, v.DurationHour, v.IntervalHour, v.Cooldown, v.MaxUser, v.Template, v.ProductID, v.ID).
		Scan(&v.UpdatedAt)
	return wrapError("product variant", err)
}

func (r *ProductVariantRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "product variant", "product_variants", id)
}

// PlatformProductRepository handles data access for marketplace listings.
type PlatformProductRepository struct {
	db sqlx.ExtContext
}

func NewPlatformProductRepository(db sqlx.ExtContext) *PlatformProductRepository {
	return &PlatformProductRepository{db: db}
}

func (r *PlatformProductRepository) FilterKeys() []string {
	return platformProductList.FilterKeys()
}

func (r *PlatformProductRepository) List(ctx context.Context, params listquery.Params) ([]models.PlatformProduct, int, error) {
	return selectPage[models.PlatformProduct](ctx, r.db, platformProductList, params)
}

func (r *PlatformProductRepository) GetByID(ctx context.Context, id int) (*models.PlatformProduct, error) {
	var pp models.PlatformProduct
	if err := getByID(ctx, r.db, "platform product", &pp, `SELECT * FROM platform_products WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &pp, nil
}

func (r *PlatformProductRepository) Create(ctx context.Context, pp *models.PlatformProduct) error {
	const q = `INSERT INTO platform_products (platform_product_id, product_name, platform_id, product_variant_id)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, pp.PlatformProductID, pp.ProductName, pp.PlatformID, pp.ProductVariantID).
		Scan(&pp.ID, &pp.CreatedAt, &pp.UpdatedAt)
	return wrapError("platform product", err)
}

func (r *PlatformProductRepository) Update(ctx context.Context, pp *models.PlatformProduct) error {
	const q = `UPDATE platform_products
              SET platform_product_id = $1, product_name = $2, platform_id = $3, product_variant_id = $4,
                  updated_at = NOW()
              WHERE id = $5
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, pp.PlatformProductID, pp.ProductName, pp.PlatformID, pp.ProductVariantID, pp.ID).
		Scan(&pp.UpdatedAt)
	return wrapError("platform product", err)
}

func (r *PlatformProductRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "platform product", "platform_products", id)
}
