package service

import (
	"context"
	"slices"

	"github.com/GTDGit/inventory_api/internal/models"
)

// ByIDs loads rows by primary key. Repositories implement it.
type ByIDs[T any] interface {
	GetByIDs(ctx context.Context, ids []int) ([]T, error)
}

// Populator fills the relation fields of listed entities with one batched
// query per relation.
type Populator struct {
	Devices      ByIDs[models.Device]
	Simcards     ByIDs[models.Simcard]
	Emails       ByIDs[models.Email]
	EwalletTypes ByIDs[models.EwalletType]
	Ewallets     ByIDs[models.Ewallet]
	Platforms    ByIDs[models.Platform]
	Products     ByIDs[models.Product]
	Variants     ByIDs[models.ProductVariant]
	Accounts     ByIDs[models.ProductAccount]
	AccountUsers ByIDs[models.ProductAccountUser]
}

func lookup[T any](ctx context.Context, src ByIDs[T], ids []int, key func(*T) int) (map[int]*T, error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	rows, err := src.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int]*T, len(rows))
	for i := range rows {
		out[key(&rows[i])] = &rows[i]
	}
	return out, nil
}

func deviceID(d *models.Device) int                  { return d.ID }
func simcardID(s *models.Simcard) int                { return s.ID }
func emailID(e *models.Email) int                    { return e.ID }
func ewalletTypeID(t *models.EwalletType) int        { return t.ID }
func ewalletID(e *models.Ewallet) int                { return e.ID }
func platformID(p *models.Platform) int              { return p.ID }
func productID(p *models.Product) int                { return p.ID }
func variantID(v *models.ProductVariant) int         { return v.ID }
func accountID(a *models.ProductAccount) int         { return a.ID }
func accountUserID(u *models.ProductAccountUser) int { return u.ID }

func (p *Populator) PopulateEmails(ctx context.Context, items []models.Email) error {
	var ids []int
	for _, e := range items {
		if e.RegisterDeviceID != nil {
			ids = append(ids, *e.RegisterDeviceID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	devices, err := lookup(ctx, p.Devices, ids, deviceID)
	if err != nil {
		return err
	}
	for i := range items {
		if id := items[i].RegisterDeviceID; id != nil {
			items[i].Device = devices[*id]
		}
	}
	return nil
}

func (p *Populator) PopulateEwallets(ctx context.Context, items []models.Ewallet) error {
	simIDs := make([]int, 0, len(items))
	typeIDs := make([]int, 0, len(items))
	deviceIDs := make([]int, 0, len(items))
	for _, e := range items {
		simIDs = append(simIDs, e.SimcardID)
		typeIDs = append(typeIDs, e.EwalletTypeID)
		deviceIDs = append(deviceIDs, e.DeviceID)
	}
	simcards, err := lookup(ctx, p.Simcards, simIDs, simcardID)
	if err != nil {
		return err
	}
	types, err := lookup(ctx, p.EwalletTypes, typeIDs, ewalletTypeID)
	if err != nil {
		return err
	}
	devices, err := lookup(ctx, p.Devices, deviceIDs, deviceID)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Simcard = simcards[items[i].SimcardID]
		items[i].EwalletType = types[items[i].EwalletTypeID]
		items[i].Device = devices[items[i].DeviceID]
	}
	return nil
}

func (p *Populator) PopulateEwalletTopups(ctx context.Context, items []models.EwalletTopup) error {
	ids := make([]int, 0, len(items))
	for _, t := range items {
		ids = append(ids, t.EwalletID)
	}
	ewallets, err := p.ewallets(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Ewallet = ewallets[items[i].EwalletID]
	}
	return nil
}

// ewallets loads populated e-wallets by id.
func (p *Populator) ewallets(ctx context.Context, ids []int) (map[int]*models.Ewallet, error) {
	byID, err := lookup(ctx, p.Ewallets, ids, ewalletID)
	if err != nil || len(byID) == 0 {
		return byID, err
	}
	rows := make([]models.Ewallet, 0, len(byID))
	for _, e := range byID {
		rows = append(rows, *e)
	}
	if err := p.PopulateEwallets(ctx, rows); err != nil {
		return nil, err
	}
	out := make(map[int]*models.Ewallet, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (p *Populator) PopulateProductVariants(ctx context.Context, items []models.ProductVariant) error {
	ids := make([]int, 0, len(items))
	for _, v := range items {
		ids = append(ids, v.ProductID)
	}
	products, err := lookup(ctx, p.Products, ids, productID)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Product = products[items[i].ProductID]
	}
	return nil
}

// variants loads product variants by id with their product.
func (p *Populator) variants(ctx context.Context, ids []int) (map[int]*models.ProductVariant, error) {
	byID, err := lookup(ctx, p.Variants, ids, variantID)
	if err != nil || len(byID) == 0 {
		return byID, err
	}
	products := make([]int, 0, len(byID))
	for _, v := range byID {
		products = append(products, v.ProductID)
	}
	productsByID, err := lookup(ctx, p.Products, products, productID)
	if err != nil {
		return nil, err
	}
	for _, v := range byID {
		v.Product = productsByID[v.ProductID]
	}
	return byID, nil
}

func (p *Populator) PopulatePlatformProducts(ctx context.Context, items []models.PlatformProduct) error {
	platformIDs := make([]int, 0, len(items))
	variantIDs := make([]int, 0, len(items))
	for _, pp := range items {
		platformIDs = append(platformIDs, pp.PlatformID)
		variantIDs = append(variantIDs, pp.ProductVariantID)
	}
	platforms, err := lookup(ctx, p.Platforms, platformIDs, platformID)
	if err != nil {
		return err
	}
	variants, err := p.variants(ctx, variantIDs)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Platform = platforms[items[i].PlatformID]
		items[i].ProductVariant = variants[items[i].ProductVariantID]
	}
	return nil
}

func (p *Populator) PopulateProductAccounts(ctx context.Context, items []models.ProductAccount) error {
	emailIDs := make([]int, 0, len(items))
	ewalletIDs := make([]int, 0, len(items))
	productIDs := make([]int, 0, len(items))
	var variantIDs []int
	for _, a := range items {
		emailIDs = append(emailIDs, a.EmailID)
		ewalletIDs = append(ewalletIDs, a.EwalletID)
		productIDs = append(productIDs, a.ProductID)
		if a.ProductVariantID != nil {
			variantIDs = append(variantIDs, *a.ProductVariantID)
		}
	}
	emails, err := lookup(ctx, p.Emails, emailIDs, emailID)
	if err != nil {
		return err
	}
	ewallets, err := lookup(ctx, p.Ewallets, ewalletIDs, ewalletID)
	if err != nil {
		return err
	}
	products, err := lookup(ctx, p.Products, productIDs, productID)
	if err != nil {
		return err
	}
	variants, err := lookup(ctx, p.Variants, variantIDs, variantID)
	if err != nil {
		return err
	}
	for i := range items {
		a := &items[i]
		a.Email = emails[a.EmailID]
		a.Ewallet = ewallets[a.EwalletID]
		a.Product = products[a.ProductID]
		if a.ProductVariantID != nil {
			a.ProductVariant = variants[*a.ProductVariantID]
		}
	}
	return nil
}

// accounts loads product accounts by id with their email.
func (p *Populator) accounts(ctx context.Context, ids []int) (map[int]*models.ProductAccount, error) {
	byID, err := lookup(ctx, p.Accounts, ids, accountID)
	if err != nil || len(byID) == 0 {
		return byID, err
	}
	emailIDs := make([]int, 0, len(byID))
	for _, a := range byID {
		emailIDs = append(emailIDs, a.EmailID)
	}
	emails, err := lookup(ctx, p.Emails, emailIDs, emailID)
	if err != nil {
		return nil, err
	}
	for _, a := range byID {
		a.Email = emails[a.EmailID]
	}
	return byID, nil
}

func (p *Populator) PopulateProductAccountUsers(ctx context.Context, items []models.ProductAccountUser) error {
	accountIDs := make([]int, 0, len(items))
	variantIDs := make([]int, 0, len(items))
	for _, u := range items {
		accountIDs = append(accountIDs, u.ProductAccountID)
		variantIDs = append(variantIDs, u.ProductVariantID)
	}
	accounts, err := p.accounts(ctx, accountIDs)
	if err != nil {
		return err
	}
	variants, err := p.variants(ctx, variantIDs)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].ProductAccount = accounts[items[i].ProductAccountID]
		items[i].ProductVariant = variants[items[i].ProductVariantID]
	}
	return nil
}

func (p *Populator) PopulateTransactions(ctx context.Context, items []models.Transaction) error {
	variantIDs := make([]int, 0, len(items))
	accountIDs := make([]int, 0, len(items))
	userIDs := make([]int, 0, len(items))
	for _, t := range items {
		variantIDs = append(variantIDs, t.ProductVariantID)
		accountIDs = append(accountIDs, t.ProductAccountID)
		userIDs = append(userIDs, t.ProductAccountUserID)
	}
	variants, err := p.variants(ctx, variantIDs)
	if err != nil {
		return err
	}
	accounts, err := p.accounts(ctx, accountIDs)
	if err != nil {
		return err
	}
	users, err := lookup(ctx, p.AccountUsers, userIDs, accountUserID)
	if err != nil {
		return err
	}
	for i := range items {
		t := &items[i]
		t.ProductVariant = variants[t.ProductVariantID]
		t.ProductAccount = accounts[t.ProductAccountID]
		t.ProductAccountUser = users[t.ProductAccountUserID]
	}
	return nil
}
