package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GTDGit/inventory_api/internal/models"
)

func testPopulator() (*Populator, *fixedRows[models.Product]) {
	products := &fixedRows[models.Product]{rows: []models.Product{{ID: 1, Name: "Netflix"}}, id: productID}
	return &Populator{
		Devices:      &fixedRows[models.Device]{rows: []models.Device{{ID: 5, Name: "Pixel"}}, id: deviceID},
		Simcards:     &fixedRows[models.Simcard]{rows: []models.Simcard{{ID: 6, SimcardNumber: "0812"}}, id: simcardID},
		Emails:       &fixedRows[models.Email]{rows: []models.Email{{ID: 3, Email: "a@mail.test"}}, id: emailID},
		EwalletTypes: &fixedRows[models.EwalletType]{rows: []models.EwalletType{{ID: 8, Name: "DANA"}}, id: ewalletTypeID},
		Ewallets: &fixedRows[models.Ewallet]{rows: []models.Ewallet{
			{ID: 4, SimcardID: 6, EwalletTypeID: 8, DeviceID: 5},
		}, id: ewalletID},
		Platforms: &fixedRows[models.Platform]{rows: []models.Platform{{ID: 9, Name: "Shopee"}}, id: platformID},
		Products:  products,
		Variants: &fixedRows[models.ProductVariant]{rows: []models.ProductVariant{
			{ID: 2, Name: "1 Month", ProductID: 1},
		}, id: variantID},
		Accounts: &fixedRows[models.ProductAccount]{rows: []models.ProductAccount{
			{ID: 7, EmailID: 3, ProductID: 1, EwalletID: 4, AccountPassword: "secret"},
		}, id: accountID},
		AccountUsers: &fixedRows[models.ProductAccountUser]{rows: []models.ProductAccountUser{
			{ID: 11, Name: "Budi", ProductAccountID: 7, ProductVariantID: 2},
		}, id: accountUserID},
	}, products
}

func TestPopulateTransactions(t *testing.T) {
	p, _ := testPopulator()
	items := []models.Transaction{
		{ID: 1, ProductVariantID: 2, ProductAccountID: 7, ProductAccountUserID: 11},
		{ID: 2, ProductVariantID: 2, ProductAccountID: 7, ProductAccountUserID: 99},
	}

	require.NoError(t, p.PopulateTransactions(context.Background(), items))
	require.Equal(t, "1 Month", items[0].ProductVariant.Name)
	require.Equal(t, "Netflix", items[0].ProductVariant.Product.Name)
	require.Equal(t, "a@mail.test", items[0].ProductAccount.Email.Email)
	require.Equal(t, "Budi", items[0].ProductAccountUser.Name)
	require.Nil(t, items[1].ProductAccountUser)
}

func TestPopulateEwalletTopupsNestsEwallet(t *testing.T) {
	p, _ := testPopulator()
	items := []models.EwalletTopup{{ID: 1, Amount: 50000, EwalletID: 4, CreatedAt: time.Now()}}

	require.NoError(t, p.PopulateEwalletTopups(context.Background(), items))
	require.NotNil(t, items[0].Ewallet)
	require.Equal(t, "DANA", items[0].Ewallet.EwalletType.Name)
	require.Equal(t, "0812", items[0].Ewallet.Simcard.SimcardNumber)
}

func TestPopulateProductAccountsWithoutBatch(t *testing.T) {
	p, _ := testPopulator()
	items := []models.ProductAccount{{ID: 7, EmailID: 3, ProductID: 1, EwalletID: 4}}

	require.NoError(t, p.PopulateProductAccounts(context.Background(), items))
	require.Equal(t, "Netflix", items[0].Product.Name)
	require.Equal(t, 4, items[0].Ewallet.ID)
	require.Nil(t, items[0].ProductVariant)
}

func TestPopulateBatchesLookups(t *testing.T) {
	p, products := testPopulator()
	items := []models.ProductVariant{
		{ID: 2, ProductID: 1},
		{ID: 3, ProductID: 1},
	}

	require.NoError(t, p.PopulateProductVariants(context.Background(), items))
	require.Equal(t, 1, products.calls)
	require.Same(t, items[0].Product, items[1].Product)
}

func TestPopulateEmailsWithoutDevice(t *testing.T) {
	p, _ := testPopulator()
	device := 5
	items := []models.Email{{ID: 1}, {ID: 2, RegisterDeviceID: &device}}

	require.NoError(t, p.PopulateEmails(context.Background(), items))
	require.Nil(t, items[0].Device)
	require.Equal(t, "Pixel", items[1].Device.Name)
}
