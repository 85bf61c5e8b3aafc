package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wholesale-backend/pkg/db/dbtest"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	client := dbtest.Client(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client, nil)
	require.NoError(t, err)
	return svc, repo
}

func strPtr(v string) *string { return &v }

func baseInput(name string) CreateInput {
	return CreateInput{
		Name:          name,
		RetailPrice:   dbtest.Dec("15"),
		PurchasePrice: dbtest.Dec("6.5"),
		SellPrice:     dbtest.Dec("10"),
	}
}

func TestCreateProductWithPriceLists(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	supplier := dbtest.Supplier(t, repo.Conn(), "Acme Paper")
	customer := dbtest.Customer(t, repo.Conn(), "Corner Market")

	input := baseInput("Paper towels")
	input.SKU = strPtr("  PT-01 ")
	input.Category = strPtr("Cleaning")
	input.Tags = []string{"bulk", " bulk ", ""}
	input.QuantityOnHand = 40
	input.Suppliers = []SupplierPriceInput{{SupplierID: supplier.ID, PurchasePrice: dbtest.Dec("6"), IsPreferred: true}}
	input.CustomerPrices = []CustomerPriceInput{{CustomerID: customer.ID, CustomSellPrice: dbtest.Dec("9.5")}}

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "PT-01", *created.SKU)
	assert.Equal(t, []string{"bulk"}, created.Tags)
	assert.Equal(t, 40, created.QuantityOnHand)
	require.Len(t, created.Suppliers, 1)
	assert.Equal(t, supplier.ID, created.Suppliers[0].Supplier)
	assert.True(t, created.Suppliers[0].IsPreferred)
	require.Len(t, created.CustomerPrices, 1)
	assert.True(t, created.CustomerPrices[0].CustomSellPrice.Equal(dbtest.Dec("9.5")))
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, baseInput("  "))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	negative := baseInput("Soap")
	negative.SellPrice = dbtest.Dec("-1")
	_, err = svc.Create(ctx, negative)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, map[string]any{"field": "sellPrice"}, pkgerrors.As(err).Details())

	unknownSupplier := baseInput("Soap")
	unknownSupplier.Suppliers = []SupplierPriceInput{{SupplierID: uuid.New(), PurchasePrice: decimal.NewFromInt(1)}}
	_, err = svc.Create(ctx, unknownSupplier)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := baseInput("Soap")
	first.SKU = strPtr("SOAP-1")
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := baseInput("Other soap")
	second.SKU = strPtr("SOAP-1")
	_, err = svc.Create(ctx, second)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	// products without sku never collide
	_, err = svc.Create(ctx, baseInput("No sku 1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, baseInput("No sku 2"))
	require.NoError(t, err)
}

func TestUpdateProductReplacesSuppliers(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	first := dbtest.Supplier(t, repo.Conn(), "First")
	second := dbtest.Supplier(t, repo.Conn(), "Second")

	input := baseInput("Bleach")
	input.Suppliers = []SupplierPriceInput{{SupplierID: first.ID, PurchasePrice: dbtest.Dec("3")}}
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)

	replacement := []SupplierPriceInput{{SupplierID: second.ID, PurchasePrice: dbtest.Dec("2.75")}}
	sell := dbtest.Dec("12")
	updated, err := svc.Update(ctx, created.ID, UpdateInput{
		Name:      strPtr("Bleach 5L"),
		SellPrice: &sell,
		Suppliers: &replacement,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bleach 5L", updated.Name)
	assert.True(t, updated.SellPrice.Equal(sell))
	require.Len(t, updated.Suppliers, 1)
	assert.Equal(t, second.ID, updated.Suppliers[0].Supplier)

	bySupplier, err := svc.ListBySupplier(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, bySupplier)
	bySupplier, err = svc.ListBySupplier(ctx, second.ID)
	require.NoError(t, err)
	assert.Len(t, bySupplier, 1)

	_, err = svc.ListBySupplier(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateInventoryAndLowStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plenty := baseInput("Plenty")
	plenty.QuantityOnHand = 50
	p, err := svc.Create(ctx, plenty)
	require.NoError(t, err)

	_, err = svc.UpdateInventory(ctx, p.ID, -1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	updated, err := svc.UpdateInventory(ctx, p.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.QuantityOnHand)

	low, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, p.ID, low[0].ID)

	_, err = svc.UpdateInventory(ctx, uuid.New(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteProductGuardsReferences(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	loose, err := svc.Create(ctx, baseInput("Loose"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, loose.ID))
	_, err = svc.Get(ctx, loose.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	ordered := dbtest.Product(t, repo.Conn(), "Ordered", "10", 5)
	customer := dbtest.Customer(t, repo.Conn(), "Buyer")
	dbtest.Order(t, repo.Conn(), customer, "Pending", customer.CreatedAt, dbtest.OrderLine{Product: ordered, Quantity: 1})

	err = svc.Delete(ctx, ordered.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestListProductsPaginatesAndFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha soap", "Beta soap", "Gamma towel"} {
		input := baseInput(name)
		input.Category = strPtr("Cleaning")
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, ListInput{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, ListInput{Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)
	seen := map[uuid.UUID]bool{first.Items[0].ID: true, first.Items[1].ID: true}
	assert.False(t, seen[second.Items[0].ID])

	soaps, err := svc.List(ctx, ListInput{Search: "SOAP"})
	require.NoError(t, err)
	assert.Len(t, soaps.Items, 2)

	byCategory, err := svc.ListByCategory(ctx, "Cleaning")
	require.NoError(t, err)
	assert.Len(t, byCategory, 3)

	_, err = svc.List(ctx, ListInput{Pagination: pagination.Params{Cursor: "%%"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestApplyUpdateRejectsNegativePrice(t *testing.T) {
	product := &models.Product{Name: "x"}
	negative := dbtest.Dec("-0.01")
	err := applyUpdate(product, UpdateInput{RetailPrice: &negative})
	require.Error(t, err)
	assert.Equal(t, map[string]any{"field": "retailPrice"}, pkgerrors.As(err).Details())
}
