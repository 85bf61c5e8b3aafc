package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/db/dbtest"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	return svc, conn
}

func ptr[T any](v T) *T { return &v }

func TestCreateSupplierDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:    " Acme Paper ",
		Email:   ptr(" Sales@Acme.Example "),
		Address: &types.Address{City: "Austin", Country: "US"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Paper", created.Name)
	assert.Equal(t, DefaultReliability, created.ReliabilityRating)
	assert.Equal(t, "sales@acme.example", *created.Email)

	loaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Address)
	assert.Equal(t, "Austin", loaded.Address.City)

	_, err = svc.Create(ctx, CreateInput{Name: ""})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateInput{Name: "Bad", ReliabilityRating: ptr(5.5)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateReliability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Acme"})
	require.NoError(t, err)

	updated, err := svc.UpdateReliability(ctx, created.ID, 4.5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, updated.ReliabilityRating)

	_, err = svc.UpdateReliability(ctx, created.ID, -1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.UpdateReliability(ctx, uuid.New(), 2)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateSupplierKeepsUntouchedFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Acme", Phone: ptr("555-0100")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{Notes: ptr("net 30 only")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "555-0100", *updated.Phone)
	assert.Equal(t, "net 30 only", *updated.Notes)

	_, err = svc.Update(ctx, created.ID, UpdateInput{Name: ptr(" ")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteSupplierGuards(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	linked := dbtest.Supplier(t, conn, "Linked")
	product := dbtest.Product(t, conn, "Towels", "10", 0)
	require.NoError(t, conn.Create(&models.ProductSupplier{
		ProductID:     product.ID,
		SupplierID:    linked.ID,
		PurchasePrice: dbtest.Dec("4"),
	}).Error)
	err := svc.Delete(ctx, linked.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	withList := dbtest.Supplier(t, conn, "With list")
	dbtest.DemandList(t, conn, withList, enums.DemandListStatusDraft)
	err = svc.Delete(ctx, withList.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	free := dbtest.Supplier(t, conn, "Free")
	require.NoError(t, svc.Delete(ctx, free.ID))
	_, err = svc.Get(ctx, free.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListSuppliersSearch(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	dbtest.Supplier(t, conn, "Acme Paper")
	dbtest.Supplier(t, conn, "Globex")

	page, err := svc.List(ctx, pagination.Params{}, "acme")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Acme Paper", page.Items[0].Name)
}
