package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/wholesale-backend/pkg/db/types"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

// Dec parses a decimal literal and panics on malformed input.
func Dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func Supplier(t testing.TB, db *gorm.DB, name string) *models.Supplier {
	t.Helper()
	s := &models.Supplier{Name: name, ReliabilityRating: 3}
	must(t, db.Create(s).Error, "create supplier")
	return s
}

func Customer(t testing.TB, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name}
	must(t, db.Create(c).Error, "create customer")
	return c
}

// Product inserts a product with the given sell price and stock; the
// purchase price is half the sell price.
func Product(t testing.TB, db *gorm.DB, name, sellPrice string, qty int) *models.Product {
	t.Helper()
	sell := Dec(sellPrice)
	p := &models.Product{
		Name:           name,
		RetailPrice:    sell.Mul(Dec("1.5")),
		PurchasePrice:  sell.Div(decimal.NewFromInt(2)),
		SellPrice:      sell,
		QuantityOnHand: qty,
	}
	must(t, db.Omit(clause.Associations).Create(p).Error, "create product")
	return p
}

// OrderLine describes one seeded order item.
type OrderLine struct {
	Product   *models.Product
	Quantity  int
	Fulfilled int
}

// Order inserts an order and its items without touching balances or stock.
func Order(t testing.TB, db *gorm.DB, customer *models.Customer, status enums.OrderStatus, orderDate time.Time, lines ...OrderLine) *models.Order {
	t.Helper()
	o := &models.Order{
		OrderNumber:   "ORD-TEST-" + uuid.NewString()[:8],
		CustomerID:    customer.ID,
		OrderDate:     orderDate.UTC(),
		Status:        status,
		PaymentStatus: enums.PaymentStatusPending,
		TotalAmount:   decimal.Zero,
	}
	for i, line := range lines {
		item := models.OrderItem{
			Position:          i,
			ProductID:         line.Product.ID,
			Quantity:          line.Quantity,
			SellPrice:         line.Product.SellPrice,
			FulfilledQuantity: line.Fulfilled,
		}
		o.TotalAmount = o.TotalAmount.Add(item.LineTotal())
		o.Items = append(o.Items, item)
	}
	items := o.Items
	o.Items = nil
	must(t, db.Omit(clause.Associations).Create(o).Error, "create order")
	for i := range items {
		items[i].OrderID = o.ID
	}
	if len(items) > 0 {
		must(t, db.Create(&items).Error, "create order items")
	}
	o.Items = items
	return o
}

// DemandLine describes one seeded demand list item.
type DemandLine struct {
	Product       *models.Product
	Quantity      int
	RelatedOrders []uuid.UUID
}

func DemandList(t testing.TB, db *gorm.DB, supplier *models.Supplier, status enums.DemandListStatus, lines ...DemandLine) *models.DemandList {
	t.Helper()
	d := &models.DemandList{
		SupplierID:     supplier.ID,
		DemandDate:     time.Now().UTC(),
		Status:         status,
		EstimatedTotal: decimal.Zero,
	}
	items := make([]models.DemandListItem, 0, len(lines))
	for i, line := range lines {
		item := models.DemandListItem{
			Position:      i,
			ProductID:     line.Product.ID,
			Quantity:      line.Quantity,
			PurchasePrice: line.Product.PurchasePrice,
			Status:        enums.DemandItemStatusPending,
			RelatedOrders: dbtypes.UUIDArray(line.RelatedOrders),
		}
		d.EstimatedTotal = d.EstimatedTotal.Add(item.LineTotal())
		items = append(items, item)
	}
	must(t, db.Omit(clause.Associations).Create(d).Error, "create demand list")
	for i := range items {
		items[i].DemandListID = d.ID
	}
	if len(items) > 0 {
		must(t, db.Create(&items).Error, "create demand list items")
	}
	d.Items = items
	return d
}

func must(t testing.TB, err error, what string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
}
