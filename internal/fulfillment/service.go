// Package fulfillment applies supplier deliveries to demand lists and
// propagates received stock to the sales orders waiting on it.
package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/internal/demandlists"
	"github.com/angelmondragon/wholesale-backend/internal/orders"
	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/metrics"
)

const (
	opProcessDemandList = "fulfillment.process_demand_list"
	opFulfillOrder      = "fulfillment.fulfill_order"
)

// ReceivedItem is what the supplier delivered for one product.
type ReceivedItem struct {
	ProductID         uuid.UUID
	AvailableQuantity int
}

// FulfilledItem sets the delivered quantity of one order line.
type FulfilledItem struct {
	ProductID         uuid.UUID
	FulfilledQuantity int
}

// Propagation is one order line advanced by a delivery.
type Propagation struct {
	OrderID   uuid.UUID `json:"orderId"`
	ProductID uuid.UUID `json:"product"`
	Fulfilled int       `json:"fulfilled"`
}

// DemandListResult is the updated demand list plus the order lines it advanced.
type DemandListResult struct {
	DemandList  *demandlists.DemandListDTO `json:"demandList"`
	Propagation []Propagation              `json:"propagation"`
	Skipped     []string                   `json:"skipped,omitempty"`
}

// Service runs deliveries and manual order fulfillment.
type Service interface {
	ProcessDemandList(ctx context.Context, demandListID uuid.UUID, items []ReceivedItem) (*DemandListResult, error)
	FulfillOrder(ctx context.Context, orderID uuid.UUID, items []FulfilledItem) (*orders.OrderDTO, error)
}

// ServiceParams wires a Service. Metrics and Logger may be nil.
type ServiceParams struct {
	TxRunner    db.TxRunner
	DemandLists *demandlists.Repository
	Orders      orders.Repository
	Metrics     *metrics.OperationMetrics
	Logger      *logger.Logger
}

type service struct {
	tx      db.TxRunner
	lists   *demandlists.Repository
	orders  orders.Repository
	metrics *metrics.OperationMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.DemandLists == nil {
		return nil, fmt.Errorf("demand list repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:      params.TxRunner,
		lists:   params.DemandLists,
		orders:  params.Orders,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     db.NowUTC,
	}, nil
}

// ProcessDemandList records a supplier delivery. Stock, the demand list and
// every affected order are written in one transaction.
func (s *service) ProcessDemandList(ctx context.Context, demandListID uuid.UUID, items []ReceivedItem) (_ *DemandListResult, err error) {
	done := s.metrics.Track(opProcessDemandList)
	defer func() { done(err) }()

	if len(items) == 0 {
		return nil, fieldError("items", "please provide the delivered items")
	}
	for _, item := range items {
		if item.AvailableQuantity < 0 {
			return nil, fieldError("items.availableQuantity", fmt.Sprintf("availableQuantity for product %s must be non-negative", item.ProductID))
		}
	}

	var (
		propagated []Propagation
		skipped    error
		status     enums.DemandListStatus
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lists := s.lists.WithTx(tx)
		stock := newStockRepository(tx)
		orderRepo := s.orders.WithTx(tx)
		now := s.now()

		list, err := lists.LockByID(ctx, demandListID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "demand list not found")
			}
			return err
		}
		if !list.Status.AcceptsDeliveries() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot fulfill a %s demand list", strings.ToLower(string(list.Status)))
		}

		touched := make([]int, 0, len(items))
		received := false
		for _, in := range items {
			idx := indexOfProduct(list.Items, in.ProductID)
			if idx < 0 {
				continue
			}
			item := &list.Items[idx]
			item.AvailableQuantity = in.AvailableQuantity
			item.Status = ItemStatus(in.AvailableQuantity, item.Quantity)
			if err := lists.SaveItemAvailability(ctx, item); err != nil {
				return err
			}
			touched = append(touched, idx)

			if in.AvailableQuantity <= 0 {
				continue
			}
			if err := stock.Receive(ctx, item.ProductID, in.AvailableQuantity, now); err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", item.ProductID)
				}
				return err
			}
			if err := stock.RecordPurchase(ctx, item.ProductID, list.SupplierID, item.PurchasePrice, now); err != nil {
				return err
			}
			received = true
		}

		status = ListStatus(list.Items, received, list.Status)
		if status != list.Status {
			if decision := enums.DemandListMachine.Check(list.Status, status); !decision.Allowed {
				return pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
			}
			var fulfilledAt *time.Time
			if status == enums.DemandListStatusFulfilled {
				fulfilledAt = &now
			}
			if err := lists.UpdateStatus(ctx, list.ID, status, fulfilledAt); err != nil {
				return err
			}
		}

		for _, idx := range touched {
			item := list.Items[idx]
			if item.AvailableQuantity <= 0 || len(item.RelatedOrders) == 0 {
				continue
			}
			moved, err := s.propagate(ctx, orderRepo, item, now, &skipped)
			if err != nil {
				return err
			}
			propagated = append(propagated, moved...)
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err, "process demand list")
	}

	reasons := make([]string, 0)
	for _, e := range multierr.Errors(skipped) {
		reasons = append(reasons, e.Error())
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"demand_list_id":  demandListID.String(),
			"status":          string(status),
			"orders_advanced": len(propagated),
		})
		if len(reasons) > 0 {
			s.logg.Warn(s.logg.WithField(logCtx, "skipped", reasons), "demand_list.propagation_skipped")
		}
		s.logg.Info(logCtx, "demand_list.fulfilled")
	}

	list, err := s.lists.FindByID(ctx, demandListID)
	if err != nil {
		return nil, mapError(err, "reload demand list")
	}
	if propagated == nil {
		propagated = []Propagation{}
	}
	return &DemandListResult{
		DemandList:  demandlists.FromModel(list),
		Propagation: propagated,
		Skipped:     reasons,
	}, nil
}

// propagate credits the received quantity of one demand list line to each of
// its related orders, capped by what every order still has outstanding. Stock
// is not touched here. Orders that cannot take the delivery are reported as
// skip reasons rather than failing it.
func (s *service) propagate(ctx context.Context, repo orders.Repository, item models.DemandListItem, now time.Time, skipped *error) ([]Propagation, error) {
	var moved []Propagation
	for _, orderID := range item.RelatedOrders {
		order, err := repo.LockByID(ctx, orderID)
		if err != nil {
			if db.IsNotFound(err) {
				multierr.AppendInto(skipped, fmt.Errorf("order %s no longer exists", orderID))
				continue
			}
			return nil, err
		}
		if order.Status.IsTerminal() {
			multierr.AppendInto(skipped, fmt.Errorf("order %s is %s", order.OrderNumber, strings.ToLower(string(order.Status))))
			continue
		}
		idx := order.ItemForProduct(item.ProductID)
		if idx < 0 {
			multierr.AppendInto(skipped, fmt.Errorf("order %s has no line for product %s", order.OrderNumber, item.ProductID))
			continue
		}
		line := &order.Items[idx]
		qty := Fulfillable(*line, item.AvailableQuantity)
		if qty <= 0 {
			continue
		}
		line.FulfilledQuantity += qty
		if err := repo.SetItemFulfilled(ctx, line.ID, line.FulfilledQuantity); err != nil {
			return nil, err
		}
		moved = append(moved, Propagation{OrderID: order.ID, ProductID: item.ProductID, Fulfilled: qty})

		if err := s.advanceOrder(ctx, repo, order, now, skipped); err != nil {
			return nil, err
		}
	}
	return moved, nil
}

// advanceOrder writes the recomputed order status. A recompute that lands on
// the current status is a no-op; a transition the machine denies is skipped.
func (s *service) advanceOrder(ctx context.Context, repo orders.Repository, order *models.Order, now time.Time, skipped *error) error {
	next := OrderStatus(order.Items, order.Status)
	if next == order.Status {
		return nil
	}
	if decision := enums.OrderMachine.Check(order.Status, next); !decision.Allowed {
		multierr.AppendInto(skipped, fmt.Errorf("order %s: %s", order.OrderNumber, decision.Reason))
		return nil
	}
	var fulfilledAt *time.Time
	if next == enums.OrderStatusFulfilled {
		fulfilledAt = &now
	}
	if err := repo.UpdateStatus(ctx, order.ID, next, fulfilledAt); err != nil {
		return err
	}
	order.Status = next
	return nil
}

// FulfillOrder sets delivered quantities by hand. Increases take stock out,
// decreases put it back.
func (s *service) FulfillOrder(ctx context.Context, orderID uuid.UUID, items []FulfilledItem) (_ *orders.OrderDTO, err error) {
	done := s.metrics.Track(opFulfillOrder)
	defer func() { done(err) }()

	if len(items) == 0 {
		return nil, fieldError("items", "please provide the fulfilled items")
	}
	for _, item := range items {
		if item.FulfilledQuantity < 0 {
			return nil, fieldError("items.fulfilledQuantity", fmt.Sprintf("fulfilledQuantity for product %s must be non-negative", item.ProductID))
		}
	}

	var status enums.OrderStatus
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		now := s.now()

		order, err := repo.LockByID(ctx, orderID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot fulfill a %s order", strings.ToLower(string(order.Status)))
		}

		for _, in := range items {
			idx := order.ItemForProduct(in.ProductID)
			if idx < 0 {
				continue
			}
			line := &order.Items[idx]
			if in.FulfilledQuantity > line.Quantity {
				return fieldError("items.fulfilledQuantity", fmt.Sprintf("fulfilledQuantity for product %s exceeds the ordered quantity %d", in.ProductID, line.Quantity))
			}
			delta := in.FulfilledQuantity - line.FulfilledQuantity
			if delta == 0 {
				continue
			}
			if err := repo.AdjustStock(ctx, line.ProductID, -delta); err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", line.ProductID)
				}
				return err
			}
			line.FulfilledQuantity = in.FulfilledQuantity
			if err := repo.SetItemFulfilled(ctx, line.ID, line.FulfilledQuantity); err != nil {
				return err
			}
		}

		status = enums.OrderStatusPartial
		if OrderStatus(order.Items, order.Status) == enums.OrderStatusFulfilled {
			status = enums.OrderStatusFulfilled
		}
		if status == order.Status {
			return nil
		}
		if decision := enums.OrderMachine.Check(order.Status, status); !decision.Allowed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
		}
		var fulfilledAt *time.Time
		if status == enums.OrderStatusFulfilled {
			fulfilledAt = &now
		}
		return repo.UpdateStatus(ctx, order.ID, status, fulfilledAt)
	})
	if err != nil {
		return nil, mapError(err, "fulfill order")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID.String(),
			"status":   string(status),
		}), "order.fulfilled")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err, "reload order")
	}
	return orders.FromModel(order), nil
}

func indexOfProduct(items []models.DemandListItem, productID uuid.UUID) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func mapError(err error, step string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
