package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
)

const maxLoggedProducts = 20

type stockReader interface {
	ListBelowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

type stockGauges interface {
	SetLowStock(low, out int)
}

type LowStockJobParams struct {
	Products  stockReader
	Gauges    stockGauges
	Logger    *logger.Logger
	Threshold int
}

// LowStockJob counts products under the threshold and warns with the emptiest ones.
type LowStockJob struct {
	products  stockReader
	gauges    stockGauges
	logg      *logger.Logger
	threshold int
}

func NewLowStockJob(params LowStockJobParams) (*LowStockJob, error) {
	if params.Products == nil {
		return nil, errors.New("product reader required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Threshold <= 0 {
		return nil, fmt.Errorf("low stock threshold must be positive, got %d", params.Threshold)
	}
	return &LowStockJob{
		products:  params.Products,
		gauges:    params.Gauges,
		logg:      params.Logger,
		threshold: params.Threshold,
	}, nil
}

func (j *LowStockJob) Name() string { return "low_stock_scan" }

func (j *LowStockJob) Run(ctx context.Context) error {
	rows, err := j.products.ListBelowStock(ctx, j.threshold)
	if err != nil {
		return fmt.Errorf("list products below stock: %w", err)
	}

	low, out := 0, 0
	names := make([]string, 0, min(len(rows), maxLoggedProducts))
	for _, p := range rows {
		if p.QuantityOnHand <= 0 {
			out++
		} else {
			low++
		}
		if len(names) < maxLoggedProducts {
			names = append(names, p.Name)
		}
	}
	if j.gauges != nil {
		j.gauges.SetLowStock(low, out)
	}

	if len(rows) == 0 {
		return nil
	}
	j.logg.Warn(j.logg.WithFields(ctx, map[string]any{
		"threshold":    j.threshold,
		"low_stock":    low,
		"out_of_stock": out,
		"products":     names,
	}), "products below stock threshold")
	return nil
}
