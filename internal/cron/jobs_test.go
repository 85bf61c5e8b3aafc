package cron

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wholesale-backend/internal/demandlists"
	"github.com/angelmondragon/wholesale-backend/internal/products"
	"github.com/angelmondragon/wholesale-backend/pkg/db/dbtest"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

type recordingGauges struct {
	low, out, overdue int
	calls             int
}

func (r *recordingGauges) SetLowStock(low, out int) {
	r.low, r.out = low, out
	r.calls++
}

func (r *recordingGauges) SetOverdueDemandLists(count int) {
	r.overdue = count
	r.calls++
}

func TestLowStockJobCountsBuckets(t *testing.T) {
	conn := dbtest.Client(t).DB()
	dbtest.Product(t, conn, "Soap", "10", 0)
	dbtest.Product(t, conn, "Rice", "20", 3)
	dbtest.Product(t, conn, "Flour", "15", 9)
	dbtest.Product(t, conn, "Sugar", "12", 50)

	buf := &bytes.Buffer{}
	gauges := &recordingGauges{}
	job, err := NewLowStockJob(LowStockJobParams{
		Products:  products.NewRepository(conn),
		Gauges:    gauges,
		Logger:    newTestLogger(buf),
		Threshold: products.LowStockThreshold,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 2, gauges.low)
	assert.Equal(t, 1, gauges.out)
	assert.Contains(t, buf.String(), "products below stock threshold")
	assert.Contains(t, buf.String(), "Soap")
	assert.NotContains(t, buf.String(), "Sugar")
}

func TestLowStockJobQuietWhenStocked(t *testing.T) {
	conn := dbtest.Client(t).DB()
	dbtest.Product(t, conn, "Sugar", "12", 50)

	buf := &bytes.Buffer{}
	gauges := &recordingGauges{low: 7, out: 7}
	job, err := NewLowStockJob(LowStockJobParams{
		Products:  products.NewRepository(conn),
		Gauges:    gauges,
		Logger:    newTestLogger(buf),
		Threshold: 10,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, gauges.low)
	assert.Zero(t, gauges.out)
	assert.Equal(t, 1, gauges.calls)
	assert.Empty(t, buf.String())
}

type failingStockReader struct{}

func (failingStockReader) ListBelowStock(context.Context, int) ([]models.Product, error) {
	return nil, errors.New("db gone")
}

func TestLowStockJobPropagatesErrors(t *testing.T) {
	gauges := &recordingGauges{}
	job, err := NewLowStockJob(LowStockJobParams{
		Products:  failingStockReader{},
		Gauges:    gauges,
		Logger:    newTestLogger(&bytes.Buffer{}),
		Threshold: 10,
	})
	require.NoError(t, err)
	assert.ErrorContains(t, job.Run(context.Background()), "db gone")
	assert.Zero(t, gauges.calls)

	_, err = NewLowStockJob(LowStockJobParams{Products: failingStockReader{}, Logger: newTestLogger(&bytes.Buffer{})})
	assert.Error(t, err, "zero threshold must be rejected")
}

func TestOverdueDemandListsJob(t *testing.T) {
	conn := dbtest.Client(t).DB()
	supplier := dbtest.Supplier(t, conn, "Acme")
	soap := dbtest.Product(t, conn, "Soap", "10", 0)
	line := dbtest.DemandLine{Product: soap, Quantity: 4}

	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	old := now.Add(-10 * 24 * time.Hour)
	recent := now.Add(-2 * 24 * time.Hour)

	seed := func(status enums.DemandListStatus, demandDate time.Time) *models.DemandList {
		list := dbtest.DemandList(t, conn, supplier, status, line)
		require.NoError(t, conn.Model(&models.DemandList{}).Where("id = ?", list.ID).Update("demand_date", demandDate).Error)
		return list
	}
	submitted := seed(enums.DemandListStatusSubmitted, old)
	confirmed := seed(enums.DemandListStatusConfirmed, old.Add(24*time.Hour))
	seed(enums.DemandListStatusConfirmed, recent)
	seed(enums.DemandListStatusDraft, old)
	seed(enums.DemandListStatusPartial, old)
	seed(enums.DemandListStatusFulfilled, old)

	repo := demandlists.NewRepository(conn)
	rows, err := repo.ListOverdue(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, submitted.ID, rows[0].ID)
	assert.Equal(t, confirmed.ID, rows[1].ID)
	require.NotNil(t, rows[0].Supplier)
	assert.Equal(t, "Acme", rows[0].Supplier.Name)

	buf := &bytes.Buffer{}
	gauges := &recordingGauges{}
	job, err := NewOverdueDemandListsJob(OverdueDemandListsJobParams{
		DemandLists: repo,
		Gauge:       gauges,
		Logger:      newTestLogger(buf),
		After:       7 * 24 * time.Hour,
		Now:         func() time.Time { return now },
	})
	require.NoError(t, err)
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 2, gauges.overdue)
	assert.Contains(t, buf.String(), submitted.ID.String())
	assert.Contains(t, buf.String(), `"days_open":10`)
	assert.Contains(t, buf.String(), `"supplier":"Acme"`)
}

func TestNewOverdueDemandListsJobValidation(t *testing.T) {
	logg := newTestLogger(&bytes.Buffer{})
	_, err := NewOverdueDemandListsJob(OverdueDemandListsJobParams{Logger: logg, After: time.Hour})
	assert.Error(t, err)
	_, err = NewOverdueDemandListsJob(OverdueDemandListsJobParams{DemandLists: demandlists.NewRepository(nil), Logger: logg})
	assert.Error(t, err)
}
