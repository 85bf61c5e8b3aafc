package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
)

type overdueReader interface {
	ListOverdue(ctx context.Context, cutoff time.Time) ([]models.DemandList, error)
}

type overdueGauge interface {
	SetOverdueDemandLists(count int)
}

type OverdueDemandListsJobParams struct {
	DemandLists overdueReader
	Gauge       overdueGauge
	Logger      *logger.Logger
	After       time.Duration
	Now         func() time.Time
}

// OverdueDemandListsJob reports submitted or confirmed demand lists whose
// supplier has not delivered within After of the demand date.
type OverdueDemandListsJob struct {
	lists overdueReader
	gauge overdueGauge
	logg  *logger.Logger
	after time.Duration
	now   func() time.Time
}

func NewOverdueDemandListsJob(params OverdueDemandListsJobParams) (*OverdueDemandListsJob, error) {
	if params.DemandLists == nil {
		return nil, errors.New("demand list reader required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.After <= 0 {
		return nil, fmt.Errorf("overdue window must be positive, got %s", params.After)
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &OverdueDemandListsJob{
		lists: params.DemandLists,
		gauge: params.Gauge,
		logg:  params.Logger,
		after: params.After,
		now:   now,
	}, nil
}

func (j *OverdueDemandListsJob) Name() string { return "overdue_demand_lists" }

func (j *OverdueDemandListsJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	rows, err := j.lists.ListOverdue(ctx, now.Add(-j.after))
	if err != nil {
		return fmt.Errorf("list overdue demand lists: %w", err)
	}
	if j.gauge != nil {
		j.gauge.SetOverdueDemandLists(len(rows))
	}

	for _, list := range rows {
		fields := map[string]any{
			"demand_list_id": list.ID.String(),
			"status":         string(list.Status),
			"demand_date":    list.DemandDate.Format(time.DateOnly),
			"days_open":      int(now.Sub(list.DemandDate).Hours() / 24),
		}
		if list.Supplier != nil {
			fields["supplier"] = list.Supplier.Name
		}
		j.logg.Warn(j.logg.WithFields(ctx, fields), "demand list overdue")
	}
	return nil
}
