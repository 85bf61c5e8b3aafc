package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics holds the stock health gauges refreshed by the cron worker.
type InventoryMetrics struct {
	stock   *prometheus.GaugeVec
	overdue prometheus.Gauge
}

func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	stock := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wholesale",
		Name:      "products_below_stock",
		Help:      "Products under the low stock threshold, split into low and out.",
	}, []string{"bucket"})
	overdue := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wholesale",
		Name:      "demand_lists_overdue",
		Help:      "Submitted or confirmed demand lists past their expected delivery window.",
	})
	reg.MustRegister(stock, overdue)
	return &InventoryMetrics{stock: stock, overdue: overdue}
}

func (m *InventoryMetrics) SetLowStock(low, out int) {
	if m == nil || m.stock == nil {
		return
	}
	m.stock.WithLabelValues("low").Set(float64(low))
	m.stock.WithLabelValues("out").Set(float64(out))
}

func (m *InventoryMetrics) SetOverdueDemandLists(count int) {
	if m == nil || m.overdue == nil {
		return
	}
	m.overdue.Set(float64(count))
}
