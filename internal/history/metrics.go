package history

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes the size of s as the zencalc_history_entries gauge.
func RegisterMetrics(reg prometheus.Registerer, s Store) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "zencalc",
		Name:      "history_entries",
		Help:      "Number of calculations currently kept in history.",
	}, func() float64 {
		return float64(s.Len())
	})

	if err := reg.Register(gauge); err != nil {
		return fmt.Errorf("registering history gauge: %w", err)
	}
	return nil
}
