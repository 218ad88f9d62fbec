package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestStorefrontMetricsExportsCountersAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)

	metrics.IncCartOp("add")
	metrics.IncCartOp("add")
	metrics.IncCartOp("remove")
	metrics.ObserveCheckout(decimal.NewFromInt(350))
	metrics.ObserveRequest("/api/v1/cart", 50*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_operations_total", "op", "add"); err != nil {
		t.Fatalf("fetch add counter: %v", err)
	} else if got != 2 {
		t.Fatalf("expected add=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_operations_total", "op", "remove"); err != nil {
		t.Fatalf("fetch remove counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected remove=1, got %f", got)
	}

	if mf := findMetricFamily(mfs, "checkouts_completed_total"); mf == nil {
		t.Fatal("checkout counter not registered")
	} else if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 completed checkout, got %f", got)
	}

	if mf := findMetricFamily(mfs, "order_total"); mf == nil {
		t.Fatal("order total histogram not registered")
	} else if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum != 350 {
		t.Fatalf("expected order total sum 350, got %f", sum)
	}
}

func TestStorefrontMetricsNilSafe(t *testing.T) {
	var metrics *StorefrontMetrics
	metrics.IncCartOp("add")
	metrics.ObserveCheckout(decimal.Zero)
	metrics.ObserveRequest("", time.Second)

	empty := NewStorefrontMetrics(nil)
	empty.IncCartOp("add")
	empty.ObserveCheckout(decimal.Zero)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
