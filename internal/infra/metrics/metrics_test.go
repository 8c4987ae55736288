package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_Idempotent(t *testing.T) {
	MustRegister()
	MustRegister()
}

func TestCounters(t *testing.T) {
	IncJobCreated(" Run_CBC ")
	if got := testutil.ToFloat64(jobsCreatedTotal.WithLabelValues("run_cbc")); got < 1 {
		t.Fatalf("expected normalized label to be counted, got %v", got)
	}

	IncInboundSMS("")
	if got := testutil.ToFloat64(inboundSMSTotal.WithLabelValues("unknown")); got < 1 {
		t.Fatalf("blank label should map to unknown, got %v", got)
	}

	var _ prometheus.Collector = httpRequestsTotal
	ObserveHTTP("GET", 204, 0.01)
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("get", "204")); got < 1 {
		t.Fatalf("expected http counter, got %v", got)
	}
}
