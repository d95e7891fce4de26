package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveInvocation_CountsByOutcome(t *testing.T) {
	m := New()

	m.ObserveInvocation(OutcomeSuccess, 2*time.Second)
	m.ObserveInvocation(OutcomeSuccess, 3*time.Second)
	m.ObserveInvocation(OutcomeFailure, time.Second)
	m.ObserveInvocation(OutcomeEmpty, time.Second)

	if got := testutil.ToFloat64(m.invocations.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("success count = %v", got)
	}
	if got := testutil.ToFloat64(m.invocations.WithLabelValues(OutcomeFailure)); got != 1 {
		t.Errorf("failure count = %v", got)
	}
	if got := testutil.ToFloat64(m.invocations.WithLabelValues(OutcomeEmpty)); got != 1 {
		t.Errorf("empty count = %v", got)
	}
}

func TestObserveRetry(t *testing.T) {
	m := New()
	m.ObserveRetry()
	m.ObserveRetry()

	if got := testutil.ToFloat64(m.retries); got != 2 {
		t.Errorf("retries = %v", got)
	}
}

func TestNew_PrivateRegistryAllowsRepeatedConstruction(t *testing.T) {
	// Must not panic with duplicate registration.
	_ = New()
	_ = New()
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveInvocation(OutcomeSuccess, 5*time.Second)
	m.ObserveRetry()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body, _ := io.ReadAll(rec.Result().Body)
	text := string(body)

	for _, want := range []string{
		`ccheavy_agent_invocations_total{outcome="success"} 1`,
		"ccheavy_agent_retries_total 1",
		"ccheavy_agent_invocation_seconds_bucket",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
