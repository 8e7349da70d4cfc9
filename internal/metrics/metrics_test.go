package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWorkflow_Counters(t *testing.T) {
	w := New()

	w.UploadStarted()
	w.UploadStarted()
	w.ProgressTick()
	w.UploadCompleted()
	w.UploadPromoted()
	w.UploadCancelled()
	w.SetInFlight(3)

	if got := testutil.ToFloat64(w.uploadsStarted); got != 2 {
		t.Errorf("uploads_started_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(w.uploadsInFlight); got != 3 {
		t.Errorf("uploads_in_flight = %v, want 3", got)
	}
	if got := testutil.ToFloat64(w.uploadsPromoted); got != 1 {
		t.Errorf("uploads_promoted_total = %v, want 1", got)
	}
}

func TestWorkflow_Rejected(t *testing.T) {
	w := New()
	w.Rejected("DURATION_MISMATCH")
	w.Rejected("DURATION_MISMATCH")
	w.Rejected("")

	if got := testutil.ToFloat64(w.rejections.WithLabelValues("DURATION_MISMATCH")); got != 2 {
		t.Errorf("rejections{DURATION_MISMATCH} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(w.rejections.WithLabelValues("other")); got != 1 {
		t.Errorf("rejections{other} = %v, want 1", got)
	}
}

func TestWorkflow_Handler(t *testing.T) {
	w := New()
	w.UploadCompleted()
	w.ObserveRequest(http.MethodGet, 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	w.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"fastchannel_uploads_completed_total 1",
		"fastchannel_http_request_duration_seconds_count{method=\"GET\",status=\"200\"} 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a, b := New(), New()
	a.UploadStarted()
	if got := testutil.ToFloat64(b.uploadsStarted); got != 0 {
		t.Errorf("second registry saw %v starts", got)
	}
}
