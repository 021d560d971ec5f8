package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/goals/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(mux)

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "GET /api/goals/{id}", "204"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/goals/abc", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/goals/def", nil))
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "GET /api/goals/{id}", "204"))
	if after-before != 2 {
		t.Fatalf("counter grew by %v, want 2", after-before)
	}

	before = testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if got := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404")); got-before != 1 {
		t.Fatalf("unmatched counter grew by %v, want 1", got-before)
	}
}
