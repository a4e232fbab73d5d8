package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandler_Smoke(t *testing.T) {
	ExposeBuildInfo("test")
	ObserveHTTP("GET", "/geocode/forward", 200, 0.001)

	body := scrape(t)
	if !strings.Contains(body, "app_build_info") && !strings.Contains(body, "http_requests_total") {
		t.Fatalf("metrics payload did not contain expected metric names; got:\n%s", body)
	}
}

func TestBackendMetrics_CountsErrorsSeparately(t *testing.T) {
	ObserveBackendCall("Geo Places", "forwardGeocode", nil, 0.010)
	ObserveBackendCall("Geo Places", "getSuggestions", errors.New("boom"), 0.020)

	body := scrape(t)
	if !strings.Contains(body, `geocoder_backend_requests_total{operation="forwardGeocode",service="Geo Places"} `) {
		t.Fatalf("missing geocoder_backend_requests_total sample:\n%s", body)
	}
	if !strings.Contains(body, `geocoder_backend_errors_total{operation="getSuggestions",service="Geo Places"} `) {
		t.Fatalf("missing geocoder_backend_errors_total sample:\n%s", body)
	}
	if strings.Contains(body, `geocoder_backend_errors_total{operation="forwardGeocode"`) {
		t.Fatalf("successful call counted as error:\n%s", body)
	}
	if !strings.Contains(body, "geocoder_backend_latency_seconds_bucket") {
		t.Fatalf("missing histogram buckets for geocoder_backend_latency_seconds:\n%s", body)
	}
}

func TestHTTPMetrics_BackendLabel(t *testing.T) {
	SetBackend("Location")
	t.Cleanup(func() { SetBackend("") })
	ObserveHTTP("GET", "/filters", 200, 0.001)

	body := scrape(t)
	if !strings.Contains(body, `http_requests_total{backend="Location",method="GET",route="/filters",status="200"} `) {
		t.Fatalf("missing http_requests_total sample with backend label:\n%s", body)
	}
}

func TestFilterRejections(t *testing.T) {
	IncFilterRejection("categories")

	body := scrape(t)
	if !strings.Contains(body, `geocoder_filter_rejections_total{filter="categories"} `) {
		t.Fatalf("missing geocoder_filter_rejections_total sample:\n%s", body)
	}
}
