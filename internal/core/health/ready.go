package health

import (
	"encoding/json"
	"net/http"
)

// ReadinessReporter reports whether a geocoder is built and which of its
// operations are wired.
type ReadinessReporter interface {
	Readiness() (ready bool, service string, operations []string)
}

func Readiness(rr ReadinessReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type resp struct {
			Status     string   `json:"status"`
			Service    string   `json:"service,omitempty"`
			Operations []string `json:"operations,omitempty"`
		}
		ready, service, ops := rr.Readiness()
		out := resp{Status: "not_ready"}
		if ready {
			out.Status = "ready"
			out.Service = service
			out.Operations = ops
		}
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
