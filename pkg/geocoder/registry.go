package geocoder

import (
	"log/slog"
	"sort"
	"sync"
)

// Backend describes one kind of geocoding client. Backend packages register
// themselves from init, keyed by the SDK service identifier.
type Backend struct {
	ServiceID string
	// Accepts reports whether client is this backend's client kind.
	Accepts func(client any) bool
	NewAPI  func(client any, opts Options, logger *slog.Logger) (API, error)
}

var (
	regMu    sync.RWMutex
	backends = map[string]Backend{}
)

func Register(b Backend) {
	if b.ServiceID == "" || b.Accepts == nil || b.NewAPI == nil {
		panic("geocoder: Register called with incomplete backend")
	}
	regMu.Lock()
	defer regMu.Unlock()
	backends[b.ServiceID] = b
}

// ServiceIDs lists the registered backends.
func ServiceIDs() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	ids := make([]string, 0, len(backends))
	for id := range backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func matchBackends(client any) []Backend {
	regMu.RLock()
	defer regMu.RUnlock()
	var out []Backend
	for _, b := range backends {
		if b.Accepts(client) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceID < out[j].ServiceID })
	return out
}
