package geocoder

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder/filter"
)

// A snapshot delivered after a newer one must not overwrite the mirror.
func TestControl_IgnoresLateSnapshot(t *testing.T) {
	c := newControl(API{}, WidgetOptions{})
	state := filter.New(nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var stalled atomic.Bool
	state.OnChange(func(snap filter.Snapshot) {
		if stalled.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
		c.apply(snap)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		state.SetBoundingBox(filter.BoundingBox{LongitudeSW: 1, LatitudeSW: 1, LongitudeNE: 2, LatitudeNE: 2})
	}()
	<-entered
	state.SetBiasPosition(filter.Position{Longitude: 3, Latitude: 4})
	close(release)
	wg.Wait()

	if _, ok := state.BiasPosition(); !ok {
		t.Fatal("state lost the bias position")
	}
	if c.Bbox() != nil {
		t.Fatalf("control bbox=%v want nil after bias won", c.Bbox())
	}
	p := c.Proximity()
	if p == nil || p.Longitude != 3 || p.Latitude != 4 {
		t.Fatalf("control proximity=%v want {3 4}", p)
	}
	req := c.fill(GeocodeConfig{Query: "cafe"})
	if req.BBox != nil || req.Proximity == nil {
		t.Fatalf("filled request bbox=%v proximity=%v", req.BBox, req.Proximity)
	}
}

func TestControl_ApplyOrdersByVersion(t *testing.T) {
	c := newControl(API{}, WidgetOptions{})
	c.apply(filter.Snapshot{Version: 2, Countries: []string{"CAN"}})
	c.apply(filter.Snapshot{Version: 1, Countries: []string{"USA"}})
	if c.Countries() != "CAN" {
		t.Fatalf("countries=%q want CAN", c.Countries())
	}
	c.apply(filter.Snapshot{Version: 3})
	if c.Countries() != "" {
		t.Fatalf("countries=%q want empty", c.Countries())
	}
}
