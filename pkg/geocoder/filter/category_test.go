package filter

import "testing"

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"CoffeeShop":        "Coffee Shop",
		"ATM":               "ATM",
		"EVChargingStation": "EV Charging Station",
		"Hotel":             "Hotel",
		// outside the vocabulary: space before every capital
		"NightClub": "Night Club",
		"SkiResort": "Ski Resort",
		"lowercase": "lowercase",
		"":          "",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q)=%q want %q", in, got, want)
		}
	}
}

func TestParseCategory_RoundTripsDisplay(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(c.Display())
		if !ok || got != c {
			t.Fatalf("ParseCategory(%q)=%q,%v want %q", c.Display(), got, ok, c)
		}
	}
}

func TestCategories_Sorted(t *testing.T) {
	cs := Categories()
	for i := 1; i < len(cs); i++ {
		if cs[i-1] >= cs[i] {
			t.Fatalf("not sorted at %d: %q >= %q", i, cs[i-1], cs[i])
		}
	}
}
