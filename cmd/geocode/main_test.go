package main

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"-op", "suggest", "-limit", "3", "coffee", "near", "me"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if f.op != "suggest" || f.query != "coffee near me" {
		t.Fatalf("flags=%+v", f)
	}

	if _, err := parseFlags([]string{"-op", "lookup", "-q", "x"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown op")
	}
	if _, err := parseFlags([]string{"-op", "forward"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for missing query")
	}
}

func TestRequest(t *testing.T) {
	f := cliFlags{op: "reverse", query: "-123.1, 45.2", language: "fr,en", limit: "2"}
	req, err := f.request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !reflect.DeepEqual(req.QueryPosition, []float64{-123.1, 45.2}) {
		t.Fatalf("query position=%v", req.QueryPosition)
	}
	if req.FirstLanguage() != "fr" || req.Limit != 2 {
		t.Fatalf("req=%+v", req)
	}

	if _, err := (cliFlags{op: "reverse", query: "Main Street"}).request(); err == nil {
		t.Fatal("expected error for non-coordinate reverse query")
	}
	if _, err := (cliFlags{op: "forward", query: "x", bbox: "1,2,3"}).request(); err == nil {
		t.Fatal("expected error for short bbox")
	}
}

func TestExecute(t *testing.T) {
	var got geocoder.GeocodeConfig
	api := geocoder.API{
		ForwardGeocode: func(_ context.Context, cfg geocoder.GeocodeConfig) geocoder.FeatureResults {
			got = cfg
			return geocoder.EmptyFeatures()
		},
	}
	g, err := geocoder.New(api, geocoder.WidgetOptions{}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := applyCategories(g, "coffee shop, atm"); err != nil {
		t.Fatalf("applyCategories: %v", err)
	}
	if err := applyCategories(g, "dragons"); err == nil {
		t.Fatal("expected unknown category to be rejected")
	}

	if _, err := execute(context.Background(), g, "forward", geocoder.GeocodeConfig{Query: "latte"}); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if got.Types != "CoffeeShop,ATM" {
		t.Fatalf("types=%q", got.Types)
	}

	_, err = execute(context.Background(), g, "place", geocoder.GeocodeConfig{Query: "abc"})
	if err == nil || !strings.Contains(err.Error(), "not enabled") {
		t.Fatalf("err=%v", err)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"-op", "nope", "-q", "x"}, &bytes.Buffer{}, &stderr); code != 2 {
		t.Fatalf("code=%d", code)
	}
	if !strings.Contains(stderr.String(), "unknown op") {
		t.Fatalf("stderr=%q", stderr.String())
	}
}

func TestRun_UnknownBackend(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-backend", "locaton", "-q", "cafe"}, &bytes.Buffer{}, &stderr)
	if code != 2 || !strings.Contains(stderr.String(), "GEOCODER_BACKEND") {
		t.Fatalf("code=%d stderr=%q", code, stderr.String())
	}
}
