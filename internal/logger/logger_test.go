package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestBuild_StaticFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "info", Backend: "Geo Places", Component: "server"}, &buf)
	zl.Info().Msg("hello")

	m := decode(t, &buf)
	if m["msg"] != "hello" || m["backend"] != "Geo Places" || m["component"] != "server" {
		t.Fatalf("unexpected record: %v", m)
	}
	if _, ok := m["timestamp"]; !ok {
		t.Fatalf("missing timestamp: %v", m)
	}
}

func TestSlogBridge_ContextAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug"}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log := NewSlog(&zl).With("service", "Location")
	ctx := WithOperation(WithRequestID(context.Background(), "req-1"), "forwardGeocode")
	log.WarnContext(ctx, "category filter rejected", "max", 10)

	m := decode(t, &buf)
	if m["level"] != "warn" {
		t.Fatalf("level=%v want warn", m["level"])
	}
	if m["request_id"] != "req-1" || m["operation"] != "forwardGeocode" || m["service"] != "Location" {
		t.Fatalf("missing context fields: %v", m)
	}
	if m["max"] != float64(10) {
		t.Fatalf("max=%v want 10", m["max"])
	}
}

func TestSlogBridge_LevelGate(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "warn"}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log := NewSlog(&zl)
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %s", buf.String())
	}
	log.Error("kept")
	if buf.Len() == 0 {
		t.Fatal("error record dropped at warn level")
	}
}

func TestWithRequestID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if id := RequestID(ctx); len(id) != 16 {
		t.Fatalf("generated id %q, want 16 hex chars", id)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"trace":   zerolog.TraceLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}
