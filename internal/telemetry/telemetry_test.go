package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInit_Disabled(t *testing.T) {
	if err := Init(Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(shutdownFns) != 0 {
		t.Errorf("disabled telemetry registered %d shutdown funcs", len(shutdownFns))
	}

	_, span := Tracer("").Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled tracer produced a recording span")
	}
	span.End()
}

func TestInit_EnabledExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Enabled: true, ServiceName: "flowview-test", Version: "dev", Writer: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { Init(Options{}) })

	counter, err := Meter("test").Int64Counter("test.count")
	if err != nil {
		t.Fatalf("Int64Counter: %v", err)
	}
	counter.Add(context.Background(), 1)

	_, span := Tracer("test").Start(context.Background(), "unit-span")
	span.End()

	Shutdown(context.Background())

	out := buf.String()
	if !strings.Contains(out, "unit-span") {
		t.Errorf("exported output missing span name:\n%s", out)
	}
	if !strings.Contains(out, "flowview-test") {
		t.Errorf("exported output missing service name:\n%s", out)
	}
	if len(shutdownFns) != 0 {
		t.Error("Shutdown did not clear shutdown funcs")
	}
}
