package telemetry_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/portfolio-api/internal/telemetry"
)

func TestProvider_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	p, err := telemetry.NewProvider(telemetry.Config{
		ServiceName: "portfolio-api-test",
		Environment: "test",
		SampleRate:  1.0,
		Writer:      &buf,
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	_, span := p.Tracer().Start(context.Background(), "search")
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"Name":"search"`) {
		t.Errorf("Expected exported span named search, got %s", buf.String())
	}
}
