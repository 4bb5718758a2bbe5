package database_test

import (
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tair/grocery-pos/pkg/database"
)

func TestUseTracingTagsQuerySpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	db := openDB(t)
	if err := database.UseTracing(db, "grocery"); err != nil {
		t.Fatalf("UseTracing: %v", err)
	}
	if err := db.Create(&widget{Name: "scale"}).Error; err != nil {
		t.Fatal(err)
	}
	if got := countWidgets(t, db); got != 1 {
		t.Fatalf("widgets = %d, want 1", got)
	}

	spans := recorder.Ended()
	if len(spans) == 0 {
		t.Fatal("no query spans recorded")
	}
	want := attribute.String("db.name", "grocery")
	for _, span := range spans {
		found := false
		for _, kv := range span.Attributes() {
			if kv == want {
				found = true
			}
		}
		if !found {
			t.Errorf("span %q missing %v", span.Name(), want)
		}
	}
}
