package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		args []any
		want bool
	}{
		{name: "health check", msg: "http request", args: []any{"method", "GET", "path", "/healthz"}, want: true},
		{name: "api request", msg: "http request", args: []any{"path", "/v1/builder/sessions"}, want: false},
		{name: "empty sweep", msg: "sessions swept", args: []any{"kind", "builder", "removed", 0}, want: true},
		{name: "sweep with removals", msg: "sessions swept", args: []any{"removed", 2}, want: false},
		{name: "other event", msg: "advice request failed", args: []any{"path", "/healthz"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSkipUptraceLog(tt.msg, tt.args); got != tt.want {
				t.Fatalf("shouldSkipUptraceLog=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"session_id", "builder-1", "generation", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "session_id" || attrs[0].Value.AsString() != "builder-1" {
		t.Fatalf("unexpected session_id attribute")
	}
	if attrs[1].Key != "generation" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected generation attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"GK":  2,
		"DEF": 5,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	items := v.AsMap()
	if len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}
