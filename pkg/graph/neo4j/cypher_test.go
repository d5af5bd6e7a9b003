package neo4j

import (
	"testing"
	"time"
)

func TestDepthPattern(t *testing.T) {
	tests := []struct {
		depth int
		want  string
	}{
		{depth: 1, want: "*1"},
		{depth: 2, want: "*1..2"},
		{depth: 3, want: "*1..3"},
		{depth: 4, want: "*1..5"},
		{depth: 5, want: "*1..5"},
		{depth: 17, want: "*1..5"},
		{depth: 0, want: "*1..5"},
		{depth: -1, want: "*1..5"},
	}

	for _, tc := range tests {
		if got := depthPattern(tc.depth); got != tc.want {
			t.Errorf("depthPattern(%d) = %q, want %q", tc.depth, got, tc.want)
		}
	}
}

func TestValueConversions(t *testing.T) {
	if got := asString(nil); got != "" {
		t.Errorf("asString(nil) = %q, want empty", got)
	}
	if got := asString("Moz"); got != "Moz" {
		t.Errorf("asString() = %q", got)
	}

	if got := asInt64(int64(7)); got != 7 {
		t.Errorf("asInt64(int64) = %d", got)
	}
	if got := asInt64(nil); got != 0 {
		t.Errorf("asInt64(nil) = %d, want 0", got)
	}

	now := time.Now()
	if got := asTime(now); !got.Equal(now) {
		t.Errorf("asTime() = %v, want %v", got, now)
	}
	if got := asTime("not a time"); !got.IsZero() {
		t.Errorf("asTime(string) = %v, want zero", got)
	}

	slice := asStringSlice([]any{"seo", "", "analytics", 3})
	if len(slice) != 2 || slice[0] != "seo" || slice[1] != "analytics" {
		t.Errorf("asStringSlice() = %v", slice)
	}
	if got := asStringSlice(nil); got == nil {
		t.Error("asStringSlice(nil) must return empty non-nil slice")
	}
}

func TestNodeDisplayNameFallbacks(t *testing.T) {
	if got := nameOrUnknown(""); got != "Unknown" {
		t.Errorf("nameOrUnknown(\"\") = %q", got)
	}
	if got := nameOrUnknown("HubSpot"); got != "HubSpot" {
		t.Errorf("nameOrUnknown() = %q", got)
	}
}
