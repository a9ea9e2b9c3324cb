package request

import (
	"math"
	"reflect"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	r := New("Hello, World", nil)
	if r.Query() != "Hello, World" {
		t.Errorf("Query() = %q", r.Query())
	}
	if !reflect.DeepEqual(r.Tokens(), []string{"hello", "world"}) {
		t.Errorf("Tokens() = %v", r.Tokens())
	}
	if !r.Tags().IsEmpty() {
		t.Error("expected empty tag filter")
	}
	if r.Page() != DefaultPage {
		t.Errorf("Page() = %d, want %d", r.Page(), DefaultPage)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
	if r.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", r.Offset())
	}
}

func TestNew_Clamping(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"in range", 3, 10, 3, 10},
		{"limit too large", 1, 500, 1, MaxLimit},
		{"limit zero", 1, 0, 1, MinLimit},
		{"limit negative", 1, -7, 1, MinLimit},
		{"limit at max", 1, 50, 1, 50},
		{"page zero", 0, 20, 1, 20},
		{"page negative", -3, 20, 1, 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New("x", nil, WithPage(tc.page), WithLimit(tc.limit))
			if r.Page() != tc.wantPage {
				t.Errorf("Page() = %d, want %d", r.Page(), tc.wantPage)
			}
			if r.Limit() != tc.wantLimit {
				t.Errorf("Limit() = %d, want %d", r.Limit(), tc.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	r := New("x", nil, WithPage(3), WithLimit(7))
	if r.Offset() != 14 {
		t.Fatalf("Offset() = %d, want 14", r.Offset())
	}
}

func TestNew_Tags(t *testing.T) {
	r := New("", []string{"Energy"})
	if len(r.Tokens()) != 0 {
		t.Errorf("expected no tokens, got %v", r.Tokens())
	}
	if r.Tags().IsEmpty() {
		t.Fatal("expected tag filter")
	}
	if r.Tags().Terms()[0] != "energy" {
		t.Errorf("unexpected terms %v", r.Tags().Terms())
	}
}

func TestNew_HugePageDoesNotOverflow(t *testing.T) {
	for _, limit := range []int{MinLimit, 7, DefaultLimit, MaxLimit} {
		r := New("energy", nil, WithPage(math.MaxInt), WithLimit(limit))
		if r.Offset() < 0 {
			t.Fatalf("limit=%d: Offset() = %d, want non-negative", limit, r.Offset())
		}
		if r.Page() != math.MaxInt/limit+1 {
			t.Errorf("limit=%d: Page() = %d, want %d", limit, r.Page(), math.MaxInt/limit+1)
		}
	}
}

func TestNew_BlankTagsDropped(t *testing.T) {
	r := New("", []string{"", "  "})
	if !r.Tags().IsEmpty() {
		t.Fatalf("expected empty tag filter, got %v", r.Tags().Terms())
	}
}
