package filter

import "testing"

func TestNewTags_Empty(t *testing.T) {
	f := NewTags(nil)
	if !f.IsEmpty() {
		t.Fatal("expected empty filter")
	}
	if !f.Matches(nil) || !f.Matches([]string{"anything"}) {
		t.Fatal("empty filter must match every document")
	}
}

func TestNewTags_LowerCases(t *testing.T) {
	f := NewTags([]string{"Energy", "SEED"})
	terms := f.Terms()
	if terms[0] != "energy" || terms[1] != "seed" {
		t.Fatalf("unexpected terms: %v", terms)
	}
	terms[0] = "mutated"
	if f.Terms()[0] != "energy" {
		t.Fatal("Terms() must return a copy")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		filter  []string
		docTags []string
		want    bool
	}{
		{"exact", []string{"energy"}, []string{"energy"}, true},
		{"case-insensitive", []string{"ENERGY"}, []string{"Energy"}, true},
		{"substring", []string{"health"}, []string{"digital-health"}, true},
		{"no match", []string{"energy"}, []string{"health"}, false},
		{"and both satisfied", []string{"energy", "seed"}, []string{"seed", "houston", "energy"}, true},
		{"and one missing", []string{"energy", "seed"}, []string{"energy", "houston"}, false},
		{"same tag satisfies two terms", []string{"pre", "seed"}, []string{"pre-seed"}, true},
		{"document without tags", []string{"energy"}, nil, false},
		{"padded term", []string{"  Energy "}, []string{"energy"}, true},
		{"blank term ignored", []string{"energy", "  "}, []string{"energy"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewTags(tc.filter).Matches(tc.docTags); got != tc.want {
				t.Errorf("Matches(%v) with %v = %v, want %v", tc.docTags, tc.filter, got, tc.want)
			}
		})
	}
}

func TestNewTags_DropsBlankTerms(t *testing.T) {
	f := NewTags([]string{"", "  ", "\t"})
	if !f.IsEmpty() {
		t.Fatalf("expected empty filter, got %v", f.Terms())
	}

	f = NewTags([]string{" seed ", ""})
	if terms := f.Terms(); len(terms) != 1 || terms[0] != "seed" {
		t.Fatalf("unexpected terms: %v", terms)
	}
}
