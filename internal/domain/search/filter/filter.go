package filter

import "strings"

// Tags is a conjunctive tag filter: a document passes when every term is a
// case-insensitive substring of at least one of its tags.
type Tags struct {
	terms []string
}

// NewTags creates a tag filter. Terms are trimmed and lower-cased; blank
// terms are dropped.
func NewTags(tags []string) Tags {
	var terms []string
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return Tags{terms: terms}
}

// Terms returns the lower-cased filter terms.
func (f Tags) Terms() []string {
	out := make([]string, len(f.terms))
	copy(out, f.terms)
	return out
}

// IsEmpty reports whether the filter has no terms.
func (f Tags) IsEmpty() bool { return len(f.terms) == 0 }

// Matches reports whether docTags satisfy every term. An empty filter matches everything.
func (f Tags) Matches(docTags []string) bool {
	if len(f.terms) == 0 {
		return true
	}
	lowered := make([]string, len(docTags))
	for i, t := range docTags {
		lowered[i] = strings.ToLower(t)
	}
	for _, term := range f.terms {
		if !anyContains(lowered, term) {
			return false
		}
	}
	return true
}

func anyContains(tags []string, term string) bool {
	for _, t := range tags {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}
