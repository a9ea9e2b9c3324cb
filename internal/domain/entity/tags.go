package entity

import (
	"encoding/json"
	"strings"
)

// ParseTags decodes a stored tag column. The column holds either a JSON array
// of strings or a legacy comma-separated list. Non-string array members and
// blank items are dropped.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}

	var scalar any
	if err := json.Unmarshal([]byte(raw), &scalar); err == nil {
		// valid JSON but not an array
		return []string{}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatTags encodes tags for storage as a JSON array.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}
