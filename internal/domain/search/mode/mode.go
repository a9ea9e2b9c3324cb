package mode

import "github.com/houston-ecosystem/ecomap/internal/domain/search/request"

// Mode is the path a search request takes through the orchestrator.
type Mode string

// Search mode constants.
const (
	// Text ranks documents with BM25 over the query tokens.
	Text Mode = "text"
	// Tags lists tag-filtered documents alphabetically with a constant score.
	Tags Mode = "tags"
	// Empty is a request with neither query tokens nor tags.
	Empty Mode = "empty"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Text || m == Tags || m == Empty
}

// Of classifies a request.
func Of(r *request.Request) Mode {
	switch {
	case len(r.Tokens()) > 0:
		return Text
	case !r.Tags().IsEmpty():
		return Tags
	default:
		return Empty
	}
}
