package entity

// Kind discriminates the three entity variants of the directory.
type Kind string

const (
	// KindFirm is a venture firm.
	KindFirm Kind = "firm"
	// KindStartup is a startup company.
	KindStartup Kind = "startup"
	// KindCommunity is a community organization (accelerator, meetup, hub).
	KindCommunity Kind = "community"
)

// Kinds lists every kind in canonical build order.
var Kinds = []Kind{KindFirm, KindStartup, KindCommunity}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindFirm, KindStartup, KindCommunity:
		return true
	}
	return false
}

// Plural returns the collection name used in routes and storage tables.
func (k Kind) Plural() string {
	switch k {
	case KindFirm:
		return "firms"
	case KindStartup:
		return "startups"
	case KindCommunity:
		return "communities"
	}
	return string(k)
}
