package mode

// Mode is the search strategy requested from the ranking service.
type Mode string

// Search mode constants.
const (
	// Ranked is relevance-scored search with narrative and recommendations.
	Ranked Mode = "ranked"
	// FilterOnly returns exact attribute matches without scoring or recommendations.
	FilterOnly Mode = "filter_only"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Ranked || m == FilterOnly
}

// FromFlag maps the boolean filter_only wire flag to a Mode.
func FromFlag(filterOnly bool) Mode {
	if filterOnly {
		return FilterOnly
	}
	return Ranked
}
