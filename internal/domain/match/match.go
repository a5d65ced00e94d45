package match

import "strings"

// Type is the entity kind of a match, decided once when the match is ingested.
type Type string

// Match type constants.
const (
	Company    Type = "Company"
	Person     Type = "Person"
	Repository Type = "Repository"
	// Unknown covers labels the ranking service may add later (e.g. Product).
	Unknown Type = "Unknown"
)

// ParseType maps an upstream label to a Type (case-insensitive).
func ParseType(label string) Type {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "company":
		return Company
	case "person":
		return Person
	case "repository":
		return Repository
	default:
		return Unknown
	}
}

// ParseFilter maps a caller-supplied type filter. Blank means no filter; unknown
// labels are kept verbatim so request validation can reject them.
func ParseFilter(label string) Type {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	if t := ParseType(label); t.IsValid() {
		return t
	}
	return Type(label)
}

// IsValid reports whether t is one of the known entity kinds.
func (t Type) IsValid() bool {
	return t == Company || t == Person || t == Repository
}

// Metadata is the typed attribute record of a match.
// Name, Company and the match ID are tried in that order for the display name.
type Metadata struct {
	Name        string
	Company     string
	Role        string
	Location    string
	Batch       string
	Industries  []string
	Description string
	Website     string
	URL         string
	Language    string
	Stars       int
}

// Connection describes how a graph-expanded match was reached from a direct hit.
type Connection struct {
	FromID   string
	Distance int
	Path     []string
}

// Match is a single ranked entity returned by the ranking service (read-only).
type Match struct {
	id         string
	kind       Type
	score      float64
	metadata   Metadata
	connection *Connection
}

// New creates a match. Score is clamped to [0, 1].
func New(id string, kind Type, score float64, md Metadata, conn *Connection) Match {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	if kind == "" {
		kind = Unknown
	}
	return Match{id: id, kind: kind, score: score, metadata: md, connection: conn}
}

// ID returns the entity identifier.
func (m *Match) ID() string { return m.id }

// Type returns the entity kind.
func (m *Match) Type() Type { return m.kind }

// Score returns the relevance score in [0, 1].
func (m *Match) Score() float64 { return m.score }

// Metadata returns the typed attributes.
func (m *Match) Metadata() Metadata { return m.metadata }

// Connection returns the graph path for expanded matches (nil for direct hits).
func (m *Match) Connection() *Connection { return m.connection }

// DisplayName returns the first non-empty of name, company and id.
// Empty means the match has no usable name.
func (m *Match) DisplayName() string {
	for _, candidate := range []string{m.metadata.Name, m.metadata.Company, m.id} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return ""
}

// investorMarkers are role substrings that classify a person as an investor.
var investorMarkers = []string{"investor", "vc", "venture"}

// IsInvestor reports whether the match is a person with an investor role.
func (m *Match) IsInvestor() bool {
	if m.kind != Person {
		return false
	}
	role := strings.ToLower(m.metadata.Role)
	for _, marker := range investorMarkers {
		if strings.Contains(role, marker) {
			return true
		}
	}
	return false
}
