package present

import (
	"strings"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
)

// graphNodeLimit is how many leading matches become graph nodes.
const graphNodeLimit = 5

const (
	unknownLabel   = "Unknown"
	connectedLabel = "connected"
	placeholderLen = 8
)

// GraphView is the node/edge form of the leading matches and their connections.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is one entity in the graph. Placeholder nodes stand in for
// connection sources that are not among the matches.
type GraphNode struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Type        match.Type `json:"type"`
	Score       float64    `json:"score,omitempty"`
	Placeholder bool       `json:"placeholder,omitempty"`
}

// GraphEdge links a connection source to a graph-expanded match.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// buildGraph derives the graph from the first graphNodeLimit matches, in order.
func buildGraph(matches []match.Match) GraphView {
	g := GraphView{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
	seen := make(map[string]struct{})

	for i := range matches[:min(graphNodeLimit, len(matches))] {
		m := &matches[i]
		id := m.ID()
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			label := strings.TrimSpace(m.Metadata().Name)
			if label == "" {
				label = unknownLabel
			}
			g.Nodes = append(g.Nodes, GraphNode{ID: id, Label: label, Type: m.Type(), Score: m.Score()})
		}

		c := m.Connection()
		if c == nil || c.FromID == "" {
			continue
		}
		if _, ok := seen[c.FromID]; !ok {
			seen[c.FromID] = struct{}{}
			g.Nodes = append(g.Nodes, placeholderNode(c.FromID))
		}
		label := connectedLabel
		if len(c.Path) > 0 {
			label = c.Path[len(c.Path)-1]
		}
		g.Edges = append(g.Edges, GraphEdge{From: c.FromID, To: id, Label: label})
	}
	return g
}

func placeholderNode(id string) GraphNode {
	short := id
	if r := []rune(id); len(r) > placeholderLen {
		short = string(r[:placeholderLen])
	}
	return GraphNode{ID: id, Label: "Entity " + short + "...", Type: match.Unknown, Placeholder: true}
}
