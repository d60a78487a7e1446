// Package types contains common types used across the application
package types

import "github.com/okian/memtree/internal/domain/hierarchy"

// Recommendation is one ranked candidate node.
type Recommendation struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	// Pairs is the number of favourites the score was averaged over.
	Pairs int `json:"pairs"`
}

// DistanceResult is the score of one node pair under one metric.
type DistanceResult struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
	// Error is set instead of Score when the metric is undefined for the pair.
	Error string `json:"error,omitempty"`
}

// NodeView is the read shape of a hierarchy node.
type NodeView struct {
	Name       string               `json:"name"`
	Parent     string               `json:"parent,omitempty"`
	Depth      int                  `json:"depth"`
	Children   []string             `json:"children"`
	Attributes hierarchy.Attributes `json:"attributes"`
}

// NewNodeView builds the read shape of n.
func NewNodeView(n *hierarchy.Node) NodeView {
	v := NodeView{
		Name:       n.Name(),
		Depth:      n.Depth(),
		Attributes: n.Attributes(),
		Children:   []string{},
	}
	if p, ok := n.Parent(); ok {
		v.Parent = p.Name()
	}
	for _, c := range n.Children() {
		v.Children = append(v.Children, c.Name())
	}
	return v
}
