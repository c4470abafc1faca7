// Package citation defines the citation graph types and the edge-source port
// used by the graph walker and the impact calculator.
package citation

import (
	"time"
)

// EdgeType tags the direction a citation edge was discovered in.
type EdgeType string

const (
	// EdgeCites marks a forward edge: source cites target.
	EdgeCites EdgeType = "cites"
	// EdgeCitedBy marks a backward edge: source is cited by target.
	EdgeCitedBy EdgeType = "cited_by"
)

// Edge is a directed citation relation between two patent numbers.
// The cited side of a forward edge may not exist in the local store; the
// walker still emits the edge with the raw number in that case.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
}

// Node is a patent projection labeled with its BFS distance from the queried
// center (0 = the center itself).
type Node struct {
	PatentNumber         string     `json:"patent_number"`
	Title                string     `json:"title"`
	AssigneeOrganization string     `json:"assignee_organization,omitempty"`
	FilingDate           *time.Time `json:"filing_date,omitempty"`
	Country              string     `json:"country"`
	Depth                int        `json:"depth"`
}

// Network is the output of a bounded traversal: the depth-labeled node set,
// all traversed edges between retained endpoints, and the echoed request
// parameters.
type Network struct {
	Center     string  `json:"center"`
	Nodes      []*Node `json:"nodes"`
	Edges      []*Edge `json:"edges"`
	TotalNodes int     `json:"total_nodes"`
	TotalEdges int     `json:"total_edges"`
	Depth      int     `json:"depth"`
}

// Stats is the output of the impact calculator.  CitationIndex is nil when
// the cohort average is zero; "not computable" is a valid answer, never NaN.
type Stats struct {
	PatentNumber      string   `json:"patent_number"`
	ForwardCitations  int64    `json:"forward_citations"`
	BackwardCitations int64    `json:"backward_citations"`
	AvgFieldCitations float64  `json:"avg_field_citations"`
	CitationIndex     *float64 `json:"citation_index"`
}
