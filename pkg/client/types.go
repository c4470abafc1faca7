package client

import "time"

// Patent is the API's patent representation.
type Patent struct {
	PatentNumber         string     `json:"patent_number"`
	Title                string     `json:"title"`
	Abstract             string     `json:"abstract,omitempty"`
	FilingDate           *time.Time `json:"filing_date,omitempty"`
	GrantDate            *time.Time `json:"grant_date,omitempty"`
	ExpirationDate       *time.Time `json:"expiration_date,omitempty"`
	AssigneeOrganization string     `json:"assignee_organization,omitempty"`
	Inventors            []string   `json:"inventors,omitempty"`
	CPCCodes             []string   `json:"cpc_codes,omitempty"`
	Status               string     `json:"status"`
	Country              string     `json:"country"`
	CitationCount        int        `json:"citation_count"`
	CitedByCount         int        `json:"cited_by_count"`
}

// ScoredPatent pairs a patent with its relevance score for one query.
type ScoredPatent struct {
	Patent *Patent `json:"patent"`
	Score  float64 `json:"relevance_score"`
}

// SearchFilter restricts a search to a corpus slice.
type SearchFilter struct {
	Country  string     `json:"country,omitempty"`
	Status   string     `json:"status,omitempty"`
	Assignee string     `json:"assignee,omitempty"`
	CPCCodes []string   `json:"cpc_codes,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

// SearchRequest is the POST /api/v1/search body. SearchType is one of
// "fulltext", "semantic" or "hybrid"; blank means hybrid.
type SearchRequest struct {
	Query          string       `json:"query"`
	SearchType     string       `json:"search_type,omitempty"`
	Filters        SearchFilter `json:"filters,omitempty"`
	SemanticWeight *float64     `json:"semantic_weight,omitempty"`
	Page           int          `json:"page,omitempty"`
	PerPage        int          `json:"per_page,omitempty"`
}

// SearchResponse is the paginated search result.
type SearchResponse struct {
	Results      []ScoredPatent `json:"results"`
	Total        int64          `json:"total"`
	Query        string         `json:"query"`
	SearchType   string         `json:"search_type"`
	Page         int            `json:"page"`
	PerPage      int            `json:"per_page"`
	TotalPages   int            `json:"total_pages"`
	ZeroCoverage bool           `json:"zero_coverage,omitempty"`
}

// SimilarResponse is the GET /patents/:number/similar result.
type SimilarResponse struct {
	PatentNumber string         `json:"patent_number"`
	Results      []ScoredPatent `json:"results"`
	Count        int            `json:"count"`
}

// CitationNode is a patent projection labeled with its BFS depth.
type CitationNode struct {
	PatentNumber         string     `json:"patent_number"`
	Title                string     `json:"title"`
	AssigneeOrganization string     `json:"assignee_organization,omitempty"`
	FilingDate           *time.Time `json:"filing_date,omitempty"`
	Country              string     `json:"country"`
	Depth                int        `json:"depth"`
}

// CitationEdge is one directed citation relation.
type CitationEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// CitationNetwork is the bounded traversal output.
type CitationNetwork struct {
	Center     string         `json:"center"`
	Nodes      []CitationNode `json:"nodes"`
	Edges      []CitationEdge `json:"edges"`
	TotalNodes int            `json:"total_nodes"`
	TotalEdges int            `json:"total_edges"`
	Depth      int            `json:"depth"`
}

// CitationStats is the impact calculator output. CitationIndex is null when
// the cohort baseline is zero.
type CitationStats struct {
	PatentNumber      string   `json:"patent_number"`
	ForwardCitations  int64    `json:"forward_citations"`
	BackwardCitations int64    `json:"backward_citations"`
	AvgFieldCitations float64  `json:"avg_field_citations"`
	CitationIndex     *float64 `json:"citation_index"`
}

// TrendReport is the trend aggregation output.
type TrendReport struct {
	Period        string          `json:"period"`
	YearlyTotals  []YearCount     `json:"yearly_totals"`
	TopCPCTrends  []ClassCount    `json:"top_cpc_trends"`
	GrowthLeaders []GrowthLeader  `json:"growth_leaders"`
	TopAssignees  []AssigneeCount `json:"top_assignees"`
}

type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type ClassCount struct {
	CPCClass string `json:"cpc_class"`
	Count    int64  `json:"count"`
}

type GrowthLeader struct {
	CPCClass     string  `json:"cpc_class"`
	EarlierCount int64   `json:"earlier_count"`
	RecentCount  int64   `json:"recent_count"`
	GrowthRate   float64 `json:"growth_rate"`
}

type AssigneeCount struct {
	Assignee string `json:"assignee"`
	Count    int64  `json:"count"`
}

// PriorArtRequest is the POST /api/v1/prior-art body. Exactly one of
// PatentNumber and TextQuery must be set.
type PriorArtRequest struct {
	PatentNumber     string     `json:"patent_number,omitempty"`
	TextQuery        string     `json:"text_query,omitempty"`
	FilingDateBefore *time.Time `json:"filing_date_before,omitempty"`
	TopK             int        `json:"top_k,omitempty"`
	MinScore         float64    `json:"min_score,omitempty"`
}

// PriorArtResult is one candidate; Source is "semantic", "citation" or "both".
type PriorArtResult struct {
	Patent *Patent `json:"patent"`
	Score  float64 `json:"similarity_score"`
	Source string  `json:"source"`
}

// PriorArtReport is the merged prior-art output.
type PriorArtReport struct {
	TargetPatent     string           `json:"target_patent,omitempty"`
	TargetFilingDate *time.Time       `json:"target_filing_date,omitempty"`
	PriorArt         []PriorArtResult `json:"prior_art"`
	TotalFound       int              `json:"total_found"`
	SemanticCount    int              `json:"semantic_count"`
	CitationCount    int              `json:"citation_count"`
}

// Landscape is the competitive context around one patent.
type Landscape struct {
	Target         *Patent        `json:"target"`
	SimilarPatents []ScoredPatent `json:"similar_patents"`
	CitedPatents   []*Patent      `json:"cited_patents"`
	CitingPatents  []*Patent      `json:"citing_patents"`
	Competitors    []*Patent      `json:"competitors"`
}

// Dashboard is the stats overview.
type Dashboard struct {
	TotalPatents    int64     `json:"total_patents"`
	EmbeddedPatents int64     `json:"embedded_patents"`
	ExpiringDays    int       `json:"expiring_days"`
	ExpiringSoon    []*Patent `json:"expiring_soon"`
}
