package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchClient covers the search endpoints.
type SearchClient struct {
	client *Client
}

// Search runs a full-text, semantic or hybrid query.
func (s *SearchClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := s.client.post(ctx, "/api/v1/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimilarParams tunes a similar-patent lookup.  Zero values are omitted and
// the server defaults apply.
type SimilarParams struct {
	TopK                int
	MinScore            float64
	ExcludeSameAssignee bool
}

func (p SimilarParams) encode() string {
	q := url.Values{}
	if p.TopK > 0 {
		q.Set("top_k", strconv.Itoa(p.TopK))
	}
	if p.MinScore > 0 {
		q.Set("min_score", strconv.FormatFloat(p.MinScore, 'f', -1, 64))
	}
	if p.ExcludeSameAssignee {
		q.Set("exclude_same_assignee", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Similar lists the semantically closest patents to the given one.
func (s *SearchClient) Similar(ctx context.Context, patentNumber string, params SimilarParams) (*SimilarResponse, error) {
	path := fmt.Sprintf("/api/v1/patents/%s/similar%s", url.PathEscape(patentNumber), params.encode())
	var resp SimilarResponse
	if err := s.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PriorArt discovers prior-art candidates for a patent or free-text idea.
func (s *SearchClient) PriorArt(ctx context.Context, req PriorArtRequest) (*PriorArtReport, error) {
	var resp PriorArtReport
	if err := s.client.post(ctx, "/api/v1/prior-art", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
