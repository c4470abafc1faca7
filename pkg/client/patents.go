package client

import (
	"context"
	"fmt"
	"net/url"
)

// PatentsClient covers the per-patent endpoints.
type PatentsClient struct {
	client *Client
}

// Get fetches one patent by number.
func (p *PatentsClient) Get(ctx context.Context, patentNumber string) (*Patent, error) {
	var resp Patent
	path := fmt.Sprintf("/api/v1/patents/%s", url.PathEscape(patentNumber))
	if err := p.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Citations traverses the citation network around a patent.
func (p *PatentsClient) Citations(ctx context.Context, patentNumber string, depth, maxNodes int) (*CitationNetwork, error) {
	path := fmt.Sprintf("/api/v1/patents/%s/citations", url.PathEscape(patentNumber))
	query := url.Values{}
	if depth > 0 {
		query.Set("depth", fmt.Sprint(depth))
	}
	if maxNodes > 0 {
		query.Set("max_nodes", fmt.Sprint(maxNodes))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp CitationNetwork
	if err := p.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CitationStats fetches the citation impact figures for a patent.
func (p *PatentsClient) CitationStats(ctx context.Context, patentNumber string) (*CitationStats, error) {
	path := fmt.Sprintf("/api/v1/patents/%s/citations/stats", url.PathEscape(patentNumber))
	var resp CitationStats
	if err := p.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Landscape fetches the competitive context around a patent.
func (p *PatentsClient) Landscape(ctx context.Context, patentNumber string, radius int) (*Landscape, error) {
	path := fmt.Sprintf("/api/v1/patents/%s/landscape", url.PathEscape(patentNumber))
	if radius > 0 {
		path += fmt.Sprintf("?radius=%d", radius)
	}
	var resp Landscape
	if err := p.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Dashboard fetches the corpus overview statistics.
func (p *PatentsClient) Dashboard(ctx context.Context, expiringDays int) (*Dashboard, error) {
	path := "/api/v1/stats/dashboard"
	if expiringDays > 0 {
		path += fmt.Sprintf("?expiring_days=%d", expiringDays)
	}
	var resp Dashboard
	if err := p.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
