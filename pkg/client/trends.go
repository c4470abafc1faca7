package client

import (
	"context"
	"fmt"
	"net/url"
)

// TrendsClient covers the trend aggregation endpoints.
type TrendsClient struct {
	client *Client
}

// TrendParams filter and size a trend report.
type TrendParams struct {
	CPCPrefix string
	Country   string
	Years     int
	TopN      int
}

func (p TrendParams) encode() string {
	query := url.Values{}
	if p.CPCPrefix != "" {
		query.Set("cpc_prefix", p.CPCPrefix)
	}
	if p.Country != "" {
		query.Set("country", p.Country)
	}
	if p.Years > 0 {
		query.Set("years", fmt.Sprint(p.Years))
	}
	if p.TopN > 0 {
		query.Set("top_n", fmt.Sprint(p.TopN))
	}
	if len(query) == 0 {
		return ""
	}
	return "?" + query.Encode()
}

// Report computes a trend report.
func (t *TrendsClient) Report(ctx context.Context, params TrendParams) (*TrendReport, error) {
	var resp TrendReport
	if err := t.client.get(ctx, "/api/v1/trends"+params.encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export writes a trend report to the server's object store and returns a
// presigned download link.
func (t *TrendsClient) Export(ctx context.Context, params TrendParams) (string, error) {
	var resp struct {
		DownloadURL string `json:"download_url"`
	}
	if err := t.client.post(ctx, "/api/v1/trends/export"+params.encode(), nil, &resp); err != nil {
		return "", err
	}
	return resp.DownloadURL, nil
}
