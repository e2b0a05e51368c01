package matchdex

import (
	"context"
	"net/http"
	"time"
)

// Search runs a semantic plus attribute-filtered profile search.
// An empty request returns recency-ordered eligible profiles.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("search", start, err) }()

	var resp SearchResponse
	err = c.do(ctx, http.MethodPost, "/search", nil, req, &resp)
	if err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}

// Parse decomposes a natural-language query into structured filters and
// per-space semantic queries without running a search. Requires the
// service to have its parser configured.
func (c *Client) Parse(ctx context.Context, query string) (ParseResult, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("parse", start, err) }()

	body := struct {
		Query string `json:"query"`
	}{Query: query}

	var resp ParseResult
	err = c.do(ctx, http.MethodPost, "/parse", nil, body, &resp)
	if err != nil {
		return ParseResult{}, err
	}
	return resp, nil
}
