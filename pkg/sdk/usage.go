package matchdex

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Usage returns an embedding usage report for the given period.
// An empty period defaults to PeriodMonth.
func (c *Client) Usage(ctx context.Context, period Period) (UsageReport, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("usage", start, err) }()

	var query url.Values
	if period != "" {
		query = url.Values{"period": []string{string(period)}}
	}

	var resp UsageReport
	err = c.do(ctx, http.MethodGet, "/usage", query, nil, &resp)
	if err != nil {
		return UsageReport{}, err
	}
	return resp, nil
}
