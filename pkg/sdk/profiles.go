package matchdex

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Ingest reconciles one source document against the index. The service
// decides whether to index fully, patch attributes, mark ineligible or
// skip; the decision comes back in the result.
func (c *Client) Ingest(ctx context.Context, src SourceProfile) (IngestResult, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("ingest", start, err) }()

	var resp IngestResult
	err = c.do(ctx, http.MethodPost, "/ingest", nil, src, &resp)
	if err != nil {
		return IngestResult{}, err
	}
	return resp, nil
}

// IngestBatch reconciles several source documents in one call. Outcomes
// are reported per item; one bad profile does not fail the batch.
func (c *Client) IngestBatch(ctx context.Context, srcs []SourceProfile) (BatchReport, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("ingest_batch", start, err) }()

	var resp BatchReport
	err = c.do(ctx, http.MethodPost, "/ingest/batch", nil, srcs, &resp)
	if err != nil {
		return BatchReport{}, err
	}
	return resp, nil
}

// Profile retrieves the stored payload of one profile by external id.
func (c *Client) Profile(ctx context.Context, id string) (StoredProfile, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("get_profile", start, err) }()

	var resp StoredProfile
	err = c.do(ctx, http.MethodGet, "/profile/"+url.PathEscape(id), nil, nil, &resp)
	if err != nil {
		return StoredProfile{}, err
	}
	return resp, nil
}

// DeleteProfile removes a profile from the index.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("delete_profile", start, err) }()

	err = c.do(ctx, http.MethodDelete, "/profile/"+url.PathEscape(id), nil, nil, nil)
	return err
}
