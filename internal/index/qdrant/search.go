package qdrant

import (
	"context"

	qpb "github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// Query executes a semantic retrieval plan: one prefetch per candidate
// space, re-ranked by the primary vector, the predicate applied to both
// stages.
func (c *Client) Query(ctx context.Context, p plan.Plan) ([]index.Scored, error) {
	qfilter := filterValue(p.Predicate())

	prefetch := make([]*qpb.PrefetchQuery, len(p.Candidates()))
	for i, cand := range p.Candidates() {
		prefetch[i] = &qpb.PrefetchQuery{
			Query:  nearestQuery(cand.Vector()),
			Using:  ptr(cand.Field()),
			Limit:  ptr(uint64(cand.Limit())),
			Filter: qfilter,
		}
	}

	req := &qpb.QueryPoints{
		CollectionName: c.collection,
		Prefetch:       prefetch,
		Query:          nearestQuery(p.PrimaryVector()),
		Using:          ptr(p.PrimaryField()),
		Filter:         qfilter,
		Limit:          ptr(uint64(p.Limit())),
		Offset:         ptr(uint64(p.Offset())),
		WithPayload:    enablePayload(),
	}
	if p.ScoreThreshold() > 0 {
		req.ScoreThreshold = ptr(float32(p.ScoreThreshold()))
	}

	resp, err := c.points.Query(c.ctx(ctx), req)
	if err != nil {
		return nil, &index.Error{Op: index.OpQuery, Err: err}
	}

	scored := make([]index.Scored, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		scored = append(scored, index.Scored{
			ID:      point.GetId().GetUuid(),
			Score:   float64(point.GetScore()),
			Payload: payloadFromValue(point.GetPayload()),
		})
	}
	return scored, nil
}

// Scroll lists points matching the predicate with a constant score of 1.
// The Qdrant scroll cursor is id-based, so numeric offsets are served by
// over-fetching one page of limit+offset points and slicing.
func (c *Client) Scroll(ctx context.Context, predicate filter.Predicate, limit, offset int) ([]index.Scored, error) {
	fetch := limit + offset
	if fetch <= 0 {
		return []index.Scored{}, nil
	}

	resp, err := c.points.Scroll(c.ctx(ctx), &qpb.ScrollPoints{
		CollectionName: c.collection,
		Filter:         filterValue(predicate),
		Limit:          ptr(uint32(fetch)),
		WithPayload:    enablePayload(),
	})
	if err != nil {
		return nil, &index.Error{Op: index.OpScroll, Err: err}
	}

	records := resp.GetResult()
	if offset >= len(records) {
		return []index.Scored{}, nil
	}
	records = records[offset:]

	scored := make([]index.Scored, 0, len(records))
	for _, record := range records {
		scored = append(scored, index.Scored{
			ID:      record.GetId().GetUuid(),
			Score:   1.0,
			Payload: payloadFromValue(record.GetPayload()),
		})
	}
	return scored, nil
}
