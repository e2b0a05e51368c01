package qdrant

import (
	"context"

	qpb "github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// Upsert writes points in batches and returns the number written.
func (c *Client) Upsert(ctx context.Context, points []index.Point) (int, error) {
	total := 0
	for start := 0; start < len(points); start += c.upsertBatch {
		end := start + c.upsertBatch
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		structs := make([]*qpb.PointStruct, len(batch))
		for i, p := range batch {
			structs[i] = &qpb.PointStruct{
				Id:      pointID(p.ID),
				Vectors: vectorsValue(p.Vectors),
				Payload: payloadValue(p.Payload),
			}
		}

		_, err := c.points.Upsert(c.ctx(ctx), &qpb.UpsertPoints{
			CollectionName: c.collection,
			Points:         structs,
			Wait:           ptr(true),
		})
		if err != nil {
			return total, &index.Error{Op: index.OpUpsert, Err: err}
		}
		total += len(batch)
	}
	return total, nil
}

// UpdateVectors replaces the named vectors of a point, leaving payload
// and untouched spaces intact.
func (c *Client) UpdateVectors(ctx context.Context, id string, vectors map[string]plan.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	_, err := c.points.UpdateVectors(c.ctx(ctx), &qpb.UpdatePointVectors{
		CollectionName: c.collection,
		Points: []*qpb.PointVectors{
			{Id: pointID(id), Vectors: vectorsValue(vectors)},
		},
		Wait: ptr(true),
	})
	if err != nil {
		return &index.Error{Op: index.OpUpdateVectors, Err: err}
	}
	return nil
}

// SetPayload merges payload fields into a point without touching vectors
// or unlisted fields.
func (c *Client) SetPayload(ctx context.Context, id string, payload map[string]any) error {
	if len(payload) == 0 {
		return nil
	}
	_, err := c.points.SetPayload(c.ctx(ctx), &qpb.SetPayloadPoints{
		CollectionName: c.collection,
		Payload:        payloadValue(payload),
		PointsSelector: pointsSelector(id),
		Wait:           ptr(true),
	})
	if err != nil {
		return &index.Error{Op: index.OpSetPayload, Err: err}
	}
	return nil
}

// Get retrieves a point's payload. Vectors are never read back.
func (c *Client) Get(ctx context.Context, id string) (index.Point, error) {
	resp, err := c.points.Get(c.ctx(ctx), &qpb.GetPoints{
		CollectionName: c.collection,
		Ids:            []*qpb.PointId{pointID(id)},
		WithPayload:    enablePayload(),
	})
	if err != nil {
		return index.Point{}, &index.Error{Op: index.OpGet, Err: err}
	}
	if len(resp.GetResult()) == 0 {
		return index.Point{}, index.ErrPointNotFound
	}
	retrieved := resp.GetResult()[0]
	return index.Point{
		ID:      retrieved.GetId().GetUuid(),
		Payload: payloadFromValue(retrieved.GetPayload()),
	}, nil
}

// Delete removes a point by id. Deleting an absent point is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.points.Delete(c.ctx(ctx), &qpb.DeletePoints{
		CollectionName: c.collection,
		Points:         pointsSelector(id),
		Wait:           ptr(true),
	})
	if err != nil {
		return &index.Error{Op: index.OpDelete, Err: err}
	}
	return nil
}

// Count returns the exact number of points matching the predicate.
func (c *Client) Count(ctx context.Context, predicate filter.Predicate) (uint64, error) {
	resp, err := c.points.Count(c.ctx(ctx), &qpb.CountPoints{
		CollectionName: c.collection,
		Filter:         filterValue(predicate),
		Exact:          ptr(true),
	})
	if err != nil {
		return 0, &index.Error{Op: index.OpCount, Err: err}
	}
	return resp.GetResult().GetCount(), nil
}
