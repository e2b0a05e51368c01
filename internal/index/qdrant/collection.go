package qdrant

import (
	"context"

	qpb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// EnsureCollection creates the collection with the multi-space vector
// schema and its payload indexes. Creation is skipped when the
// collection already exists; created reports whether it was built now.
func (c *Client) EnsureCollection(ctx context.Context) (bool, error) {
	exists, err := c.collections.CollectionExists(c.ctx(ctx), &qpb.CollectionExistsRequest{
		CollectionName: c.collection,
	})
	if err != nil {
		return false, &index.Error{Op: index.OpCollectionExists, Err: err}
	}
	if exists.GetResult().GetExists() {
		return false, nil
	}

	params := make(map[string]*qpb.VectorParams)
	for _, space := range collection.Spaces() {
		p := &qpb.VectorParams{
			Size:     uint64(space.Dim()),
			Distance: qpb.Distance_Cosine,
		}
		if space.IsMulti() {
			p.MultivectorConfig = &qpb.MultiVectorConfig{
				Comparator: qpb.MultiVectorComparator_MaxSim,
			}
		}
		params[space.Name()] = p
	}

	_, err = c.collections.Create(c.ctx(ctx), &qpb.CreateCollection{
		CollectionName: c.collection,
		VectorsConfig: &qpb.VectorsConfig{
			Config: &qpb.VectorsConfig_ParamsMap{
				ParamsMap: &qpb.VectorParamsMap{Map: params},
			},
		},
	})
	if err != nil {
		return false, &index.Error{Op: index.OpCreateCollection, Err: err}
	}

	if err := c.createPayloadIndexes(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) createPayloadIndexes(ctx context.Context) error {
	for _, attr := range collection.IntegerIndexAttrs() {
		if err := c.createFieldIndex(ctx, attr, qpb.FieldType_FieldTypeInteger); err != nil {
			return err
		}
	}
	for _, attr := range collection.KeywordIndexAttrs() {
		if err := c.createFieldIndex(ctx, attr, qpb.FieldType_FieldTypeKeyword); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) createFieldIndex(ctx context.Context, attr string, ft qpb.FieldType) error {
	_, err := c.points.CreateFieldIndex(c.ctx(ctx), &qpb.CreateFieldIndexCollection{
		CollectionName: c.collection,
		FieldName:      attr,
		FieldType:      ft.Enum(),
	})
	if err != nil {
		return &index.Error{Op: index.OpCreateFieldIndex, Err: err}
	}
	return nil
}

// CollectionInfo reports collection counters and status.
func (c *Client) CollectionInfo(ctx context.Context) (collection.Info, error) {
	resp, err := c.collections.Get(c.ctx(ctx), &qpb.GetCollectionInfoRequest{
		CollectionName: c.collection,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return collection.Info{}, index.ErrCollectionNotFound
		}
		return collection.Info{}, &index.Error{Op: index.OpCollectionGet, Err: err}
	}

	info := resp.GetResult()
	return collection.Info{
		Name:         c.collection,
		PointsCount:  info.GetPointsCount(),
		VectorsCount: info.GetVectorsCount(),
		Status:       info.GetStatus().String(),
	}, nil
}
