// Package qdrant implements the index port against a Qdrant server over
// gRPC, storing profiles as points with named vectors.
package qdrant

import (
	"context"
	"fmt"
	"time"

	qpb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/kailas-cloud/matchdex/internal/index"
)

// Compile-time check: Client implements index.Index.
var _ index.Index = (*Client)(nil)

const defaultUpsertBatch = 100

// Config holds connection parameters for a Qdrant index.
type Config struct {
	Addr       string
	APIKey     string
	Collection string
	// UpsertBatch caps points per upsert request; 0 means the default.
	UpsertBatch int
}

// Client implements index.Index via the Qdrant gRPC API.
type Client struct {
	conn        *grpc.ClientConn
	collections qpb.CollectionsClient
	points      qpb.PointsClient
	service     qpb.QdrantClient
	collection  string
	apiKey      string
	upsertBatch int
}

// New creates a Qdrant index client. The connection is lazy; use
// WaitForReady to block until the server responds.
func New(cfg Config) (*Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("addr is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	conn, err := grpc.NewClient(cfg.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	batch := cfg.UpsertBatch
	if batch <= 0 {
		batch = defaultUpsertBatch
	}

	return &Client{
		conn:        conn,
		collections: qpb.NewCollectionsClient(conn),
		points:      qpb.NewPointsClient(conn),
		service:     qpb.NewQdrantClient(conn),
		collection:  cfg.Collection,
		apiKey:      cfg.APIKey,
		upsertBatch: batch,
	}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.service.HealthCheck(c.ctx(ctx), &qpb.HealthCheckRequest{}); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for index: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// ctx attaches the api-key metadata when configured.
func (c *Client) ctx(ctx context.Context) context.Context {
	if c.apiKey == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "api-key", c.apiKey)
}
