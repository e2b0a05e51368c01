package matchdex

import (
	"context"
	"net/http"
	"time"
)

// CollectionInfo returns point counts and status of the index collection.
func (c *Client) CollectionInfo(ctx context.Context) (CollectionInfo, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("collection_info", start, err) }()

	var resp CollectionInfo
	err = c.do(ctx, http.MethodGet, "/collection/info", nil, nil, &resp)
	if err != nil {
		return CollectionInfo{}, err
	}
	return resp, nil
}
