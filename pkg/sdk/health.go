package matchdex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Health reports the aggregated component health. The service answers
// degraded states with 503 but still sends the report body, so both 200
// and 503 decode; only transport failures or foreign statuses error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("health", start, err) }()

	resp, err := c.send(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return HealthStatus{}, err
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		err = decodeAPIError(resp)
		return HealthStatus{}, err
	}

	var status HealthStatus
	if err = json.NewDecoder(resp.Body).Decode(&status); err != nil {
		err = fmt.Errorf("matchdex: decode response: %w", err)
		return HealthStatus{}, err
	}
	return status, nil
}
