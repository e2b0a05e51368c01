package result

// Hit is a single retrieval hit: the point id, its ranking score, and
// the stored payload. Filter-only scans carry a constant score of 1.
type Hit struct {
	id      string
	score   float64
	payload map[string]any
}

// New creates a retrieval hit.
func New(id string, score float64, payload map[string]any) Hit {
	if payload == nil {
		payload = map[string]any{}
	}
	return Hit{id: id, score: score, payload: payload}
}

// ID returns the point identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the ranking score.
func (h *Hit) Score() float64 { return h.score }

// Payload returns the stored payload document.
func (h *Hit) Payload() map[string]any { return h.payload }
