package matchdex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// --- Tests ---

func TestSearch_RoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("got %s %s, want POST /search", r.Method, r.URL.Path)
		}

		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "doctor in bangalore" {
			t.Errorf("query = %q", req.Query)
		}
		if req.Limit != 20 {
			t.Errorf("limit = %d, want 20", req.Limit)
		}

		writeTestJSON(t, w, http.StatusOK, SearchResponse{
			Query:      "doctor in bangalore",
			Results:    []SearchHit{{ID: "point-1", Score: 0.91, Payload: ProfileView{ID: "u1", Gender: "F"}}},
			TotalCount: 42,
			QueryMode:  "hybrid",
		})
	})

	resp, err := client.Search(context.Background(), SearchRequest{
		Query: "doctor in bangalore",
		Limit: 20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Payload.ID != "u1" {
		t.Errorf("payload id = %q, want u1", resp.Results[0].Payload.ID)
	}
	if resp.TotalCount != 42 {
		t.Errorf("total_count = %d, want 42", resp.TotalCount)
	}
	if resp.QueryMode != "hybrid" {
		t.Errorf("query_mode = %q, want hybrid", resp.QueryMode)
	}
}

func TestSearch_ParserUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusBadRequest, map[string]string{
			"code":    "parser_unavailable",
			"message": "Provide parsed_queries or configure OpenAI API key for auto-parsing",
		})
	})

	_, err := client.Search(context.Background(), SearchRequest{Query: "anything"})
	if !errors.Is(err, ErrParserUnavailable) {
		t.Errorf("expected ErrParserUnavailable, got %v", err)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/parse" {
			t.Errorf("got %s %s, want POST /parse", r.Method, r.URL.Path)
		}

		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "hindu engineer" {
			t.Errorf("query = %q", req.Query)
		}

		writeTestJSON(t, w, http.StatusOK, ParseResult{
			OriginalQuery:   "hindu engineer",
			Filters:         map[string]any{"religions": []any{"HI"}},
			ProfessionQuery: "engineer",
		})
	})

	parsed, err := client.Parse(context.Background(), "hindu engineer")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.ProfessionQuery != "engineer" {
		t.Errorf("profession_query = %q, want engineer", parsed.ProfessionQuery)
	}
	if _, ok := parsed.Filters["religions"]; !ok {
		t.Error("expected religions filter")
	}
}

func TestIngest_RoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ingest" {
			t.Errorf("got %s %s, want POST /ingest", r.Method, r.URL.Path)
		}

		var src SourceProfile
		if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if src.ID != "u1" {
			t.Errorf("_id = %q, want u1", src.ID)
		}
		if !src.IsQL {
			t.Error("expected isQL true")
		}

		writeTestJSON(t, w, http.StatusOK, IngestResult{
			ID:       "u1",
			Decision: "full_upsert",
			Profile:  map[string]any{"id": "u1"},
		})
	})

	res, err := client.Ingest(context.Background(), SourceProfile{
		ID:   "u1",
		IsQL: true,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Decision != "full_upsert" {
		t.Errorf("decision = %q, want full_upsert", res.Decision)
	}
}

func TestIngestBatch_RoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ingest/batch" {
			t.Errorf("got %s %s, want POST /ingest/batch", r.Method, r.URL.Path)
		}

		// Body is a bare array, not a wrapper object.
		var srcs []SourceProfile
		if err := json.NewDecoder(r.Body).Decode(&srcs); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(srcs) != 2 {
			t.Fatalf("got %d profiles, want 2", len(srcs))
		}

		writeTestJSON(t, w, http.StatusOK, BatchReport{
			Items: []BatchItem{
				{ID: "u1", Status: "ok", Decision: "full_upsert"},
				{ID: "", Status: "error", Error: &APIRemark{
					Code:    "validation_failed",
					Message: "profile id is required",
				}},
			},
			Succeeded: 1,
			Failed:    1,
		})
	})

	report, err := client.IngestBatch(context.Background(), []SourceProfile{
		{ID: "u1"},
		{},
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}

	if report.Succeeded != 1 || report.Failed != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 1/1", report.Succeeded, report.Failed)
	}
	if report.Items[1].Error == nil {
		t.Fatal("expected error remark on failed item")
	}
	if report.Items[1].Error.Code != "validation_failed" {
		t.Errorf("item error code = %q", report.Items[1].Error.Code)
	}
}

func TestProfile_RoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/profile/u1" {
			t.Errorf("got %s %s, want GET /profile/u1", r.Method, r.URL.Path)
		}
		writeTestJSON(t, w, http.StatusOK, StoredProfile{
			ID:      "u1",
			Payload: map[string]any{"education": "B.Tech from IIT Delhi"},
		})
	})

	p, err := client.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Payload["education"] != "B.Tech from IIT Delhi" {
		t.Errorf("education = %v", p.Payload["education"])
	}
}

func TestProfile_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusNotFound, map[string]string{
			"code":    "profile_not_found",
			"message": "profile not found",
		})
	})

	_, err := client.Profile(context.Background(), "missing")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDeleteProfile_NoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/profile/u1" {
			t.Errorf("got %s %s, want DELETE /profile/u1", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteProfile(context.Background(), "u1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
}

func TestCollectionInfo_RoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusOK, CollectionInfo{
			Name:        "matrimonial_profiles",
			PointsCount: 12000,
			Status:      "green",
		})
	})

	info, err := client.CollectionInfo(context.Background())
	if err != nil {
		t.Fatalf("CollectionInfo: %v", err)
	}
	if info.Name != "matrimonial_profiles" {
		t.Errorf("name = %q", info.Name)
	}
	if info.PointsCount != 12000 {
		t.Errorf("points_count = %d, want 12000", info.PointsCount)
	}
}

func TestUsage_PeriodParam(t *testing.T) {
	var gotPeriod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPeriod = r.URL.Query().Get("period")
		writeTestJSON(t, w, http.StatusOK, UsageReport{Period: "day"})
	})

	report, err := client.Usage(context.Background(), PeriodDay)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if gotPeriod != "day" {
		t.Errorf("period param = %q, want day", gotPeriod)
	}
	if report.Period != "day" {
		t.Errorf("report period = %q, want day", report.Period)
	}
}

func TestUsage_EmptyPeriodOmitted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		writeTestJSON(t, w, http.StatusOK, UsageReport{Period: "month"})
	})

	if _, err := client.Usage(context.Background(), ""); err != nil {
		t.Fatalf("Usage: %v", err)
	}
}

func TestHealth_DegradedStillDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusServiceUnavailable, HealthStatus{
			Status: "degraded",
			Checks: map[string]string{"index": "ok", "cache": "error"},
		})
	})

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if status.Checks["cache"] != "error" {
		t.Errorf("cache check = %q, want error", status.Checks["cache"])
	}
}
