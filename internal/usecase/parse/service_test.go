package parse

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// --- Mocks ---

type mockParser struct {
	result domain.ParsedQuery
	err    error
	query  string
}

func (m *mockParser) Parse(_ context.Context, query string) (domain.ParsedQuery, error) {
	m.query = query
	return m.result, m.err
}

// --- Tests ---

func TestParse_Success(t *testing.T) {
	parser := &mockParser{result: domain.ParsedQuery{
		OriginalQuery:   "hindu doctor from mumbai",
		Filters:         map[string]any{"religions": []any{"HI"}, "locations": []any{"IN_MB"}},
		ProfessionQuery: "doctor",
	}}
	svc := New(parser, zap.NewNop())

	parsed, err := svc.Parse(context.Background(), "hindu doctor from mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parser.query != "hindu doctor from mumbai" {
		t.Errorf("expected query passed through, got %q", parser.query)
	}
	if parsed.ProfessionQuery != "doctor" {
		t.Errorf("expected profession query 'doctor', got %q", parsed.ProfessionQuery)
	}
	if len(parsed.Filters) != 2 {
		t.Errorf("expected 2 filters, got %v", parsed.Filters)
	}
}

func TestParse_NoParserConfigured(t *testing.T) {
	svc := New(nil, zap.NewNop())

	_, err := svc.Parse(context.Background(), "hindu doctor")
	if !errors.Is(err, domain.ErrParserUnavailable) {
		t.Errorf("expected ErrParserUnavailable, got %v", err)
	}
}

func TestParse_CallFailureDegradesToEmpty(t *testing.T) {
	parser := &mockParser{err: errors.New("openai: status 500")}
	svc := New(parser, zap.NewNop())

	parsed, err := svc.Parse(context.Background(), "hindu doctor")
	if err != nil {
		t.Fatalf("expected parse failure swallowed, got %v", err)
	}
	if parsed.OriginalQuery != "hindu doctor" {
		t.Errorf("expected original query echoed, got %q", parsed.OriginalQuery)
	}
	if parsed.Filters == nil || len(parsed.Filters) != 0 {
		t.Errorf("expected empty filters, got %v", parsed.Filters)
	}
	if parsed.HasSemanticQuery() {
		t.Error("expected no semantic queries on degraded result")
	}
}
