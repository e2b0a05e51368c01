// Package parse turns natural-language queries into structured filters
// plus per-field semantic queries.
package parse

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// Service handles query parsing.
type Service struct {
	parser QueryParser
	logger *zap.Logger
}

// New creates a Service. parser can be nil when no credential is
// configured; Parse then reports the capability as unavailable.
func New(parser QueryParser, logger *zap.Logger) *Service {
	return &Service{parser: parser, logger: logger}
}

// Parse extracts filters and semantic queries from a natural-language
// query. Parser call failures degrade to an empty result so a search can
// still run on whatever the caller supplied explicitly.
func (s *Service) Parse(ctx context.Context, query string) (domain.ParsedQuery, error) {
	if s.parser == nil {
		return domain.ParsedQuery{}, domain.ErrParserUnavailable
	}

	parsed, err := s.parser.Parse(ctx, query)
	if err != nil {
		s.logger.Error("Query parsing failed", zap.Error(err))
		return domain.ParsedQuery{
			OriginalQuery: query,
			Filters:       map[string]any{},
		}, nil
	}
	return parsed, nil
}
