package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
	"github.com/riskibarqy/fpl-advisor/internal/platform/cache"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
)

const poolCacheKey = "pool:candidates"

// PoolService serves the candidate pool from the feed, cached for a short TTL.
type PoolService struct {
	source player.Source
	cache  *cache.Store[[]player.Candidate]
	logger *logging.Logger
}

func NewPoolService(source player.Source, ttl time.Duration, logger *logging.Logger) *PoolService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PoolService{
		source: source,
		cache:  cache.NewStore[[]player.Candidate](cache.Options{TTL: ttl}),
		logger: logger,
	}
}

// Candidates returns the whole pool. Callers must not mutate the slice.
func (s *PoolService) Candidates(ctx context.Context) ([]player.Candidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.Candidates")
	defer span.End()

	items, err := s.cache.GetOrLoad(ctx, poolCacheKey, func(ctx context.Context) ([]player.Candidate, error) {
		loaded, err := s.source.FetchCandidates(ctx)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "candidate pool refreshed", "candidates", len(loaded))
		return loaded, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}
	return items, nil
}

// Refresh drops the cached pool and loads it again.
func (s *PoolService) Refresh(ctx context.Context) ([]player.Candidate, error) {
	s.cache.Delete(ctx, poolCacheKey)
	return s.Candidates(ctx)
}

// ListByPosition filters the pool. An empty position returns every candidate.
func (s *PoolService) ListByPosition(ctx context.Context, rawPosition string) ([]player.Candidate, error) {
	var pos player.Position
	if rawPosition != "" {
		parsed, err := player.ParsePosition(rawPosition)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		pos = parsed
	}

	items, err := s.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	return filterByPosition(items, pos), nil
}

func filterByPosition(items []player.Candidate, pos player.Position) []player.Candidate {
	out := make([]player.Candidate, 0, len(items))
	for _, item := range items {
		if pos != "" && item.Position != pos {
			continue
		}
		out = append(out, item)
	}
	return out
}
