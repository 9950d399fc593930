package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fpl-advisor/internal/domain/advice"
	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
	"github.com/riskibarqy/fpl-advisor/internal/domain/prediction"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
)

const (
	noUpgradesMessage       = "No upgrades found"
	noFreeTransfersMessage  = "No free transfers available"
	defaultLocalWorkerCount = 4
)

type scoredCandidate struct {
	candidate player.Candidate
	points    float64
}

// LocalAdvisor answers advice requests in-process by scoring the candidate
// pool with a prediction.Scorer.
type LocalAdvisor struct {
	pool    CandidatePool
	scorer  prediction.Scorer
	workers int
	logger  *logging.Logger
}

func NewLocalAdvisor(pool CandidatePool, scorer prediction.Scorer, workers int, logger *logging.Logger) *LocalAdvisor {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = defaultLocalWorkerCount
	}
	return &LocalAdvisor{
		pool:    pool,
		scorer:  scorer,
		workers: workers,
		logger:  logger,
	}
}

// Analyze returns the squad members with their predicted points.
func (a *LocalAdvisor) Analyze(ctx context.Context, req advice.Request) (advice.Response, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LocalAdvisor.Analyze")
	defer span.End()

	scored, err := a.scorePool(ctx)
	if err != nil {
		return advice.Response{}, err
	}

	inSquad := squadSet(req.Squad)
	players := make([]advice.Player, 0, len(req.Squad))
	for _, item := range scored {
		if _, ok := inSquad[item.candidate.ID]; ok {
			players = append(players, toAdvicePlayer(item))
		}
	}
	return advice.Response{Kind: advice.KindSquadPlayers, Players: players}, nil
}

// Suggest picks up to FreeTransfers affordable non-squad candidates with the
// highest predicted points and pairs each with the weakest squad member of
// the same position.
func (a *LocalAdvisor) Suggest(ctx context.Context, req advice.Request) (advice.Response, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LocalAdvisor.Suggest")
	defer span.End()

	if req.FreeTransfers <= 0 {
		return advice.Response{Kind: advice.KindMessage, Message: noFreeTransfersMessage}, nil
	}

	scored, err := a.scorePool(ctx)
	if err != nil {
		return advice.Response{}, err
	}

	inSquad := squadSet(req.Squad)
	outgoing := make(map[player.Position][]scoredCandidate, len(player.OrderedPositions))
	for _, item := range scored {
		if _, ok := inSquad[item.candidate.ID]; ok {
			outgoing[item.candidate.Position] = append(outgoing[item.candidate.Position], item)
		}
	}
	for pos := range outgoing {
		items := outgoing[pos]
		sort.SliceStable(items, func(i, j int) bool { return items[i].points < items[j].points })
	}

	budget := player.CostFromFloat(req.Budget)
	incoming := make([]scoredCandidate, 0, len(scored))
	for _, item := range scored {
		if _, ok := inSquad[item.candidate.ID]; ok {
			continue
		}
		if item.candidate.Cost > budget {
			continue
		}
		incoming = append(incoming, item)
	}
	sort.SliceStable(incoming, func(i, j int) bool { return incoming[i].points > incoming[j].points })

	limit := min(req.FreeTransfers, len(incoming))
	suggestions := make([]advice.Suggestion, 0, limit)
	used := make(map[int64]struct{}, limit)
	for _, in := range incoming {
		if len(suggestions) >= limit {
			break
		}
		out, ok := weakestUnused(outgoing[in.candidate.Position], used)
		if !ok || in.points <= out.points {
			continue
		}
		used[out.candidate.ID] = struct{}{}
		suggestions = append(suggestions, advice.Suggestion{
			Out:        toAdvicePlayer(out),
			In:         toAdvicePlayer(in),
			PointsGain: roundPoints(in.points - out.points),
			CostChange: (in.candidate.Cost - out.candidate.Cost).Float(),
		})
	}

	if len(suggestions) == 0 {
		return advice.Response{Kind: advice.KindMessage, Message: noUpgradesMessage}, nil
	}
	return advice.Response{Kind: advice.KindSuggestions, Suggestions: suggestions}, nil
}

func (a *LocalAdvisor) scorePool(ctx context.Context) ([]scoredCandidate, error) {
	candidates, err := a.pool.Candidates(ctx)
	if err != nil {
		return nil, advice.NewError(advice.ErrorTransport, "player data is unavailable", err)
	}

	pool, err := ants.NewPool(a.workers)
	if err != nil {
		return nil, advice.NewError(advice.ErrorTransport, "local advisor is unavailable", fmt.Errorf("create worker pool: %w", err))
	}
	defer pool.Release()

	scored := make([]scoredCandidate, len(candidates))
	failures := make([]error, len(candidates))

	var workers sync.WaitGroup
	for i, candidate := range candidates {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			points, scoreErr := a.scorer.Score(prediction.FeaturesFor(candidate))
			scored[i] = scoredCandidate{candidate: candidate, points: points}
			failures[i] = scoreErr
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, advice.NewError(advice.ErrorTransport, "local advisor is unavailable", fmt.Errorf("submit scoring task: %w", err))
		}
	}
	workers.Wait()

	out := scored[:0]
	skipped := 0
	for i, item := range scored {
		if failures[i] != nil {
			skipped++
			continue
		}
		out = append(out, item)
	}
	if skipped > 0 {
		a.logger.WarnContext(ctx, "local advisor skipped unscorable candidates", "skipped", skipped)
	}
	return out, nil
}

func weakestUnused(items []scoredCandidate, used map[int64]struct{}) (scoredCandidate, bool) {
	for _, item := range items {
		if _, ok := used[item.candidate.ID]; ok {
			continue
		}
		return item, true
	}
	return scoredCandidate{}, false
}

func squadSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, v := range ids {
		out[v] = struct{}{}
	}
	return out
}

func toAdvicePlayer(item scoredCandidate) advice.Player {
	c := item.candidate
	return advice.Player{
		ID:              c.ID,
		WebName:         c.Name,
		NowCost:         float64(c.Cost),
		PredictedPoints: item.points,
		ElementType:     c.Position.ElementType(),
		Position:        string(c.Position),
		TeamName:        c.ClubName,
	}
}

func roundPoints(v float64) float64 {
	return math.Round(v*100) / 100
}
