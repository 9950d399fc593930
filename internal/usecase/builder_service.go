package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fpl-advisor/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
	"github.com/riskibarqy/fpl-advisor/internal/platform/cache"
	"github.com/riskibarqy/fpl-advisor/internal/platform/id"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
)

const poolUnavailableMessage = "Player list is unavailable right now. Please try again shortly."

// CandidatePool is the read side of PoolService used by builder sessions.
type CandidatePool interface {
	Candidates(ctx context.Context) ([]player.Candidate, error)
	Refresh(ctx context.Context) ([]player.Candidate, error)
}

// ResultsOpener starts the advice stage from a finalized squad.
type ResultsOpener interface {
	Open(ctx context.Context, handoff fantasy.Handoff) (ResultsSnapshot, error)
}

type builderSession struct {
	mu        sync.Mutex
	id        string
	squad     fantasy.Squad
	stage     fantasy.Stage
	pool      []player.Candidate
	poolIndex map[int64]player.Candidate
	poolError string
	createdAt time.Time
	updatedAt time.Time
}

// BuilderSnapshot is a read-only view of one builder session.
type BuilderSnapshot struct {
	ID            string
	Squad         []player.Candidate
	Stage         fantasy.Stage
	TotalValue    player.Cost
	CountsByPos   map[player.Position]int
	Quotas        map[player.Position]int
	PositionFull  bool
	SquadComplete bool
	PoolSize      int
	PoolError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MountBuilderInput tunes Mount. By default every mount fetches the pool
// again; ReuseCachedPool serves the pool cache instead.
type MountBuilderInput struct {
	ReuseCachedPool bool
}

type HandoffInput struct {
	Budget        string
	FreeTransfers string
	Chips         []string
}

// BuilderService owns squad-builder sessions. Operations on one session are
// serialized by the session mutex.
type BuilderService struct {
	pool     CandidatePool
	results  ResultsOpener
	sessions *cache.Store[*builderSession]
	ids      id.Generator
	rules    fantasy.Rules
	logger   *logging.Logger
	now      func() time.Time
}

func NewBuilderService(
	pool CandidatePool,
	results ResultsOpener,
	sessionTTL time.Duration,
	ids id.Generator,
	rules fantasy.Rules,
	logger *logging.Logger,
) *BuilderService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &BuilderService{
		pool:     pool,
		results:  results,
		sessions: cache.NewStore[*builderSession](cache.Options{TTL: sessionTTL, Sliding: true}),
		ids:      ids,
		rules:    rules,
		logger:   logger,
		now:      time.Now,
	}
}

// Mount creates a session with an empty squad and a freshly loaded pool. A
// pool failure still mounts the session, with an empty pool and a message.
func (s *BuilderService) Mount(ctx context.Context, input MountBuilderInput) (BuilderSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BuilderService.Mount")
	defer span.End()

	sessionID, err := s.ids.NewID()
	if err != nil {
		return BuilderSnapshot{}, fmt.Errorf("generate session id: %w", err)
	}

	load := s.pool.Refresh
	if input.ReuseCachedPool {
		load = s.pool.Candidates
	}

	session := &builderSession{
		id:        sessionID,
		squad:     fantasy.NewSquad(),
		stage:     fantasy.InitialStage(),
		createdAt: s.now().UTC(),
	}
	session.updatedAt = session.createdAt

	candidates, err := load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "candidate pool fetch failed, mounting empty builder",
			"session_id", sessionID,
			"error", err,
		)
		session.poolError = poolUnavailableMessage
		candidates = nil
	}
	session.pool = candidates
	session.poolIndex = make(map[int64]player.Candidate, len(candidates))
	for _, c := range candidates {
		session.poolIndex[c.ID] = c
	}

	s.sessions.Set(ctx, sessionID, session)
	s.logger.InfoContext(ctx, "builder session mounted", "session_id", sessionID, "pool_size", len(candidates))

	return s.snapshot(session), nil
}

func (s *BuilderService) Get(ctx context.Context, sessionID string) (BuilderSnapshot, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return BuilderSnapshot{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.snapshot(session), nil
}

// Unmount discards the session and its squad.
func (s *BuilderService) Unmount(ctx context.Context, sessionID string) error {
	if !s.sessions.Delete(ctx, sessionID) {
		return fmt.Errorf("%w: builder session %s", ErrNotFound, sessionID)
	}
	s.logger.InfoContext(ctx, "builder session unmounted", "session_id", sessionID)
	return nil
}

// Candidates lists the session's pool for a position, defaulting to the
// position currently displayed.
func (s *BuilderService) Candidates(ctx context.Context, sessionID, rawPosition string) ([]player.Candidate, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	pos := session.stage.Position
	if rawPosition != "" {
		parsed, err := player.ParsePosition(rawPosition)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		pos = parsed
	}
	return filterByPosition(session.pool, pos), nil
}

// AddPick adds a pool candidate to the squad. A rule violation is returned as
// a *fantasy.Rejection and leaves the session untouched.
func (s *BuilderService) AddPick(ctx context.Context, sessionID string, candidateID int64) (BuilderSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BuilderService.AddPick")
	defer span.End()

	session, err := s.session(ctx, sessionID)
	if err != nil {
		return BuilderSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	candidate, ok := session.poolIndex[candidateID]
	if !ok {
		return BuilderSnapshot{}, fmt.Errorf("%w: candidate %d is not in the pool", ErrNotFound, candidateID)
	}

	next, err := fantasy.AddCandidate(session.squad, candidate, s.rules)
	if err != nil {
		if rejection, ok := fantasy.AsRejection(err); ok {
			s.logger.InfoContext(ctx, "pick rejected",
				"session_id", sessionID,
				"candidate_id", candidateID,
				"reason", rejection.Reason,
			)
			return BuilderSnapshot{}, rejection
		}
		return BuilderSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	session.squad = next
	session.updatedAt = s.now().UTC()
	return s.snapshot(session), nil
}

// RemovePick drops a candidate. When that leaves its position short the
// workflow returns to that position.
func (s *BuilderService) RemovePick(ctx context.Context, sessionID string, candidateID int64) (BuilderSnapshot, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return BuilderSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	removed, ok := session.squad.Find(candidateID)
	if !ok {
		return s.snapshot(session), nil
	}

	session.squad = fantasy.RemoveCandidate(session.squad, candidateID)
	session.stage = fantasy.AfterRemoval(session.stage, session.squad, removed.Position, s.rules)
	session.updatedAt = s.now().UTC()
	return s.snapshot(session), nil
}

func (s *BuilderService) JumpTo(ctx context.Context, sessionID, rawPosition string) (BuilderSnapshot, error) {
	pos, err := player.ParsePosition(rawPosition)
	if err != nil {
		return BuilderSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	session, err := s.session(ctx, sessionID)
	if err != nil {
		return BuilderSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	stage, err := fantasy.JumpTo(session.stage, pos)
	if err != nil {
		return BuilderSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	session.stage = stage
	session.updatedAt = s.now().UTC()
	return s.snapshot(session), nil
}

// Advance moves past the displayed position. It fails with
// fantasy.ErrPositionIncomplete while the position is short.
func (s *BuilderService) Advance(ctx context.Context, sessionID string) (BuilderSnapshot, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return BuilderSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	stage, err := fantasy.Advance(session.stage, session.squad, s.rules)
	if err != nil {
		return BuilderSnapshot{}, err
	}
	session.stage = stage
	session.updatedAt = s.now().UTC()
	return s.snapshot(session), nil
}

// Handoff finalizes the squad with the entered budget and opens the advice
// stage. The builder session is discarded on success.
func (s *BuilderService) Handoff(ctx context.Context, sessionID string, input HandoffInput) (ResultsSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BuilderService.Handoff")
	defer span.End()

	session, err := s.session(ctx, sessionID)
	if err != nil {
		return ResultsSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	buildCtx, err := fantasy.ParseBuildContext(input.Budget, input.FreeTransfers, input.Chips)
	if err != nil {
		return ResultsSnapshot{}, err
	}
	handoff, err := fantasy.Finalize(session.squad, buildCtx, s.rules)
	if err != nil {
		if rejection, ok := fantasy.AsRejection(err); ok {
			s.logger.InfoContext(ctx, "handoff rejected", "session_id", sessionID, "reason", rejection.Reason)
		}
		return ResultsSnapshot{}, err
	}

	results, err := s.results.Open(ctx, handoff)
	if err != nil {
		return ResultsSnapshot{}, fmt.Errorf("open results session: %w", err)
	}

	s.sessions.Delete(ctx, sessionID)
	s.logger.InfoContext(ctx, "builder handed off",
		"session_id", sessionID,
		"results_session_id", results.ID,
		"budget", handoff.Context.Budget.String(),
		"free_transfers", handoff.Context.FreeTransfers,
	)
	return results, nil
}

// Sweep drops idle sessions.
func (s *BuilderService) Sweep() int {
	return s.sessions.Sweep()
}

func (s *BuilderService) session(ctx context.Context, sessionID string) (*builderSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: builder session %s", ErrNotFound, sessionID)
	}
	return session, nil
}

func (s *BuilderService) snapshot(session *builderSession) BuilderSnapshot {
	counts := make(map[player.Position]int, len(player.OrderedPositions))
	quotas := make(map[player.Position]int, len(player.OrderedPositions))
	for _, pos := range player.OrderedPositions {
		counts[pos] = session.squad.CountByPosition(pos)
		quotas[pos] = s.rules.Quota(pos)
	}

	positionFull := false
	if session.stage.Kind == fantasy.StageSelectingPosition {
		positionFull = fantasy.IsPositionComplete(session.squad, session.stage.Position, s.rules)
	}

	return BuilderSnapshot{
		ID:            session.id,
		Squad:         session.squad.Members(),
		Stage:         session.stage,
		TotalValue:    fantasy.TotalValue(session.squad),
		CountsByPos:   counts,
		Quotas:        quotas,
		PositionFull:  positionFull,
		SquadComplete: fantasy.IsSquadComplete(session.squad, s.rules),
		PoolSize:      len(session.pool),
		PoolError:     session.poolError,
		CreatedAt:     session.createdAt,
		UpdatedAt:     session.updatedAt,
	}
}
