package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fpl-advisor/internal/domain/advice"
	"github.com/riskibarqy/fpl-advisor/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
	"github.com/riskibarqy/fpl-advisor/internal/platform/cache"
	"github.com/riskibarqy/fpl-advisor/internal/platform/id"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
)

// AdviceGateway is the advisory service boundary. Implementations return
// *advice.Error for every failure.
type AdviceGateway interface {
	Suggest(ctx context.Context, req advice.Request) (advice.Response, error)
	Analyze(ctx context.Context, req advice.Request) (advice.Response, error)
}

// AdviceFlow selects which call sequence RequestAdvice runs.
type AdviceFlow string

const (
	FlowSingle                  AdviceFlow = "single"
	FlowAnalysisThenSuggestions AdviceFlow = "analysis_then_suggestions"
)

// RequestState is the lifecycle of the latest advice request of a session.
type RequestState string

const (
	RequestIdle    RequestState = "idle"
	RequestLoading RequestState = "loading"
	RequestReady   RequestState = "ready"
	RequestFailed  RequestState = "failed"
)

type resultsSession struct {
	mu         sync.Mutex
	id         string
	handoff    fantasy.Handoff
	generation uint64
	state      RequestState
	result     advice.Result
	failure    *advice.Error
	closed     bool
	createdAt  time.Time
	updatedAt  time.Time
}

// ResultsSnapshot is a read-only view of one results session.
type ResultsSnapshot struct {
	ID         string
	Squad      []player.Candidate
	Context    fantasy.BuildContext
	State      RequestState
	Generation uint64
	Result     advice.Result
	Failure    *advice.Error
	// Stale is set when the call that produced this snapshot was superseded.
	Stale     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdviceService owns results sessions and runs advice requests against the
// gateway. Calls within one request are strictly sequential.
type AdviceService struct {
	gateway  AdviceGateway
	flow     AdviceFlow
	sessions *cache.Store[*resultsSession]
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewAdviceService(
	gateway AdviceGateway,
	flow AdviceFlow,
	sessionTTL time.Duration,
	ids id.Generator,
	logger *logging.Logger,
) *AdviceService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if flow == "" {
		flow = FlowSingle
	}
	return &AdviceService{
		gateway:  gateway,
		flow:     flow,
		sessions: cache.NewStore[*resultsSession](cache.Options{TTL: sessionTTL, Sliding: true}),
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

// Open creates a results session holding the handoff. No request is issued.
func (s *AdviceService) Open(ctx context.Context, handoff fantasy.Handoff) (ResultsSnapshot, error) {
	sessionID, err := s.ids.NewID()
	if err != nil {
		return ResultsSnapshot{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now().UTC()
	session := &resultsSession{
		id:        sessionID,
		handoff:   handoff,
		state:     RequestIdle,
		createdAt: now,
		updatedAt: now,
	}
	s.sessions.Set(ctx, sessionID, session)
	s.logger.InfoContext(ctx, "results session opened", "session_id", sessionID, "squad_size", handoff.Squad.Size())

	return snapshotResults(session, false), nil
}

func (s *AdviceService) Get(ctx context.Context, sessionID string) (ResultsSnapshot, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return ResultsSnapshot{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return snapshotResults(session, false), nil
}

// Close unmounts the session. An in-flight request finishing later is dropped.
func (s *AdviceService) Close(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return fmt.Errorf("%w: results session %s", ErrNotFound, sessionID)
	}

	session.mu.Lock()
	session.closed = true
	session.mu.Unlock()

	s.sessions.Delete(ctx, sessionID)
	s.logger.InfoContext(ctx, "results session closed", "session_id", sessionID)
	return nil
}

// RequestAdvice runs the full call sequence for the session. It is also the
// manual retry. Each call bumps the session generation; a completion whose
// generation is no longer current, or whose session was closed, is not
// written back and the returned snapshot is marked stale. A failed request
// returns the updated snapshot together with its *advice.Error.
func (s *AdviceService) RequestAdvice(ctx context.Context, sessionID string) (ResultsSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdviceService.RequestAdvice")
	defer span.End()

	session, err := s.session(ctx, sessionID)
	if err != nil {
		return ResultsSnapshot{}, err
	}

	session.mu.Lock()
	session.generation++
	generation := session.generation
	session.state = RequestLoading
	session.failure = nil
	session.updatedAt = s.now().UTC()
	handoff := session.handoff
	session.mu.Unlock()

	started := s.now()
	result, runErr := s.run(ctx, handoff)

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		s.logger.InfoContext(ctx, "advice completion dropped, session closed", "session_id", sessionID, "generation", generation)
		return ResultsSnapshot{}, fmt.Errorf("%w: results session %s", ErrNotFound, sessionID)
	}
	if session.generation != generation {
		s.logger.InfoContext(ctx, "advice completion dropped, superseded",
			"session_id", sessionID,
			"generation", generation,
			"current_generation", session.generation,
		)
		return snapshotResults(session, true), nil
	}

	session.updatedAt = s.now().UTC()
	if runErr != nil {
		adviceErr, ok := advice.AsError(runErr)
		if !ok {
			adviceErr = advice.NewError(advice.ErrorTransport, "advice request failed", runErr)
		}
		session.state = RequestFailed
		session.failure = adviceErr
		session.result = advice.Result{}
		s.logger.WarnContext(ctx, "advice request failed",
			"session_id", sessionID,
			"kind", adviceErr.Kind,
			"status", adviceErr.Status,
			"error", runErr,
		)
		return snapshotResults(session, false), adviceErr
	}

	session.state = RequestReady
	session.result = result
	s.logger.InfoContext(ctx, "advice request completed",
		"session_id", sessionID,
		"kind", result.Kind,
		"suggestions", len(result.Suggestions),
		"players", len(result.Players),
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)
	return snapshotResults(session, false), nil
}

// SuggestionsFor returns the session's suggestions for one outgoing player.
func (s *AdviceService) SuggestionsFor(ctx context.Context, sessionID string, playerID int64) ([]advice.Suggestion, error) {
	result, err := s.readyResult(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return result.SuggestionsFor(playerID), nil
}

// TopOverall returns the best n suggestions of the session.
func (s *AdviceService) TopOverall(ctx context.Context, sessionID string, n int) ([]advice.Suggestion, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n must be >= 0", ErrInvalidInput)
	}
	result, err := s.readyResult(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return result.TopOverall(n), nil
}

// Sweep drops idle sessions.
func (s *AdviceService) Sweep() int {
	return s.sessions.Sweep()
}

func (s *AdviceService) run(ctx context.Context, handoff fantasy.Handoff) (advice.Result, error) {
	req, err := buildAdviceRequest(handoff)
	if err != nil {
		return advice.Result{}, err
	}

	switch s.flow {
	case FlowAnalysisThenSuggestions:
		analysis, err := s.gateway.Analyze(ctx, req)
		if err != nil {
			return advice.Result{}, err
		}
		switch analysis.Kind {
		case advice.KindSquadPlayers:
			req.SquadPlayers = analysis.Players
		case advice.KindMessage:
			return toResult(analysis), nil
		default:
			return advice.Result{}, advice.NewError(advice.ErrorUnexpectedShape,
				fmt.Sprintf("squad analysis returned %s instead of squad players", analysis.Kind), nil)
		}
	}

	resp, err := s.gateway.Suggest(ctx, req)
	if err != nil {
		return advice.Result{}, err
	}
	return toResult(resp), nil
}

func buildAdviceRequest(handoff fantasy.Handoff) (advice.Request, error) {
	if !handoff.Context.HasBudget {
		return advice.Request{}, advice.NewError(advice.ErrorMissingParameters, "budget is required", nil)
	}
	if handoff.Squad.Size() == 0 {
		return advice.Request{}, advice.NewError(advice.ErrorMissingParameters, "squad is required", nil)
	}

	return advice.Request{
		Squad:         handoff.Squad.IDs(),
		Budget:        handoff.Context.Budget.Float(),
		FreeTransfers: handoff.Context.FreeTransfers,
		Chips:         append([]string{}, handoff.Context.Chips...),
	}, nil
}

func toResult(resp advice.Response) advice.Result {
	return advice.Result{
		Kind:        resp.Kind,
		Suggestions: resp.Suggestions,
		Players:     resp.Players,
		Message:     resp.Message,
	}
}

func (s *AdviceService) readyResult(ctx context.Context, sessionID string) (advice.Result, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return advice.Result{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != RequestReady {
		return advice.Result{}, fmt.Errorf("%w: results session %s is %s", ErrAdviceNotReady, sessionID, session.state)
	}
	return session.result, nil
}

func (s *AdviceService) session(ctx context.Context, sessionID string) (*resultsSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: results session %s", ErrNotFound, sessionID)
	}
	return session, nil
}

func snapshotResults(session *resultsSession, stale bool) ResultsSnapshot {
	return ResultsSnapshot{
		ID:         session.id,
		Squad:      session.handoff.Squad.Members(),
		Context:    session.handoff.Context,
		State:      session.state,
		Generation: session.generation,
		Result:     session.result,
		Failure:    session.failure,
		Stale:      stale,
		CreatedAt:  session.createdAt,
		UpdatedAt:  session.updatedAt,
	}
}
