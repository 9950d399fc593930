package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-advisor/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
	playermock "github.com/riskibarqy/fpl-advisor/internal/mocks/domain/player"
	usecasemock "github.com/riskibarqy/fpl-advisor/internal/mocks/usecase"
	"github.com/riskibarqy/fpl-advisor/internal/platform/id"
	"github.com/stretchr/testify/mock"
)

type builderFixture struct {
	builder *BuilderService
	advice  *AdviceService
	pool    *usecasemock.CandidatePool
	gateway *usecasemock.AdviceGateway
}

func newBuilderFixture(t *testing.T, ids ...string) builderFixture {
	t.Helper()

	pool := usecasemock.NewCandidatePool(t)
	gateway := usecasemock.NewAdviceGateway(t)
	adviceService := NewAdviceService(gateway, FlowSingle, time.Hour, id.NewSequence("results-1", "results-2"), nil)
	builder := NewBuilderService(pool, adviceService, time.Hour, id.NewSequence(ids...), fantasy.DefaultRules(), nil)

	return builderFixture{
		builder: builder,
		advice:  adviceService,
		pool:    pool,
		gateway: gateway,
	}
}

func mountWithPool(t *testing.T, f builderFixture) BuilderSnapshot {
	t.Helper()

	f.pool.On("Refresh", mock.Anything).Return(testPool(), nil).Once()
	snapshot, err := f.builder.Mount(context.Background(), MountBuilderInput{})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return snapshot
}

func pickAll(t *testing.T, f builderFixture, sessionID string) BuilderSnapshot {
	t.Helper()

	ctx := context.Background()
	var snapshot BuilderSnapshot
	for _, c := range testSquadCandidates() {
		var err error
		snapshot, err = f.builder.AddPick(ctx, sessionID, c.ID)
		if err != nil {
			t.Fatalf("add pick %d: %v", c.ID, err)
		}
		if snapshot.PositionFull && snapshot.Stage.Kind == fantasy.StageSelectingPosition {
			snapshot, err = f.builder.Advance(ctx, sessionID)
			if err != nil {
				t.Fatalf("advance after %d: %v", c.ID, err)
			}
		}
	}
	return snapshot
}

func TestBuilderService_MountStartsAtGoalkeepers(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t, "builder-1")
	snapshot := mountWithPool(t, f)

	if snapshot.ID != "builder-1" {
		t.Fatalf("unexpected session id: %s", snapshot.ID)
	}
	if snapshot.Stage != fantasy.Selecting(player.PositionGoalkeeper) {
		t.Fatalf("unexpected initial stage: %s", snapshot.Stage)
	}
	if snapshot.PoolSize != len(testPool()) {
		t.Fatalf("unexpected pool size: %d", snapshot.PoolSize)
	}
	if len(snapshot.Squad) != 0 || snapshot.TotalValue != 0 {
		t.Fatalf("expected empty squad, got %d players worth %d", len(snapshot.Squad), snapshot.TotalValue)
	}
	if snapshot.Quotas[player.PositionDefender] != 5 {
		t.Fatalf("unexpected DEF quota: %d", snapshot.Quotas[player.PositionDefender])
	}

	goalkeepers, err := f.builder.Candidates(context.Background(), snapshot.ID, "")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(goalkeepers) != 3 {
		t.Fatalf("expected 3 goalkeepers in the pool, got %d", len(goalkeepers))
	}

	if _, err := f.builder.Candidates(context.Background(), snapshot.ID, "striker"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad position, got %v", err)
	}
}

func TestBuilderService_MountReuseCachedPoolUsesCandidates(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t, "builder-1")
	f.pool.On("Candidates", mock.Anything).Return(testPool()[:3], nil).Once()

	snapshot, err := f.builder.Mount(context.Background(), MountBuilderInput{ReuseCachedPool: true})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if snapshot.PoolSize != 3 {
		t.Fatalf("expected cached pool of 3, got %d", snapshot.PoolSize)
	}
}

func TestBuilderService_EveryMountFetchesThePool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := playermock.NewSource(t)
	source.On("FetchCandidates", mock.Anything).Return(testPool()[:4], nil).Once()
	source.On("FetchCandidates", mock.Anything).Return(testPool(), nil).Once()

	pool := NewPoolService(source, time.Hour, nil)
	adviceService := NewAdviceService(usecasemock.NewAdviceGateway(t), FlowSingle, time.Hour, id.NewSequence("results-1"), nil)
	builder := NewBuilderService(pool, adviceService, time.Hour, id.NewSequence("builder-1", "builder-2"), fantasy.DefaultRules(), nil)

	first, err := builder.Mount(ctx, MountBuilderInput{})
	if err != nil {
		t.Fatalf("first mount: %v", err)
	}
	second, err := builder.Mount(ctx, MountBuilderInput{})
	if err != nil {
		t.Fatalf("second mount: %v", err)
	}
	if first.PoolSize != 4 || second.PoolSize != len(testPool()) {
		t.Fatalf("expected each mount to load its own pool, got %d and %d", first.PoolSize, second.PoolSize)
	}
	source.AssertNumberOfCalls(t, "FetchCandidates", 2)
}

func TestBuilderService_MountWithPoolFailure(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t, "builder-1")
	f.pool.On("Refresh", mock.Anything).Return(nil, ErrDependencyUnavailable).Once()

	snapshot, err := f.builder.Mount(context.Background(), MountBuilderInput{})
	if err != nil {
		t.Fatalf("expected mount to succeed with empty pool, got %v", err)
	}
	if snapshot.PoolSize != 0 {
		t.Fatalf("expected empty pool, got %d", snapshot.PoolSize)
	}
	if snapshot.PoolError != poolUnavailableMessage {
		t.Fatalf("unexpected pool error: %q", snapshot.PoolError)
	}

	_, err = f.builder.AddPick(context.Background(), snapshot.ID, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for pick from empty pool, got %v", err)
	}
}

func TestBuilderService_AddPickRejectionLeavesSquadUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newBuilderFixture(t, "builder-1")
	sessionID := mountWithPool(t, f).ID

	for _, candidateID := range []int64{1, 2} {
		if _, err := f.builder.AddPick(ctx, sessionID, candidateID); err != nil {
			t.Fatalf("add pick %d: %v", candidateID, err)
		}
	}

	_, err := f.builder.AddPick(ctx, sessionID, 16)
	rejection, ok := fantasy.AsRejection(err)
	if !ok {
		t.Fatalf("expected rejection, got %v", err)
	}
	if rejection.Reason != fantasy.ReasonPositionQuotaExceeded {
		t.Fatalf("unexpected reason: %s", rejection.Reason)
	}

	_, err = f.builder.AddPick(ctx, sessionID, 1)
	if rejection, ok := fantasy.AsRejection(err); !ok || rejection.Reason != fantasy.ReasonDuplicateCandidate {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	snapshot, err := f.builder.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(snapshot.Squad) != 2 {
		t.Fatalf("expected squad of 2 after rejections, got %d", len(snapshot.Squad))
	}
	if !snapshot.PositionFull {
		t.Fatalf("expected goalkeepers to be full")
	}
	if snapshot.TotalValue != 100 {
		t.Fatalf("expected total 100 tenths, got %d", snapshot.TotalValue)
	}
}

func TestBuilderService_AdvanceRequiresFullPosition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newBuilderFixture(t, "builder-1")
	sessionID := mountWithPool(t, f).ID

	if _, err := f.builder.AddPick(ctx, sessionID, 1); err != nil {
		t.Fatalf("add pick: %v", err)
	}
	if _, err := f.builder.Advance(ctx, sessionID); !errors.Is(err, fantasy.ErrPositionIncomplete) {
		t.Fatalf("expected ErrPositionIncomplete, got %v", err)
	}

	snapshot, err := f.builder.JumpTo(ctx, sessionID, "mid")
	if err != nil {
		t.Fatalf("jump to: %v", err)
	}
	if snapshot.Stage != fantasy.Selecting(player.PositionMidfielder) {
		t.Fatalf("unexpected stage after jump: %s", snapshot.Stage)
	}
	if _, err := f.builder.JumpTo(ctx, sessionID, "keeper"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown position, got %v", err)
	}
}

func TestBuilderService_RemovePickReturnsToPosition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newBuilderFixture(t, "builder-1")
	sessionID := mountWithPool(t, f).ID

	snapshot := pickAll(t, f, sessionID)
	if snapshot.Stage.Kind != fantasy.StageEnteringBudget || !snapshot.SquadComplete {
		t.Fatalf("expected complete squad entering budget, got %s complete=%v", snapshot.Stage, snapshot.SquadComplete)
	}

	snapshot, err := f.builder.RemovePick(ctx, sessionID, 9)
	if err != nil {
		t.Fatalf("remove pick: %v", err)
	}
	if snapshot.Stage != fantasy.Selecting(player.PositionMidfielder) {
		t.Fatalf("expected return to MID, got %s", snapshot.Stage)
	}
	if snapshot.SquadComplete {
		t.Fatalf("expected incomplete squad after removal")
	}

	again, err := f.builder.RemovePick(ctx, sessionID, 9)
	if err != nil {
		t.Fatalf("remove absent pick: %v", err)
	}
	if len(again.Squad) != 14 {
		t.Fatalf("expected no-op removal, got %d players", len(again.Squad))
	}
}

func TestBuilderService_HandoffOpensResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newBuilderFixture(t, "builder-1")
	sessionID := mountWithPool(t, f).ID
	pickAll(t, f, sessionID)

	results, err := f.builder.Handoff(ctx, sessionID, HandoffInput{Budget: "1.5", FreeTransfers: "", Chips: []string{"Wildcard"}})
	if err != nil {
		t.Fatalf("handoff: %v", err)
	}
	if results.ID != "results-1" {
		t.Fatalf("unexpected results session id: %s", results.ID)
	}
	if results.State != RequestIdle {
		t.Fatalf("expected idle results session, got %s", results.State)
	}
	if results.Context.Budget != 15 || results.Context.FreeTransfers != 1 {
		t.Fatalf("unexpected context: %+v", results.Context)
	}
	if len(results.Context.Chips) != 1 || results.Context.Chips[0] != "wildcard" {
		t.Fatalf("unexpected chips: %v", results.Context.Chips)
	}
	if len(results.Squad) != 15 {
		t.Fatalf("expected 15 players handed off, got %d", len(results.Squad))
	}

	if _, err := f.builder.Get(ctx, sessionID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected builder session to be discarded, got %v", err)
	}
	if _, err := f.advice.Get(ctx, results.ID); err != nil {
		t.Fatalf("expected results session to exist: %v", err)
	}
}

func TestBuilderService_HandoffRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pickAll    bool
		input      HandoffInput
		wantReason fantasy.RejectionReason
	}{
		{
			name:       "incomplete squad",
			input:      HandoffInput{Budget: "0"},
			wantReason: fantasy.ReasonIncompleteSquad,
		},
		{
			name:       "missing budget",
			pickAll:    true,
			input:      HandoffInput{},
			wantReason: fantasy.ReasonInvalidBudget,
		},
		{
			name:       "unparsable budget",
			pickAll:    true,
			input:      HandoffInput{Budget: "lots"},
			wantReason: fantasy.ReasonInvalidBudget,
		},
		{
			name:       "negative free transfers",
			pickAll:    true,
			input:      HandoffInput{Budget: "0.5", FreeTransfers: "-1"},
			wantReason: fantasy.ReasonInvalidFreeTransfers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			f := newBuilderFixture(t, "builder-1")
			sessionID := mountWithPool(t, f).ID
			if tt.pickAll {
				pickAll(t, f, sessionID)
			}

			_, err := f.builder.Handoff(ctx, sessionID, tt.input)
			rejection, ok := fantasy.AsRejection(err)
			if !ok {
				t.Fatalf("expected rejection, got %v", err)
			}
			if rejection.Reason != tt.wantReason {
				t.Fatalf("expected %s, got %s", tt.wantReason, rejection.Reason)
			}
			if _, err := f.builder.Get(ctx, sessionID); err != nil {
				t.Fatalf("expected builder session kept after rejection: %v", err)
			}
		})
	}
}

func TestBuilderService_UnmountAndSweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newBuilderFixture(t, "builder-1", "builder-2")
	first := mountWithPool(t, f)

	if err := f.builder.Unmount(ctx, first.ID); err != nil {
		t.Fatalf("unmount: %v", err)
	}
	if err := f.builder.Unmount(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second unmount, got %v", err)
	}
	if _, err := f.builder.AddPick(ctx, first.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after unmount, got %v", err)
	}
	if _, err := f.builder.Get(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}

	mountWithPool(t, f)
	if removed := f.builder.Sweep(); removed != 0 {
		t.Fatalf("expected no idle sessions swept, got %d", removed)
	}
}
