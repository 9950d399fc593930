package fantasy

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
)

func TestWorkflow_AdvanceThroughPositions(t *testing.T) {
	rules := DefaultRules()
	squad := buildSquad(t, completeCandidates())

	stage := InitialStage()
	if stage != Selecting(player.PositionGoalkeeper) {
		t.Fatalf("expected initial stage GK, got %s", stage)
	}

	want := []Stage{
		Selecting(player.PositionDefender),
		Selecting(player.PositionMidfielder),
		Selecting(player.PositionForward),
		EnteringBudget(),
	}
	for _, next := range want {
		var err error
		stage, err = Advance(stage, squad, rules)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if stage != next {
			t.Fatalf("expected %s, got %s", next, stage)
		}
	}

	if _, err := Advance(stage, squad, rules); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from budget stage, got %v", err)
	}
}

func TestWorkflow_AdvanceGuardedByCompleteness(t *testing.T) {
	rules := DefaultRules()
	squad := buildSquad(t, completeCandidates()[:1])

	stage, err := Advance(InitialStage(), squad, rules)
	if !errors.Is(err, ErrPositionIncomplete) {
		t.Fatalf("expected ErrPositionIncomplete, got %v", err)
	}
	if stage != InitialStage() {
		t.Fatalf("expected stage unchanged, got %s", stage)
	}
}

func TestWorkflow_JumpToIsUnguarded(t *testing.T) {
	stage, err := JumpTo(InitialStage(), player.PositionForward)
	if err != nil {
		t.Fatalf("jump: %v", err)
	}
	if stage != Selecting(player.PositionForward) {
		t.Fatalf("expected FWD, got %s", stage)
	}

	stage, err = JumpTo(EnteringBudget(), player.PositionDefender)
	if err != nil {
		t.Fatalf("jump from budget: %v", err)
	}
	if stage != Selecting(player.PositionDefender) {
		t.Fatalf("expected DEF, got %s", stage)
	}

	if _, err := JumpTo(stage, player.Position("XX")); !errors.Is(err, ErrUnknownPlayerPosition) {
		t.Fatalf("expected ErrUnknownPlayerPosition, got %v", err)
	}
}

func TestWorkflow_AfterRemovalReturnsToPosition(t *testing.T) {
	rules := DefaultRules()
	squad := buildSquad(t, completeCandidates())

	squad = RemoveCandidate(squad, 3)
	stage := AfterRemoval(EnteringBudget(), squad, player.PositionDefender, rules)
	if stage != Selecting(player.PositionDefender) {
		t.Fatalf("expected DEF after removal, got %s", stage)
	}

	partial := buildSquad(t, completeCandidates()[:3])
	stage = AfterRemoval(Selecting(player.PositionMidfielder), RemoveCandidate(partial, 99), player.PositionGoalkeeper, rules)
	if stage != Selecting(player.PositionMidfielder) {
		t.Fatalf("expected stage unchanged when position still complete, got %s", stage)
	}
}
