package fantasy

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
)

var (
	ErrPositionIncomplete = errors.New("position is not complete")
	ErrInvalidTransition  = errors.New("invalid workflow transition")
)

// StageKind is the screen state of the selection workflow.
type StageKind string

const (
	StageSelectingPosition StageKind = "selecting_position"
	StageEnteringBudget    StageKind = "entering_budget"
)

// Stage is one state of the selection workflow. Position is set only while selecting.
type Stage struct {
	Kind     StageKind
	Position player.Position
}

func InitialStage() Stage {
	return Selecting(player.OrderedPositions[0])
}

func Selecting(pos player.Position) Stage {
	return Stage{Kind: StageSelectingPosition, Position: pos}
}

func EnteringBudget() Stage {
	return Stage{Kind: StageEnteringBudget}
}

func (s Stage) String() string {
	if s.Kind == StageSelectingPosition {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Position)
	}
	return string(s.Kind)
}

// Advance moves past the displayed position once it is full.
func Advance(stage Stage, squad Squad, rules Rules) (Stage, error) {
	if stage.Kind != StageSelectingPosition {
		return stage, fmt.Errorf("%w: cannot advance from %s", ErrInvalidTransition, stage)
	}
	if !IsPositionComplete(squad, stage.Position, rules) {
		return stage, fmt.Errorf("%w: pos=%s have=%d need=%d",
			ErrPositionIncomplete, stage.Position, squad.CountByPosition(stage.Position), rules.Quota(stage.Position))
	}

	next, ok := nextPosition(stage.Position)
	if !ok {
		return EnteringBudget(), nil
	}
	return Selecting(next), nil
}

// JumpTo switches the displayed position without any guard.
func JumpTo(_ Stage, pos player.Position) (Stage, error) {
	if _, ok := player.AllPositions[pos]; !ok {
		return Stage{}, fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, pos)
	}
	return Selecting(pos), nil
}

// AfterRemoval returns the workflow to the removed player's position when that
// position is no longer complete.
func AfterRemoval(stage Stage, squad Squad, removed player.Position, rules Rules) Stage {
	if IsPositionComplete(squad, removed, rules) {
		return stage
	}
	return Selecting(removed)
}

func nextPosition(pos player.Position) (player.Position, bool) {
	for i, candidate := range player.OrderedPositions {
		if candidate != pos {
			continue
		}
		if i+1 < len(player.OrderedPositions) {
			return player.OrderedPositions[i+1], true
		}
		return "", false
	}
	return "", false
}
