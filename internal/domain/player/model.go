package player

import (
	"fmt"
	"strings"
)

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// OrderedPositions is the selection order of the squad builder.
var OrderedPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

// PositionFromElementType maps the feed's element_type (1..4) to a Position.
func PositionFromElementType(elementType int) (Position, error) {
	switch elementType {
	case 1:
		return PositionGoalkeeper, nil
	case 2:
		return PositionDefender, nil
	case 3:
		return PositionMidfielder, nil
	case 4:
		return PositionForward, nil
	default:
		return "", fmt.Errorf("unknown element type %d", elementType)
	}
}

func ParsePosition(raw string) (Position, error) {
	pos := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := AllPositions[pos]; !ok {
		return "", fmt.Errorf("invalid player position: %s", raw)
	}
	return pos, nil
}

// ElementType is the inverse of PositionFromElementType.
func (p Position) ElementType() int {
	switch p {
	case PositionGoalkeeper:
		return 1
	case PositionDefender:
		return 2
	case PositionMidfielder:
		return 3
	case PositionForward:
		return 4
	default:
		return 0
	}
}

// Defensive reports whether the position is scored with the defensive model.
func (p Position) Defensive() bool {
	return p == PositionGoalkeeper || p == PositionDefender
}

// Cost is a fixed-point currency amount in tenths of a unit (feed now_cost).
type Cost int64

func CostFromFloat(v float64) Cost {
	if v < 0 {
		return Cost(v*10 - 0.5)
	}
	return Cost(v*10 + 0.5)
}

func (c Cost) Float() float64 {
	return float64(c) / 10
}

func (c Cost) String() string {
	return fmt.Sprintf("£%.1fm", c.Float())
}

// Stats carries the feed figures the local scorer consumes.
type Stats struct {
	TotalPoints       int
	Form              float64
	Threat            float64
	ExpectedGoals     float64
	ExpectedAssists   float64
	CleanSheets       int
	Saves             int
	Minutes           int
	FixtureDifficulty float64
}

// Candidate is a selectable player from the external pool.
type Candidate struct {
	ID       int64
	Name     string
	Cost     Cost
	Position Position
	ClubID   int64
	ClubName string
	Stats    Stats
}

func (c Candidate) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("candidate id must be greater than zero")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("candidate name is required")
	}
	if _, ok := AllPositions[c.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", c.Position)
	}
	if c.ClubID <= 0 {
		return fmt.Errorf("candidate club id is required")
	}
	if c.Cost <= 0 {
		return fmt.Errorf("candidate cost must be greater than zero")
	}

	return nil
}
