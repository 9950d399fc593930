package fantasy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
)

// Squad is an ordered-by-selection set of candidates. Values are never mutated in place;
// AddCandidate and RemoveCandidate return new squads.
type Squad struct {
	members []player.Candidate
}

func NewSquad() Squad {
	return Squad{}
}

func (s Squad) Members() []player.Candidate {
	return append([]player.Candidate(nil), s.members...)
}

func (s Squad) Size() int {
	return len(s.members)
}

func (s Squad) IDs() []int64 {
	ids := make([]int64, 0, len(s.members))
	for _, member := range s.members {
		ids = append(ids, member.ID)
	}
	return ids
}

func (s Squad) Contains(candidateID int64) bool {
	_, ok := s.Find(candidateID)
	return ok
}

func (s Squad) Find(candidateID int64) (player.Candidate, bool) {
	for _, member := range s.members {
		if member.ID == candidateID {
			return member, true
		}
	}
	return player.Candidate{}, false
}

func (s Squad) CountByPosition(pos player.Position) int {
	count := 0
	for _, member := range s.members {
		if member.Position == pos {
			count++
		}
	}
	return count
}

func (s Squad) CountByClub(clubID int64) int {
	count := 0
	for _, member := range s.members {
		if member.ClubID == clubID {
			count++
		}
	}
	return count
}

// BuildContext is the scalar state entered once the squad is complete.
type BuildContext struct {
	Budget        player.Cost
	HasBudget     bool
	FreeTransfers int
	Chips         []string
}

const (
	defaultFreeTransfers = 1
	// MaxFreeTransfers bounds free transfers to one swap per squad slot.
	MaxFreeTransfers = 15
	// MaxBudget is the largest budget, in units, a context accepts.
	MaxBudget = 1000.0
)

// ParseBuildContext turns raw user input into a BuildContext. The budget must parse as a
// non-negative number. Empty or unparsable free transfers fall back to 1.
func ParseBuildContext(budgetText, freeTransfersText string, chips []string) (BuildContext, error) {
	budgetText = strings.TrimSpace(budgetText)
	if budgetText == "" {
		return BuildContext{}, &Rejection{Reason: ReasonInvalidBudget, Detail: "budget is required"}
	}
	budget, err := strconv.ParseFloat(budgetText, 64)
	if err != nil || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return BuildContext{}, &Rejection{Reason: ReasonInvalidBudget, Detail: fmt.Sprintf("cannot parse %q", budgetText)}
	}

	return NewBuildContext(budget, parseFreeTransfers(freeTransfersText), chips)
}

func NewBuildContext(budget float64, freeTransfers int, chips []string) (BuildContext, error) {
	if budget < 0 || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return BuildContext{}, &Rejection{Reason: ReasonInvalidBudget, Detail: "budget must be >= 0"}
	}
	if budget > MaxBudget {
		return BuildContext{}, &Rejection{Reason: ReasonInvalidBudget, Detail: fmt.Sprintf("budget must be <= %.0f", MaxBudget)}
	}
	if freeTransfers < 0 {
		return BuildContext{}, &Rejection{Reason: ReasonInvalidFreeTransfers, Detail: "free transfers must be >= 0"}
	}
	if freeTransfers > MaxFreeTransfers {
		return BuildContext{}, &Rejection{
			Reason: ReasonInvalidFreeTransfers,
			Detail: fmt.Sprintf("free transfers must be <= %d", MaxFreeTransfers),
		}
	}

	return BuildContext{
		Budget:        player.CostFromFloat(budget),
		HasBudget:     true,
		FreeTransfers: freeTransfers,
		Chips:         normalizeChips(chips),
	}, nil
}

func parseFreeTransfers(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultFreeTransfers
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultFreeTransfers
	}
	return value
}

func normalizeChips(chips []string) []string {
	out := make([]string, 0, len(chips))
	seen := make(map[string]struct{}, len(chips))
	for _, chip := range chips {
		chip = strings.ToLower(strings.TrimSpace(chip))
		if chip == "" {
			continue
		}
		if _, ok := seen[chip]; ok {
			continue
		}
		seen[chip] = struct{}{}
		out = append(out, chip)
	}
	return out
}

// Handoff is the finalized squad plus context passed to the advice stage.
type Handoff struct {
	Squad   Squad
	Context BuildContext
}

// Finalize checks the squad is complete and legal before handing it off.
func Finalize(squad Squad, ctx BuildContext, rules Rules) (Handoff, error) {
	if !IsSquadComplete(squad, rules) {
		return Handoff{}, &Rejection{
			Reason: ReasonIncompleteSquad,
			Detail: fmt.Sprintf("expected %d players, got %d", rules.SquadSize, squad.Size()),
		}
	}
	if err := ValidateSquad(squad.members, rules); err != nil {
		return Handoff{}, err
	}
	if !ctx.HasBudget {
		return Handoff{}, &Rejection{Reason: ReasonInvalidBudget, Detail: "budget is required"}
	}

	ctx.Chips = append([]string(nil), ctx.Chips...)
	return Handoff{Squad: squad, Context: ctx}, nil
}
