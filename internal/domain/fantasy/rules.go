package fantasy

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
)

var (
	ErrDuplicateCandidate    = errors.New("duplicate candidate in squad")
	ErrPositionQuotaExceeded = errors.New("position quota exceeded")
	ErrClubQuotaExceeded     = errors.New("max players from same club exceeded")
	ErrIncompleteSquad       = errors.New("squad is incomplete")
	ErrInvalidBudget         = errors.New("invalid budget")
	ErrInvalidFreeTransfers  = errors.New("invalid free transfers")
	ErrUnknownPlayerPosition = errors.New("unknown player position")
	ErrInvalidRules          = errors.New("invalid squad rules")
)

// RejectionReason tags why a builder operation was refused.
type RejectionReason string

const (
	ReasonDuplicateCandidate    RejectionReason = "DuplicateCandidate"
	ReasonPositionQuotaExceeded RejectionReason = "PositionQuotaExceeded"
	ReasonClubQuotaExceeded     RejectionReason = "ClubQuotaExceeded"
	ReasonIncompleteSquad       RejectionReason = "IncompleteSquad"
	ReasonInvalidBudget         RejectionReason = "InvalidBudget"
	ReasonInvalidFreeTransfers  RejectionReason = "InvalidFreeTransfers"
)

var reasonSentinels = map[RejectionReason]error{
	ReasonDuplicateCandidate:    ErrDuplicateCandidate,
	ReasonPositionQuotaExceeded: ErrPositionQuotaExceeded,
	ReasonClubQuotaExceeded:     ErrClubQuotaExceeded,
	ReasonIncompleteSquad:       ErrIncompleteSquad,
	ReasonInvalidBudget:         ErrInvalidBudget,
	ReasonInvalidFreeTransfers:  ErrInvalidFreeTransfers,
}

// Rejection is a recoverable validation failure. The squad is never mutated when one is returned.
type Rejection struct {
	Reason   RejectionReason
	Detail   string
	Position player.Position
	ClubID   int64
}

func (r *Rejection) Error() string {
	base := reasonSentinels[r.Reason]
	if base == nil {
		return r.Detail
	}
	if r.Detail == "" {
		return base.Error()
	}
	return base.Error() + ": " + r.Detail
}

func (r *Rejection) Unwrap() error {
	return reasonSentinels[r.Reason]
}

// AsRejection extracts the rejection carried by err, if any.
func AsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// Rules stores squad roster validation parameters.
type Rules struct {
	SquadSize  int
	MaxPerClub int
	Quotas     map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:  15,
		MaxPerClub: 3,
		Quotas: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
	}
}

func (r Rules) Quota(pos player.Position) int {
	return r.Quotas[pos]
}

func (r Rules) Validate() error {
	if r.MaxPerClub < 1 {
		return fmt.Errorf("%w: max per club must be >= 1", ErrInvalidRules)
	}

	total := 0
	for _, pos := range player.OrderedPositions {
		quota, ok := r.Quotas[pos]
		if !ok || quota < 1 {
			return fmt.Errorf("%w: quota for %s must be >= 1", ErrInvalidRules, pos)
		}
		total += quota
	}
	if total != r.SquadSize {
		return fmt.Errorf("%w: quotas sum to %d, squad size is %d", ErrInvalidRules, total, r.SquadSize)
	}

	return nil
}

// AddCandidate returns squad with candidate appended, or exactly one Rejection.
// Rules are checked in a fixed order: duplicate id, position quota, club quota.
func AddCandidate(squad Squad, candidate player.Candidate, rules Rules) (Squad, error) {
	if squad.Contains(candidate.ID) {
		return squad, &Rejection{
			Reason: ReasonDuplicateCandidate,
			Detail: fmt.Sprintf("candidate=%d", candidate.ID),
		}
	}

	if _, ok := player.AllPositions[candidate.Position]; !ok {
		return squad, fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, candidate.Position)
	}

	quota := rules.Quota(candidate.Position)
	if squad.CountByPosition(candidate.Position) >= quota {
		return squad, &Rejection{
			Reason:   ReasonPositionQuotaExceeded,
			Detail:   fmt.Sprintf("pos=%s max=%d", candidate.Position, quota),
			Position: candidate.Position,
		}
	}

	if squad.CountByClub(candidate.ClubID) >= rules.MaxPerClub {
		return squad, &Rejection{
			Reason: ReasonClubQuotaExceeded,
			Detail: fmt.Sprintf("club=%s max=%d", clubLabel(candidate), rules.MaxPerClub),
			ClubID: candidate.ClubID,
		}
	}

	members := make([]player.Candidate, 0, len(squad.members)+1)
	members = append(members, squad.members...)
	members = append(members, candidate)

	return Squad{members: members}, nil
}

// RemoveCandidate returns squad without the candidate. Absent ids are a no-op.
func RemoveCandidate(squad Squad, candidateID int64) Squad {
	if !squad.Contains(candidateID) {
		return squad
	}

	members := make([]player.Candidate, 0, len(squad.members))
	for _, member := range squad.members {
		if member.ID == candidateID {
			continue
		}
		members = append(members, member)
	}

	return Squad{members: members}
}

func IsPositionComplete(squad Squad, pos player.Position, rules Rules) bool {
	quota, ok := rules.Quotas[pos]
	if !ok {
		return false
	}
	return squad.CountByPosition(pos) == quota
}

func IsSquadComplete(squad Squad, rules Rules) bool {
	for _, pos := range player.OrderedPositions {
		if !IsPositionComplete(squad, pos, rules) {
			return false
		}
	}
	return true
}

func TotalValue(squad Squad) player.Cost {
	var total player.Cost
	for _, member := range squad.members {
		total += member.Cost
	}
	return total
}

// ValidateSquad checks every squad invariant at once, for squads not built through AddCandidate.
func ValidateSquad(members []player.Candidate, rules Rules) error {
	if len(members) > rules.SquadSize {
		return fmt.Errorf("%w: expected at most %d, got %d", ErrPositionQuotaExceeded, rules.SquadSize, len(members))
	}

	clubCounter := make(map[int64]int)
	positionCounter := make(map[player.Position]int)
	seen := make(map[int64]struct{}, len(members))

	for _, member := range members {
		if _, exists := seen[member.ID]; exists {
			return &Rejection{Reason: ReasonDuplicateCandidate, Detail: fmt.Sprintf("candidate=%d", member.ID)}
		}
		seen[member.ID] = struct{}{}

		if _, ok := player.AllPositions[member.Position]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, member.Position)
		}

		positionCounter[member.Position]++
		if positionCounter[member.Position] > rules.Quota(member.Position) {
			return &Rejection{
				Reason:   ReasonPositionQuotaExceeded,
				Detail:   fmt.Sprintf("pos=%s max=%d", member.Position, rules.Quota(member.Position)),
				Position: member.Position,
			}
		}

		clubCounter[member.ClubID]++
		if clubCounter[member.ClubID] > rules.MaxPerClub {
			return &Rejection{
				Reason: ReasonClubQuotaExceeded,
				Detail: fmt.Sprintf("club=%s max=%d", clubLabel(member), rules.MaxPerClub),
				ClubID: member.ClubID,
			}
		}
	}

	return nil
}

func clubLabel(c player.Candidate) string {
	if c.ClubName != "" {
		return c.ClubName
	}
	return fmt.Sprintf("%d", c.ClubID)
}
