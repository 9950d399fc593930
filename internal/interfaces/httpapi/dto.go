package httpapi

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-advisor/internal/domain/advice"
	"github.com/riskibarqy/fpl-advisor/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
	"github.com/riskibarqy/fpl-advisor/internal/usecase"
)

type mountBuilderRequest struct {
	ReuseCachedPool bool `json:"reuse_cached_pool"`
}

type addPickRequest struct {
	CandidateID int64 `json:"candidate_id" validate:"required,gt=0"`
}

type jumpToPositionRequest struct {
	Position string `json:"position" validate:"required,oneof=GK DEF MID FWD gk def mid fwd"`
}

type handoffRequest struct {
	Budget        textOrNumber `json:"budget"`
	FreeTransfers textOrNumber `json:"free_transfers"`
	Chips         []string     `json:"chips" validate:"omitempty,max=8,dive,required,max=32"`
}

// textOrNumber accepts a JSON string or number and keeps the raw text, so the
// budget and free-transfer fields parse exactly like typed form input.
type textOrNumber string

func (v *textOrNumber) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = ""
		return nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*v = textOrNumber(text)
		return nil
	}
	if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
		return fmt.Errorf("expected string or number, got %s", trimmed)
	}
	*v = textOrNumber(trimmed)
	return nil
}

type candidateDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Cost      float64 `json:"cost"`
	CostLabel string  `json:"cost_label"`
	Position  string  `json:"position"`
	ClubID    int64   `json:"club_id"`
	ClubName  string  `json:"club_name,omitempty"`
}

type stageDTO struct {
	Kind     string `json:"kind"`
	Position string `json:"position,omitempty"`
}

type builderSessionDTO struct {
	ID               string         `json:"id"`
	Stage            stageDTO       `json:"stage"`
	Squad            []candidateDTO `json:"squad"`
	TotalValue       float64        `json:"total_value"`
	TotalValueLabel  string         `json:"total_value_label"`
	CountsByPosition map[string]int `json:"counts_by_position"`
	Quotas           map[string]int `json:"quotas"`
	PositionFull     bool           `json:"position_full"`
	SquadComplete    bool           `json:"squad_complete"`
	PoolSize         int            `json:"pool_size"`
	PoolError        string         `json:"pool_error,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type buildContextDTO struct {
	Budget        float64  `json:"budget"`
	FreeTransfers int      `json:"free_transfers"`
	Chips         []string `json:"chips"`
}

type advicePlayerDTO struct {
	ID              int64   `json:"id"`
	WebName         string  `json:"web_name"`
	NowCost         float64 `json:"now_cost"`
	PredictedPoints float64 `json:"predicted_points"`
	ElementType     int     `json:"element_type,omitempty"`
	Position        string  `json:"position,omitempty"`
	TeamName        string  `json:"team_name,omitempty"`
}

type suggestionDTO struct {
	Out        advicePlayerDTO `json:"out"`
	In         advicePlayerDTO `json:"in"`
	PointsGain float64         `json:"points_gain"`
	CostChange float64         `json:"cost_change"`
}

type suggestionGroupDTO struct {
	Out         advicePlayerDTO `json:"out"`
	Suggestions []suggestionDTO `json:"suggestions"`
}

type adviceResultDTO struct {
	Kind        string               `json:"kind,omitempty"`
	Message     string               `json:"message,omitempty"`
	Top         []suggestionDTO      `json:"top"`
	Groups      []suggestionGroupDTO `json:"groups"`
	Suggestions []suggestionDTO      `json:"suggestions"`
	Players     []advicePlayerDTO    `json:"players"`
}

type adviceFailureDTO struct {
	Kind    string `json:"kind"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

type adviceSessionDTO struct {
	ID         string            `json:"id"`
	Squad      []candidateDTO    `json:"squad"`
	Context    buildContextDTO   `json:"context"`
	State      string            `json:"state"`
	Generation uint64            `json:"generation"`
	Stale      bool              `json:"stale"`
	Result     *adviceResultDTO  `json:"result,omitempty"`
	Failure    *adviceFailureDTO `json:"failure,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func candidateToDTO(c player.Candidate) candidateDTO {
	return candidateDTO{
		ID:        c.ID,
		Name:      c.Name,
		Cost:      c.Cost.Float(),
		CostLabel: c.Cost.String(),
		Position:  string(c.Position),
		ClubID:    c.ClubID,
		ClubName:  c.ClubName,
	}
}

func candidatesToDTO(items []player.Candidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(items))
	for _, item := range items {
		out = append(out, candidateToDTO(item))
	}
	return out
}

func stageToDTO(stage fantasy.Stage) stageDTO {
	return stageDTO{
		Kind:     string(stage.Kind),
		Position: string(stage.Position),
	}
}

func positionCounts(in map[player.Position]int) map[string]int {
	out := make(map[string]int, len(in))
	for pos, n := range in {
		out[string(pos)] = n
	}
	return out
}

func builderToDTO(snapshot usecase.BuilderSnapshot) builderSessionDTO {
	return builderSessionDTO{
		ID:               snapshot.ID,
		Stage:            stageToDTO(snapshot.Stage),
		Squad:            candidatesToDTO(snapshot.Squad),
		TotalValue:       snapshot.TotalValue.Float(),
		TotalValueLabel:  snapshot.TotalValue.String(),
		CountsByPosition: positionCounts(snapshot.CountsByPos),
		Quotas:           positionCounts(snapshot.Quotas),
		PositionFull:     snapshot.PositionFull,
		SquadComplete:    snapshot.SquadComplete,
		PoolSize:         snapshot.PoolSize,
		PoolError:        snapshot.PoolError,
		CreatedAt:        snapshot.CreatedAt,
		UpdatedAt:        snapshot.UpdatedAt,
	}
}

// advicePlayerToDTO converts the wire cost (tenths) to units.
func advicePlayerToDTO(p advice.Player) advicePlayerDTO {
	return advicePlayerDTO{
		ID:              p.ID,
		WebName:         p.WebName,
		NowCost:         p.NowCost / 10,
		PredictedPoints: p.PredictedPoints,
		ElementType:     p.ElementType,
		Position:        p.Position,
		TeamName:        p.TeamName,
	}
}

func suggestionsToDTO(items []advice.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(items))
	for _, s := range items {
		out = append(out, suggestionDTO{
			Out:        advicePlayerToDTO(s.Out),
			In:         advicePlayerToDTO(s.In),
			PointsGain: s.PointsGain,
			CostChange: s.CostChange,
		})
	}
	return out
}

func adviceResultToDTO(result advice.Result) *adviceResultDTO {
	groups := advice.GroupByOutgoing(result.Suggestions)
	groupItems := make([]suggestionGroupDTO, 0, len(groups))
	for _, g := range groups {
		groupItems = append(groupItems, suggestionGroupDTO{
			Out:         advicePlayerToDTO(g.Out),
			Suggestions: suggestionsToDTO(g.Suggestions),
		})
	}

	players := make([]advicePlayerDTO, 0, len(result.Players))
	for _, p := range result.Players {
		players = append(players, advicePlayerToDTO(p))
	}

	return &adviceResultDTO{
		Kind:        string(result.Kind),
		Message:     result.Message,
		Top:         suggestionsToDTO(result.TopOverall(advice.DefaultTopN)),
		Groups:      groupItems,
		Suggestions: suggestionsToDTO(result.Suggestions),
		Players:     players,
	}
}

func adviceToDTO(snapshot usecase.ResultsSnapshot) adviceSessionDTO {
	chips := snapshot.Context.Chips
	if chips == nil {
		chips = []string{}
	}

	out := adviceSessionDTO{
		ID:    snapshot.ID,
		Squad: candidatesToDTO(snapshot.Squad),
		Context: buildContextDTO{
			Budget:        snapshot.Context.Budget.Float(),
			FreeTransfers: snapshot.Context.FreeTransfers,
			Chips:         chips,
		},
		State:      string(snapshot.State),
		Generation: snapshot.Generation,
		Stale:      snapshot.Stale,
		CreatedAt:  snapshot.CreatedAt,
		UpdatedAt:  snapshot.UpdatedAt,
	}
	if snapshot.State == usecase.RequestReady {
		out.Result = adviceResultToDTO(snapshot.Result)
	}
	if snapshot.Failure != nil {
		out.Failure = &adviceFailureDTO{
			Kind:    string(snapshot.Failure.Kind),
			Status:  snapshot.Failure.Status,
			Message: snapshot.Failure.Message,
		}
	}
	return out
}
