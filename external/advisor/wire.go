package advisor

import (
	stdjson "encoding/json"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-advisor/internal/domain/advice"
)

func encodeRequest(req advice.Request, fieldCase FieldCase) map[string]any {
	squad := req.Squad
	if squad == nil {
		squad = []int64{}
	}
	chips := req.Chips
	if chips == nil {
		chips = []string{}
	}

	key := func(snake, camel string) string {
		if fieldCase == FieldCaseCamel {
			return camel
		}
		return snake
	}

	body := map[string]any{
		"squad":  squad,
		"budget": req.Budget,
		"chips":  chips,
	}
	body[key("free_transfers", "freeTransfers")] = req.FreeTransfers
	if len(req.SquadPlayers) > 0 {
		players := make([]map[string]any, 0, len(req.SquadPlayers))
		for _, p := range req.SquadPlayers {
			players = append(players, map[string]any{
				"id":                                       p.ID,
				key("web_name", "webName"):                 p.WebName,
				key("now_cost", "nowCost"):                 p.NowCost,
				key("predicted_points", "predictedPoints"): p.PredictedPoints,
				key("element_type", "elementType"):         p.ElementType,
				"position":                                 p.Position,
				key("team_name", "teamName"):               p.TeamName,
			})
		}
		body[key("squad_players", "squadPlayers")] = players
	}
	return body
}

// ParseResponse maps a 2xx body onto exactly one accepted shape. When several
// keys are present the first of suggestions, best_transfers, squad_players,
// message wins.
func ParseResponse(raw []byte) (advice.Response, error) {
	var envelope map[string]stdjson.RawMessage
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return advice.Response{}, advice.NewError(advice.ErrorMalformedResponse, "advisory service sent an unreadable response", err)
	}
	if envelope == nil {
		return advice.Response{}, advice.NewError(advice.ErrorUnexpectedShape, "advisory service sent an empty response", nil)
	}

	if body, ok := lookup(envelope, "suggestions"); ok {
		var items []map[string]any
		if err := sonic.Unmarshal(body, &items); err != nil {
			return advice.Response{}, advice.NewError(advice.ErrorMalformedResponse, "suggestions list is malformed", err)
		}
		suggestions := make([]advice.Suggestion, 0, len(items))
		for i, item := range items {
			s, err := decodeSuggestion(item)
			if err != nil {
				return advice.Response{}, advice.NewError(advice.ErrorMalformedResponse, fmt.Sprintf("suggestion %d is malformed", i), err)
			}
			suggestions = append(suggestions, s)
		}
		return advice.Response{Kind: advice.KindSuggestions, Suggestions: suggestions}, nil
	}

	for _, variant := range []struct {
		kind advice.ResponseKind
		keys []string
	}{
		{advice.KindBestTransfers, []string{"best_transfers", "bestTransfers"}},
		{advice.KindSquadPlayers, []string{"squad_players", "squadPlayers"}},
	} {
		body, ok := lookup(envelope, variant.keys...)
		if !ok {
			continue
		}
		players, err := decodePlayers(body)
		if err != nil {
			return advice.Response{}, advice.NewError(advice.ErrorMalformedResponse, fmt.Sprintf("%s list is malformed", variant.kind), err)
		}
		return advice.Response{Kind: variant.kind, Players: players}, nil
	}

	if body, ok := lookup(envelope, "message"); ok {
		var message string
		if err := sonic.Unmarshal(body, &message); err != nil {
			return advice.Response{}, advice.NewError(advice.ErrorMalformedResponse, "message is not a string", err)
		}
		return advice.Response{Kind: advice.KindMessage, Message: message}, nil
	}

	return advice.Response{}, advice.NewError(advice.ErrorUnexpectedShape, "advisory service sent an unexpected response", nil)
}

func errorMessage(raw []byte) string {
	var body map[string]any
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message", "detail"} {
		if text := strings.TrimSpace(getString(body, key)); text != "" {
			return text
		}
	}
	return ""
}

func lookup(envelope map[string]stdjson.RawMessage, keys ...string) ([]byte, bool) {
	for _, key := range keys {
		if body, ok := envelope[key]; ok {
			return body, true
		}
	}
	return nil, false
}

func decodePlayers(body []byte) ([]advice.Player, error) {
	var items []map[string]any
	if err := sonic.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	out := make([]advice.Player, 0, len(items))
	for _, item := range items {
		out = append(out, decodePlayer(item))
	}
	return out, nil
}

func decodePlayer(src map[string]any) advice.Player {
	return advice.Player{
		ID:              getInt64(src, "id"),
		WebName:         getString(src, "web_name", "webName", "name"),
		NowCost:         getFloat(src, "now_cost", "nowCost"),
		PredictedPoints: getFloat(src, "predicted_points", "predictedPoints"),
		ElementType:     int(getInt64(src, "element_type", "elementType")),
		Position:        getString(src, "position"),
		TeamName:        getString(src, "team_name", "teamName"),
	}
}

func decodeSuggestion(src map[string]any) (advice.Suggestion, error) {
	out, okOut := getMap(src, "out", "player_out", "playerOut")
	in, okIn := getMap(src, "in", "player_in", "playerIn")
	if !okOut || !okIn {
		return advice.Suggestion{}, fmt.Errorf("suggestion requires out and in players")
	}

	s := advice.Suggestion{
		Out:        decodePlayer(out),
		In:         decodePlayer(in),
		PointsGain: getFloat(src, "points_gain", "pointsGain"),
	}
	if _, ok := first(src, "cost_change", "costChange"); ok {
		s.CostChange = getFloat(src, "cost_change", "costChange")
	} else {
		s.CostChange = (s.In.NowCost - s.Out.NowCost) / 10
	}
	return s, nil
}

func first(src map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := src[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func getMap(src map[string]any, keys ...string) (map[string]any, bool) {
	v, ok := first(src, keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func getString(src map[string]any, keys ...string) string {
	v, ok := first(src, keys...)
	if !ok {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

func getFloat(src map[string]any, keys ...string) float64 {
	v, ok := first(src, keys...)
	if !ok {
		return 0
	}
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func getInt64(src map[string]any, keys ...string) int64 {
	return int64(getFloat(src, keys...))
}
