package advisor

import (
	"testing"

	"github.com/riskibarqy/fpl-advisor/internal/domain/advice"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantKind advice.ResponseKind
		wantErr  advice.ErrorKind
	}{
		{name: "message", body: `{"message":"No upgrades found"}`, wantKind: advice.KindMessage},
		{name: "best transfers", body: `{"best_transfers":[]}`, wantKind: advice.KindBestTransfers},
		{name: "camel best transfers", body: `{"bestTransfers":[{"id":1}]}`, wantKind: advice.KindBestTransfers},
		{name: "squad players", body: `{"squad_players":[{"id":1}]}`, wantKind: advice.KindSquadPlayers},
		{name: "suggestions win over message", body: `{"message":"ok","suggestions":[]}`, wantKind: advice.KindSuggestions},
		{name: "not json", body: `<html>`, wantErr: advice.ErrorMalformedResponse},
		{name: "array body", body: `[1,2]`, wantErr: advice.ErrorMalformedResponse},
		{name: "unknown shape", body: `{"transfers":[]}`, wantErr: advice.ErrorUnexpectedShape},
		{name: "null body", body: `null`, wantErr: advice.ErrorUnexpectedShape},
		{name: "suggestions not a list", body: `{"suggestions":"soon"}`, wantErr: advice.ErrorMalformedResponse},
		{name: "suggestion missing players", body: `{"suggestions":[{"points_gain":1}]}`, wantErr: advice.ErrorMalformedResponse},
		{name: "message not string", body: `{"message":42}`, wantErr: advice.ErrorMalformedResponse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseResponse([]byte(tt.body))
			if tt.wantErr != "" {
				adviceErr, ok := advice.AsError(err)
				require.True(t, ok, "expected advice error, got %v", err)
				require.Equal(t, tt.wantErr, adviceErr.Kind)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

func TestParseResponse_SuggestionsKeepOrderAndDeriveCostChange(t *testing.T) {
	t.Parallel()

	body := `{"suggestions":[
		{"out":{"id":1,"web_name":"A","now_cost":50},"in":{"id":9,"web_name":"X","now_cost":65},"points_gain":2.3},
		{"player_out":{"id":2,"web_name":"B","now_cost":60},"player_in":{"id":8,"web_name":"Y","now_cost":55},"pointsGain":2.3,"costChange":-0.5}
	]}`

	got, err := ParseResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, got.Suggestions, 2)

	first := got.Suggestions[0]
	require.Equal(t, int64(1), first.Out.ID)
	require.Equal(t, int64(9), first.In.ID)
	require.InDelta(t, 1.5, first.CostChange, 1e-9)

	second := got.Suggestions[1]
	require.Equal(t, int64(2), second.Out.ID)
	require.Equal(t, -0.5, second.CostChange)
	require.Equal(t, 2.3, second.PointsGain)
}

func TestEncodeRequest_IncludesSquadPlayers(t *testing.T) {
	t.Parallel()

	body := encodeRequest(advice.Request{
		Squad:        []int64{1},
		SquadPlayers: []advice.Player{{ID: 1, WebName: "Raya", NowCost: 55}},
	}, FieldCaseSnake)

	players, ok := body["squad_players"].([]map[string]any)
	require.True(t, ok)
	require.Equal(t, "Raya", players[0]["web_name"])
	require.Equal(t, 0, body["free_transfers"])
	require.NotContains(t, body, "squadPlayers")
}
