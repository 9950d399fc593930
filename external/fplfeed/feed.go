package fplfeed

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
)

type bootstrapEnvelope struct {
	Teams    []teamItem    `json:"teams"`
	Elements []elementItem `json:"elements"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// elementItem mirrors one bootstrap-static element. Several numeric figures
// arrive as decimal strings.
type elementItem struct {
	ID              int64        `json:"id"`
	WebName         string       `json:"web_name"`
	NowCost         int64        `json:"now_cost"`
	ElementType     int          `json:"element_type"`
	Team            int64        `json:"team"`
	TotalPoints     int          `json:"total_points"`
	Minutes         int          `json:"minutes"`
	CleanSheets     int          `json:"clean_sheets"`
	Saves           int          `json:"saves"`
	Form            numericField `json:"form"`
	Threat          numericField `json:"threat"`
	ExpectedGoals   numericField `json:"expected_goals"`
	ExpectedAssists numericField `json:"expected_assists"`
}

type fixtureItem struct {
	ID              int64  `json:"id"`
	Event           *int   `json:"event"`
	KickoffTime     string `json:"kickoff_time"`
	Finished        bool   `json:"finished"`
	TeamH           int64  `json:"team_h"`
	TeamA           int64  `json:"team_a"`
	TeamHDifficulty int    `json:"team_h_difficulty"`
	TeamADifficulty int    `json:"team_a_difficulty"`
}

// numericField accepts either a JSON number or a quoted decimal.
type numericField float64

func (n *numericField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	text := strings.Trim(string(data), `"`)
	if strings.TrimSpace(text) == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return err
	}
	*n = numericField(v)
	return nil
}

// upcomingDifficulty averages each team's next three unfinished fixtures.
// Fixtures without a gameweek are unscheduled and ignored.
func upcomingDifficulty(fixtures []fixtureItem) map[int64]float64 {
	upcoming := make([]fixtureItem, 0, len(fixtures))
	for _, item := range fixtures {
		if item.Finished || item.Event == nil {
			continue
		}
		upcoming = append(upcoming, item)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if *upcoming[i].Event != *upcoming[j].Event {
			return *upcoming[i].Event < *upcoming[j].Event
		}
		return upcoming[i].KickoffTime < upcoming[j].KickoffTime
	})

	perTeam := make(map[int64][]int, 20)
	for _, item := range upcoming {
		if len(perTeam[item.TeamH]) < upcomingFixtureWindow {
			perTeam[item.TeamH] = append(perTeam[item.TeamH], item.TeamHDifficulty)
		}
		if len(perTeam[item.TeamA]) < upcomingFixtureWindow {
			perTeam[item.TeamA] = append(perTeam[item.TeamA], item.TeamADifficulty)
		}
	}

	out := make(map[int64]float64, len(perTeam))
	for teamID, values := range perTeam {
		if len(values) == 0 {
			continue
		}
		sum := 0
		for _, v := range values {
			sum += v
		}
		out[teamID] = float64(sum) / float64(len(values))
	}
	return out
}

func buildCandidates(bootstrap bootstrapEnvelope, difficulty map[int64]float64) []player.Candidate {
	teamNames := make(map[int64]string, len(bootstrap.Teams))
	for _, team := range bootstrap.Teams {
		teamNames[team.ID] = strings.TrimSpace(team.Name)
	}

	out := make([]player.Candidate, 0, len(bootstrap.Elements))
	for _, item := range bootstrap.Elements {
		pos, err := player.PositionFromElementType(item.ElementType)
		if err != nil {
			continue
		}

		fixtureDifficulty, ok := difficulty[item.Team]
		if !ok {
			fixtureDifficulty = defaultDifficulty
		}

		candidate := player.Candidate{
			ID:       item.ID,
			Name:     strings.TrimSpace(item.WebName),
			Cost:     player.Cost(item.NowCost),
			Position: pos,
			ClubID:   item.Team,
			ClubName: teamNames[item.Team],
			Stats: player.Stats{
				TotalPoints:       item.TotalPoints,
				Form:              float64(item.Form),
				Threat:            float64(item.Threat),
				ExpectedGoals:     float64(item.ExpectedGoals),
				ExpectedAssists:   float64(item.ExpectedAssists),
				CleanSheets:       item.CleanSheets,
				Saves:             item.Saves,
				Minutes:           item.Minutes,
				FixtureDifficulty: fixtureDifficulty,
			},
		}
		if candidate.Validate() != nil {
			continue
		}
		out = append(out, candidate)
	}
	return out
}
