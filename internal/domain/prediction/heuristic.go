package prediction

import "math"

// HeuristicScorer estimates expected points over the next three gameweeks from season stats.
type HeuristicScorer struct{}

func NewHeuristicScorer() HeuristicScorer {
	return HeuristicScorer{}
}

func (HeuristicScorer) Score(features Features) (float64, error) {
	if err := features.Validate(); err != nil {
		return 0, err
	}

	v := features.Values
	if features.Model == ModelDefensive {
		return defensiveExpectedPoints(v[1], v[2], v[3], v[4], v[5]), nil
	}
	return attackingExpectedPoints(v[1], v[2], v[3], v[4], v[5], v[6]), nil
}

func defensiveExpectedPoints(form, fixtureDifficulty, cleanSheets, saves, minutes float64) float64 {
	games := math.Max(1, minutes/90)
	savesPerGame := saves / games
	cleanSheetsPerGame := cleanSheets / games

	base := form * 3
	savesPoints := savesPerGame * 3
	cleanSheetPoints := cleanSheetsPerGame * 3 * 4.5

	modifier := math.Max(0.8, 1.2-(fixtureDifficulty-3)*0.1)
	points := (base + savesPoints + cleanSheetPoints) * modifier * 0.7
	points *= math.Min(1, minutes/(3*90))

	return round2(points)
}

func attackingExpectedPoints(form, fixtureDifficulty, xG, xA, threat, minutes float64) float64 {
	games := math.Max(1, minutes/90)
	xGPerGame := xG / games
	xAPerGame := xA / games

	base := form * 2.4
	goalPoints := xGPerGame * 3 * 4
	assistPoints := xAPerGame * 3 * 3
	threatPoints := threat * 0.01

	modifier := math.Max(0.7, 1.3-(fixtureDifficulty-3)*0.15)
	points := (base + goalPoints + assistPoints + threatPoints) * modifier * 0.5
	points *= math.Min(1, minutes/(3*90))

	return round2(points)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
