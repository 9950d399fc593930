package prediction

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
)

var ErrFeatureLength = errors.New("unexpected feature vector length")

// Model selects which feature layout a vector follows.
type Model string

const (
	ModelDefensive Model = "defensive"
	ModelAttacking Model = "attacking"
)

const (
	defensiveFeatureCount = 6
	attackingFeatureCount = 7
)

// Features is a fixed-length numeric vector for one player.
//
// defensive: now_cost, form, next_3_gw_fixtures, clean_sheets, saves, minutes
// attacking: now_cost, form, next_3_gw_fixtures, expected_goals, expected_assists, threat, minutes
type Features struct {
	Model  Model
	Values []float64
}

func (f Features) Validate() error {
	want := 0
	switch f.Model {
	case ModelDefensive:
		want = defensiveFeatureCount
	case ModelAttacking:
		want = attackingFeatureCount
	default:
		return fmt.Errorf("unknown prediction model %q", f.Model)
	}
	if len(f.Values) != want {
		return fmt.Errorf("%w: model=%s want=%d got=%d", ErrFeatureLength, f.Model, want, len(f.Values))
	}
	return nil
}

// Scorer predicts points for a single player. Implementations are opaque.
type Scorer interface {
	Score(features Features) (float64, error)
}

// FeaturesFor builds the vector for a candidate, picking the model from its position.
func FeaturesFor(c player.Candidate) Features {
	s := c.Stats
	fixture := s.FixtureDifficulty
	if fixture <= 0 {
		fixture = 3
	}

	if c.Position.Defensive() {
		return Features{
			Model: ModelDefensive,
			Values: []float64{
				c.Cost.Float(),
				s.Form,
				fixture,
				float64(s.CleanSheets),
				float64(s.Saves),
				float64(s.Minutes),
			},
		}
	}

	return Features{
		Model: ModelAttacking,
		Values: []float64{
			c.Cost.Float(),
			s.Form,
			fixture,
			s.ExpectedGoals,
			s.ExpectedAssists,
			s.Threat,
			float64(s.Minutes),
		},
	}
}
