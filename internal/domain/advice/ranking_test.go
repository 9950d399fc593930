package advice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func swap(outID, inID int64, gain float64) Suggestion {
	return Suggestion{
		Out:        Player{ID: outID},
		In:         Player{ID: inID},
		PointsGain: gain,
	}
}

func inIDs(items []Suggestion) []int64 {
	out := make([]int64, 0, len(items))
	for _, s := range items {
		out = append(out, s.In.ID)
	}
	return out
}

func TestTopOverall_StableForEqualGain(t *testing.T) {
	t.Parallel()

	suggestions := []Suggestion{
		swap(1, 101, 1.0),
		swap(2, 102, 2.3),
		swap(3, 103, 4.1),
		swap(1, 104, 2.3),
		swap(2, 105, 0.5),
	}

	require.Equal(t, []int64{103, 102, 104}, inIDs(TopOverall(suggestions, 3)))
	require.Equal(t, []int64{101, 102, 103, 104, 105}, inIDs(suggestions), "input must not be reordered")
}

func TestTopOverall_Bounds(t *testing.T) {
	t.Parallel()

	suggestions := []Suggestion{swap(1, 101, 1), swap(1, 102, 2)}
	require.Len(t, TopOverall(suggestions, 10), 2)
	require.Empty(t, TopOverall(suggestions, 0))
	require.Empty(t, TopOverall(nil, 3))
}

func TestSuggestionsFor(t *testing.T) {
	t.Parallel()

	suggestions := []Suggestion{
		swap(1, 101, 0.5),
		swap(2, 102, 3.0),
		swap(1, 103, 1.5),
		swap(1, 104, 1.5),
		swap(1, 105, -0.4),
	}

	require.Equal(t, []int64{103, 104, 101, 105}, inIDs(SuggestionsFor(suggestions, 1)))
	require.Equal(t, []int64{102}, inIDs(SuggestionsFor(suggestions, 2)))
	require.Empty(t, SuggestionsFor(suggestions, 9))
}

func TestGroupByOutgoing(t *testing.T) {
	t.Parallel()

	groups := GroupByOutgoing([]Suggestion{
		swap(7, 101, 1.0),
		swap(3, 102, 2.0),
		swap(7, 103, 2.0),
	})

	require.Len(t, groups, 2)
	require.Equal(t, int64(7), groups[0].Out.ID)
	require.Equal(t, []int64{103, 101}, inIDs(groups[0].Suggestions))
	require.Equal(t, int64(3), groups[1].Out.ID)
}

func TestResult_Informational(t *testing.T) {
	t.Parallel()

	result := Result{Kind: KindMessage, Message: "No upgrades found"}
	require.True(t, result.Informational())
	require.Empty(t, result.TopOverall(DefaultTopN))
}

func TestError_WrapsSentinel(t *testing.T) {
	t.Parallel()

	err := NewHTTPError(500, "squad invalid")
	require.ErrorIs(t, err, ErrAdvice)
	require.Equal(t, "squad invalid", err.Error())

	got, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, ErrorHTTP, got.Kind)
	require.Equal(t, 500, got.Status)
}
