package advice

import "sort"

// DefaultTopN is the shortlist size of the results screen.
const DefaultTopN = 3

// SuggestionsFor returns swaps for one outgoing player, best points gain first.
// Equal gains keep their response order.
func SuggestionsFor(suggestions []Suggestion, playerID int64) []Suggestion {
	out := make([]Suggestion, 0, 4)
	for _, s := range suggestions {
		if s.Out.ID == playerID {
			out = append(out, s)
		}
	}
	sortByGain(out)
	return out
}

// TopOverall returns the n best swaps across all outgoing players.
func TopOverall(suggestions []Suggestion, n int) []Suggestion {
	if n <= 0 {
		return []Suggestion{}
	}
	out := append([]Suggestion(nil), suggestions...)
	sortByGain(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Group is the suggestions for one outgoing player.
type Group struct {
	Out         Player
	Suggestions []Suggestion
}

// GroupByOutgoing groups swaps per outgoing player in order of first appearance.
func GroupByOutgoing(suggestions []Suggestion) []Group {
	index := make(map[int64]int)
	groups := make([]Group, 0)
	for _, s := range suggestions {
		i, ok := index[s.Out.ID]
		if !ok {
			i = len(groups)
			index[s.Out.ID] = i
			groups = append(groups, Group{Out: s.Out})
		}
		groups[i].Suggestions = append(groups[i].Suggestions, s)
	}
	for i := range groups {
		sortByGain(groups[i].Suggestions)
	}
	return groups
}

func sortByGain(items []Suggestion) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PointsGain > items[j].PointsGain
	})
}
