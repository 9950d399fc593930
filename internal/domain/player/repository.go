package player

import "context"

// Source describes where the candidate pool is fetched from.
type Source interface {
	FetchCandidates(ctx context.Context) ([]Candidate, error)
}
