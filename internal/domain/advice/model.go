package advice

import (
	"errors"
	"fmt"
)

// Player is a player object as returned by the advisory service.
type Player struct {
	ID              int64
	WebName         string
	NowCost         float64
	PredictedPoints float64
	ElementType     int
	Position        string
	TeamName        string
}

// Suggestion is a proposed single-player swap. CostChange is incoming minus outgoing cost.
type Suggestion struct {
	Out        Player
	In         Player
	PointsGain float64
	CostChange float64
}

// ResponseKind tags which accepted shape the advisory service replied with.
type ResponseKind string

const (
	KindBestTransfers ResponseKind = "best_transfers"
	KindSuggestions   ResponseKind = "suggestions"
	KindSquadPlayers  ResponseKind = "squad_players"
	KindMessage       ResponseKind = "message"
)

// Response is the parsed advisory reply. Exactly one payload field is meaningful, chosen by Kind.
type Response struct {
	Kind        ResponseKind
	Players     []Player
	Suggestions []Suggestion
	Message     string
}

// Request is the payload sent to the advisory service.
type Request struct {
	Squad         []int64
	Budget        float64
	FreeTransfers int
	Chips         []string
	// SquadPlayers carries the enriched squad from a preceding analysis call.
	SquadPlayers []Player
}

// Result is the normalized outcome shown on the results screen.
type Result struct {
	Kind        ResponseKind
	Suggestions []Suggestion
	Players     []Player
	Message     string
}

// Informational reports a "no suggestions" reply carrying only a message.
func (r Result) Informational() bool {
	return r.Kind == KindMessage
}

func (r Result) SuggestionsFor(playerID int64) []Suggestion {
	return SuggestionsFor(r.Suggestions, playerID)
}

func (r Result) TopOverall(n int) []Suggestion {
	return TopOverall(r.Suggestions, n)
}

// ErrorKind classifies advice failures.
type ErrorKind string

const (
	ErrorMissingParameters ErrorKind = "MissingParameters"
	ErrorHTTP              ErrorKind = "HttpError"
	ErrorMalformedResponse ErrorKind = "MalformedResponse"
	ErrorUnexpectedShape   ErrorKind = "UnexpectedShape"
	ErrorTransport         ErrorKind = "Transport"
)

var ErrAdvice = errors.New("advice request failed")

// Error is the only failure type that leaves the orchestrator. Message is user facing.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrAdvice}
	}
	return []error{ErrAdvice, e.Cause}
}

func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NewHTTPError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("advisory service returned status %d", status)
	}
	return &Error{Kind: ErrorHTTP, Status: status, Message: message}
}

// AsError extracts the advice error carried by err, if any.
func AsError(err error) (*Error, bool) {
	var adviceErr *Error
	if errors.As(err, &adviceErr) {
		return adviceErr, true
	}
	return nil, false
}
