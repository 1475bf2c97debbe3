// internal/game/types.go
//
// Core type definitions for the Bulls and Cows engine.
// Defines:
//   - Code: a 4-digit code with pairwise distinct digits (secret, guess, candidate).
//   - Feedback: bulls/cows result of scoring a guess.
//   - Attempt: one history entry.
//   - State: session lifecycle (awaiting_guess → won).
//   - TurnOutcome / SessionView: the data contract handed to presentation layers.

package game

// CodeLen is the number of digits in every code.
const CodeLen = 4

// Code is an ordered sequence of CodeLen distinct digit values (0–9).
// Values are digits, not ASCII characters.
type Code [CodeLen]byte

// String renders the code as its ASCII digits, e.g. "1234".
func (c Code) String() string {
	var b [CodeLen]byte
	for i, d := range c {
		b[i] = '0' + d
	}
	return string(b[:])
}

// mask returns a bitset of the digits used by c.
func (c Code) mask() uint16 {
	var m uint16
	for _, d := range c {
		m |= 1 << d
	}
	return m
}

// Feedback is the result of scoring a guess against a secret.
//   - Bulls: right digit in the right position.
//   - Cows:  right digit in the wrong position.
//
// Bulls+Cows never exceeds CodeLen.
type Feedback struct {
	Bulls int `json:"bulls"`
	Cows  int `json:"cows"`
}

// Solved reports whether every digit is a bull.
func (f Feedback) Solved() bool { return f.Bulls == CodeLen }

// Attempt is a single history entry.
type Attempt struct {
	Guess    Code     `json:"-"`
	Feedback Feedback `json:"feedback"`
}

// State is the coarse session state.
type State string

const (
	StateAwaitingGuess State = "awaiting_guess"
	StateWon           State = "won"
)

// TurnOutcome is returned for every accepted guess.
type TurnOutcome struct {
	Guess                string  `json:"guess"`
	Bulls                int     `json:"bulls"`
	Cows                 int     `json:"cows"`
	Attempts             int     `json:"attempts"`
	PossibilitiesCount   int     `json:"possibilitiesCount"`
	ProbabilityOfFinding float64 `json:"probabilityOfFinding"`
	Entropy              float64 `json:"entropy"`
	EntropyDelta         float64 `json:"entropyDelta"`    // previous turn's entropy minus this turn's
	InformationGain      float64 `json:"informationGain"` // baseline entropy minus this turn's
	Won                  bool    `json:"won"`
}

// HistoryEntry is the wire form of an Attempt.
type HistoryEntry struct {
	Guess string `json:"guess"`
	Bulls int    `json:"bulls"`
	Cows  int    `json:"cows"`
}

// SessionView is a read-only snapshot of a session.
// Secret stays empty until the game is won.
type SessionView struct {
	ID                 string         `json:"gameId"`
	State              State          `json:"state"`
	Attempts           int            `json:"attempts"`
	History            []HistoryEntry `json:"history"`
	PossibilitiesCount int            `json:"possibilitiesCount"`
	Entropy            []float64      `json:"entropy"`
	InformationGain    []float64      `json:"informationGain"`
	AvgBulls           float64        `json:"avgBulls"`
	AvgCows            float64        `json:"avgCows"`
	Secret             string         `json:"secret,omitempty"`
}
