// internal/game/engine.go
//
// Game session for a single Bulls and Cows game.
// Responsibilities:
//   - Create sessions with a seeded, uniformly drawn secret.
//   - Validate, score and apply guesses as one atomic turn.
//   - Narrow the possibility space and track entropy / information gain.
//   - Track state transitions: awaiting_guess → won.
//
// Notes:
//   - There is no attempt limit and no lost state.
//   - A new game is a new Session; sessions are never reset in place.
package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrFinished is returned when a guess is submitted to a won session.
var ErrFinished = errors.New("game finished")

// Session holds the state of one game. All methods are safe for concurrent
// use; each Submit is applied atomically.
type Session struct {
	ID        string
	StartedAt time.Time

	mu        sync.Mutex
	secret    Code
	space     *Space
	attempts  int
	history   []Attempt
	entropies []float64
	gains     []float64
	state     State
}

// New starts a session whose secret is drawn uniformly from AllCodes using a
// math/rand source seeded with seed. Equal seeds give equal secrets.
func New(seed int64) *Session {
	return NewWithSecret(RandomCode(rand.New(rand.NewSource(seed))))
}

// NewWithSecret starts a session with a fixed secret.
func NewWithSecret(secret Code) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		secret:    secret,
		space:     NewSpace(),
		history:   []Attempt{},
		entropies: []float64{},
		gains:     []float64{},
		state:     StateAwaitingGuess,
	}
}

// Submit validates guess and, if valid, applies one turn.
//
// Invalid input returns a *ValidationError and leaves the session untouched.
// A won session returns ErrFinished.
func (s *Session) Submit(guess string) (TurnOutcome, error) {
	code, err := ParseCode(guess)
	if err != nil {
		return TurnOutcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateWon {
		return TurnOutcome{}, ErrFinished
	}

	fb := Score(s.secret, code)
	s.attempts++
	if !s.seen(code) {
		s.history = append(s.history, Attempt{Guess: code, Feedback: fb})
	}

	s.space.Narrow(code, fb)

	entropy := Entropy(s.space.codes, fb)
	delta := 0.0
	if n := len(s.entropies); n > 0 {
		delta = s.entropies[n-1] - entropy
	}
	gain := InformationGain(BaselineEntropy(), entropy)
	s.entropies = append(s.entropies, entropy)
	s.gains = append(s.gains, gain)

	if fb.Solved() {
		s.state = StateWon
	}

	return TurnOutcome{
		Guess:                code.String(),
		Bulls:                fb.Bulls,
		Cows:                 fb.Cows,
		Attempts:             s.attempts,
		PossibilitiesCount:   s.space.Len(),
		ProbabilityOfFinding: probability(s.space.Len(), fb),
		Entropy:              entropy,
		EntropyDelta:         delta,
		InformationGain:      gain,
		Won:                  s.state == StateWon,
	}, nil
}

// seen reports whether code is already in the history.
func (s *Session) seen(code Code) bool {
	for _, a := range s.history {
		if a.Guess == code {
			return true
		}
	}
	return false
}

// probability of picking the secret uniformly from n remaining candidates.
// An empty set only counts as certain when the turn itself was a win.
func probability(n int, fb Feedback) float64 {
	if n > 0 {
		return 1 / float64(n)
	}
	if fb.Solved() {
		return 1
	}
	return 0
}

// State reports the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts reports how many valid guesses were submitted.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Remaining returns a copy of the candidates still consistent with all feedback.
func (s *Session) Remaining() []Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.space.Codes()
}

// View returns a snapshot for presentation. The secret is revealed only once won.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ID:                 s.ID,
		State:              s.state,
		Attempts:           s.attempts,
		History:            make([]HistoryEntry, 0, len(s.history)),
		PossibilitiesCount: s.space.Len(),
		Entropy:            append([]float64{}, s.entropies...),
		InformationGain:    append([]float64{}, s.gains...),
	}
	var bulls, cows int
	for _, a := range s.history {
		v.History = append(v.History, HistoryEntry{
			Guess: a.Guess.String(),
			Bulls: a.Feedback.Bulls,
			Cows:  a.Feedback.Cows,
		})
		bulls += a.Feedback.Bulls
		cows += a.Feedback.Cows
	}
	if n := len(s.history); n > 0 {
		v.AvgBulls = float64(bulls) / float64(n)
		v.AvgCows = float64(cows) / float64(n)
	}
	if s.state == StateWon {
		v.Secret = s.secret.String()
	}
	return v
}
