package httpserver

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/bullscows/internal/game"
	"github.com/robalobadob/bullscows/internal/records"
	"github.com/robalobadob/bullscows/internal/store"
)

// newGameReq is the payload for POST /game/new.
// Seed is optional; when set the secret is reproducible.
type newGameReq struct {
	Seed *int64 `json:"seed"`
}

// guessReq is the payload for POST /game/guess and POST /daily/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// handleNewGame starts a session, keeps it in memory and records its owner row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	seed := randomSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	g := game.New(seed)
	owner := s.owner(w, r)
	if err := s.store.Save(r.Context(), owner.Key(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if err := s.records.StartGame(r.Context(), g.ID, records.ModeNormal, owner, g.StartedAt); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
	hlog.FromRequest(r).Info().Str("gameId", g.ID).Msg("new game")

	writeJSON(w, http.StatusOK, g.View())
}

// handleGuess applies one guess to one of the caller's normal sessions and
// updates the summary row. Daily sessions live in their own store and are
// not reachable here.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID, s.caller(r).Keys()...)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	out, ok := s.submit(w, r, g, req.Guess)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// submit runs the turn and writes any error response. ok is false when a
// response has already been written.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, g *game.Session, guess string) (game.TurnOutcome, bool) {
	out, err := g.Submit(guess)
	if err != nil {
		writeSubmitError(w, err)
		return out, false
	}
	if err := s.records.RecordTurn(r.Context(), g.ID, s.caller(r), out.Attempts, out.PossibilitiesCount, out.InformationGain, out.Won); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("record turn")
	}
	if out.Won {
		hlog.FromRequest(r).Info().Str("gameId", g.ID).Int("attempts", out.Attempts).Msg("game won")
	}
	return out, true
}

// writeSubmitError maps engine errors to HTTP responses.
func writeSubmitError(w http.ResponseWriter, err error) {
	var ve *game.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_guess",
			"kind":    ve.Kind.String(),
			"message": ve.Unwrap().Error(),
		})
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, "game_finished")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// handleGetGame returns the current view of one of the caller's sessions.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"), s.caller(r).Keys()...)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

// randomSeed draws a non-negative seed from crypto/rand.
func randomSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63))
}
