// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's daily game
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → best results for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same secret on a given UTC day: the session seed is
// HMAC(salt, date). Each player can finish the daily game once per day
// (enforced by DB + in-memory session index). Daily sessions are kept in a
// store of their own, so the /game routes can never reach them; a session is
// dropped once its win is recorded.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/bullscows/internal/daily"
	"github.com/robalobadob/bullscows/internal/game"
	"github.com/robalobadob/bullscows/internal/records"
	"github.com/robalobadob/bullscows/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	games    store.Store // daily sessions only
	now      func() time.Time
	sessions map[string]string // playerID|date → session ID
	mu       sync.Mutex        // guards sessions
}

func newDailyServer(s *Server, st *daily.Store) *dailyServer {
	return &dailyServer{
		srv:      s,
		store:    st,
		games:    store.NewMemoryStore(),
		now:      time.Now,
		sessions: make(map[string]string),
	}
}

// mount registers all /daily routes.
func (d *dailyServer) mount(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/guess", d.handleGuess)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string            `json:"date"`
	Played bool              `json:"played"`
	Game   *game.SessionView `json:"game,omitempty"`
}

// handleNew creates or resumes the player's daily session.
//   - Finished today (DB row exists) → Played=true, no game.
//   - Otherwise reuse the in-memory session for today or start one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	owner := d.srv.owner(w, r)
	pid := owner.Key()
	date := daily.DateKey(d.now())

	if played, err := d.store.AlreadyPlayed(r.Context(), pid, date); err == nil && played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if g, err := d.games.Get(r.Context(), id, pid); err == nil {
			v := g.View()
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
			return
		}
	}

	g := game.New(daily.SeedForKey(date, d.srv.cfg.DailySalt))
	if err := d.games.Save(r.Context(), pid, g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = g.ID
	if err := d.srv.records.StartGame(r.Context(), g.ID, records.ModeDaily, owner, g.StartedAt); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("insert daily game row")
	}

	v := g.View()
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
}

// handleGuess applies a guess to the player's daily session, records the
// result on win and then drops the session.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pid := d.srv.caller(r).Key()
	date := daily.DateKey(d.now())
	key := pid + "|" + date

	d.mu.Lock()
	id, ok := d.sessions[key]
	d.mu.Unlock()
	if pid == "" || !ok || id != req.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	g, err := d.games.Get(r.Context(), id, pid)
	if err != nil {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	out, ok := d.srv.submit(w, r, g, req.Guess)
	if !ok {
		return
	}
	if out.Won {
		res := daily.Result{
			PlayerID:  pid,
			Date:      date,
			Attempts:  out.Attempts,
			ElapsedMs: int(d.now().Sub(g.StartedAt).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("player", pid).Msg("insert daily result")
		} else {
			d.finish(r, key, id)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// finish forgets a daily session whose result is stored. /daily/new then
// answers from the results table.
func (d *dailyServer) finish(r *http.Request, key, id string) {
	d.mu.Lock()
	if d.sessions[key] == id {
		delete(d.sessions, key)
	}
	d.mu.Unlock()
	if err := d.games.Delete(r.Context(), id); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", id).Msg("drop daily session")
	}
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
