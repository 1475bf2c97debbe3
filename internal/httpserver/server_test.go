package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/bullscows/internal/config"
	"github.com/robalobadob/bullscows/internal/daily"
	"github.com/robalobadob/bullscows/internal/db"
	"github.com/robalobadob/bullscows/internal/game"
	"github.com/robalobadob/bullscows/internal/store"
)

type testEnv struct {
	t      *testing.T
	srv    *Server
	db     *sql.DB
	ts     *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sqldb, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqldb.Close() })

	cfg := config.Config{
		JWTSecret:      "test-secret",
		JWTExpiresDays: 1,
		CookieName:     "bc_test",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "test-salt",
	}
	srv := New(cfg, store.NewMemoryStore(), sqldb)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return &testEnv{t: t, srv: srv, db: sqldb, ts: ts, client: &http.Client{Jar: jar}}
}

// otherPlayer returns an env for the same server with a fresh cookie jar.
func (e *testEnv) otherPlayer() *testEnv {
	jar, _ := cookiejar.New(nil)
	o := *e
	o.client = &http.Client{Jar: jar}
	return &o
}

func (e *testEnv) do(method, path string, body any, out any) int {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	if err != nil {
		e.t.Fatal(err)
	}
	res, err := e.client.Do(req)
	if err != nil {
		e.t.Fatal(err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			e.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

// secretFor returns the secret the server draws for seed.
func secretFor(seed int64) string {
	return game.RandomCode(rand.New(rand.NewSource(seed))).String()
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	var body map[string]bool
	if code := e.do(http.MethodGet, "/health", nil, &body); code != http.StatusOK || !body["ok"] {
		t.Fatalf("health = %d %v", code, body)
	}
}

func TestGameFlow(t *testing.T) {
	e := newTestEnv(t)
	seed := int64(12345)

	var view game.SessionView
	if code := e.do(http.MethodPost, "/game/new", map[string]any{"seed": seed}, &view); code != http.StatusOK {
		t.Fatalf("new game = %d", code)
	}
	if view.ID == "" || view.PossibilitiesCount != 5040 || view.Attempts != 0 || view.Secret != "" {
		t.Fatalf("view = %+v", view)
	}

	var errBody map[string]string
	code := e.do(http.MethodPost, "/game/guess", guessReq{GameID: view.ID, Guess: "1123"}, &errBody)
	if code != http.StatusBadRequest || errBody["kind"] != "duplicate_digit" {
		t.Fatalf("invalid guess = %d %v", code, errBody)
	}

	secret := secretFor(seed)
	var out game.TurnOutcome
	if code := e.do(http.MethodPost, "/game/guess", guessReq{GameID: view.ID, Guess: secret}, &out); code != http.StatusOK {
		t.Fatalf("guess = %d", code)
	}
	if !out.Won || out.Attempts != 1 || out.PossibilitiesCount != 1 || out.ProbabilityOfFinding != 1 {
		t.Fatalf("outcome = %+v", out)
	}

	if code := e.do(http.MethodPost, "/game/guess", guessReq{GameID: view.ID, Guess: "0123"}, &errBody); code != http.StatusConflict {
		t.Fatalf("guess after win = %d", code)
	}

	if code := e.do(http.MethodGet, "/game/"+view.ID, nil, &view); code != http.StatusOK {
		t.Fatalf("get game = %d", code)
	}
	if view.State != game.StateWon || view.Secret != secret {
		t.Fatalf("view = %+v", view)
	}

	if code := e.do(http.MethodGet, "/game/nope", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown game = %d", code)
	}
}

func TestAuthAndStats(t *testing.T) {
	e := newTestEnv(t)
	creds := credentials{Username: "dana", Password: "password1"}

	if code := e.do(http.MethodGet, "/stats/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("stats without auth = %d", code)
	}

	// A guest game started before signup is claimed by the new account.
	var view game.SessionView
	e.do(http.MethodPost, "/game/new", map[string]any{"seed": 1}, &view)

	if code := e.do(http.MethodPost, "/auth/signup", creds, nil); code != http.StatusOK {
		t.Fatalf("signup = %d", code)
	}
	if code := e.do(http.MethodPost, "/auth/signup", creds, nil); code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d", code)
	}

	var me authUser
	if code := e.do(http.MethodGet, "/auth/me", nil, &me); code != http.StatusOK || me.Username != "dana" {
		t.Fatalf("me = %d %+v", code, me)
	}

	var games []map[string]any
	if code := e.do(http.MethodGet, "/games/mine", nil, &games); code != http.StatusOK || len(games) != 1 {
		t.Fatalf("games = %d %v", code, games)
	}

	e.do(http.MethodPost, "/auth/logout", nil, nil)
	if code := e.do(http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d", code)
	}
	if code := e.do(http.MethodPost, "/auth/login", credentials{Username: "dana", Password: "nope-nope"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", code)
	}
	if code := e.do(http.MethodPost, "/auth/login", creds, nil); code != http.StatusOK {
		t.Fatalf("login = %d", code)
	}
}

func TestDailyFlow(t *testing.T) {
	e := newTestEnv(t)

	var first dailyNewRes
	if code := e.do(http.MethodPost, "/daily/new", nil, &first); code != http.StatusOK || first.Game == nil {
		t.Fatalf("daily new = %d %+v", code, first)
	}
	var again dailyNewRes
	e.do(http.MethodPost, "/daily/new", nil, &again)
	if again.Game == nil || again.Game.ID != first.Game.ID {
		t.Fatalf("daily session not reused: %+v", again)
	}

	secret := secretFor(daily.SeedForKey(first.Date, "test-salt"))
	var out game.TurnOutcome
	code := e.do(http.MethodPost, "/daily/guess", guessReq{GameID: first.Game.ID, Guess: secret}, &out)
	if code != http.StatusOK || !out.Won {
		t.Fatalf("daily guess = %d %+v", code, out)
	}

	var played dailyNewRes
	e.do(http.MethodPost, "/daily/new", nil, &played)
	if !played.Played || played.Game != nil {
		t.Fatalf("replay allowed: %+v", played)
	}

	var lb lbRes
	if code := e.do(http.MethodGet, "/daily/leaderboard", nil, &lb); code != http.StatusOK || len(lb.Top) != 1 {
		t.Fatalf("leaderboard = %d %+v", code, lb)
	}
	if lb.Top[0].Attempts != 1 {
		t.Fatalf("leaderboard row = %+v", lb.Top[0])
	}

	if code := e.do(http.MethodPost, "/daily/guess", guessReq{GameID: "other", Guess: "0123"}, nil); code != http.StatusConflict {
		t.Fatalf("guess on foreign id = %d", code)
	}
}

func TestSessionsScopedToPlayer(t *testing.T) {
	alice := newTestEnv(t)
	mallory := alice.otherPlayer()

	var dn dailyNewRes
	if code := alice.do(http.MethodPost, "/daily/new", nil, &dn); code != http.StatusOK || dn.Game == nil {
		t.Fatalf("daily new = %d %+v", code, dn)
	}
	var view game.SessionView
	if code := alice.do(http.MethodPost, "/game/new", map[string]any{"seed": 9}, &view); code != http.StatusOK {
		t.Fatalf("new game = %d", code)
	}
	dailySecret := secretFor(daily.SeedForKey(dn.Date, "test-salt"))

	// Another player, with an anon id of their own, cannot see or play
	// either session.
	if code := mallory.do(http.MethodPost, "/game/new", nil, nil); code != http.StatusOK {
		t.Fatalf("mallory new game = %d", code)
	}
	for _, g := range []guessReq{
		{GameID: dn.Game.ID, Guess: dailySecret},
		{GameID: view.ID, Guess: secretFor(9)},
	} {
		if code := mallory.do(http.MethodPost, "/game/guess", g, nil); code != http.StatusNotFound {
			t.Fatalf("foreign /game/guess on %s = %d", g.GameID, code)
		}
		if code := mallory.do(http.MethodGet, "/game/"+g.GameID, nil, nil); code != http.StatusNotFound {
			t.Fatalf("foreign /game/%s = %d", g.GameID, code)
		}
	}
	if code := mallory.do(http.MethodPost, "/daily/guess", guessReq{GameID: dn.Game.ID, Guess: dailySecret}, nil); code != http.StatusConflict {
		t.Fatalf("foreign /daily/guess = %d", code)
	}

	// The owner cannot route a daily session through /game/guess either.
	if code := alice.do(http.MethodPost, "/game/guess", guessReq{GameID: dn.Game.ID, Guess: dailySecret}, nil); code != http.StatusNotFound {
		t.Fatalf("daily id on /game/guess = %d", code)
	}

	var again game.SessionView
	if code := alice.do(http.MethodGet, "/game/"+view.ID, nil, &again); code != http.StatusOK || again.Attempts != 0 {
		t.Fatalf("own game = %d %+v", code, again)
	}
	var out game.TurnOutcome
	if code := alice.do(http.MethodPost, "/daily/guess", guessReq{GameID: dn.Game.ID, Guess: dailySecret}, &out); code != http.StatusOK || !out.Won || out.Attempts != 1 {
		t.Fatalf("own daily guess = %d %+v", code, out)
	}

	var lb lbRes
	alice.do(http.MethodGet, "/daily/leaderboard", nil, &lb)
	if len(lb.Top) != 1 || lb.Top[0].Attempts != 1 {
		t.Fatalf("leaderboard = %+v", lb)
	}

	// A finished daily session is dropped; further guesses find nothing.
	if code := alice.do(http.MethodPost, "/daily/guess", guessReq{GameID: dn.Game.ID, Guess: "0123"}, nil); code != http.StatusConflict {
		t.Fatalf("guess on finished daily = %d", code)
	}
	if _, err := alice.srv.daily.games.Get(context.Background(), dn.Game.ID, lb.Top[0].PlayerID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("finished daily session kept: %v", err)
	}
}

func TestGuestGameSurvivesSignup(t *testing.T) {
	e := newTestEnv(t)
	var view game.SessionView
	e.do(http.MethodPost, "/game/new", map[string]any{"seed": 3}, &view)
	if code := e.do(http.MethodPost, "/auth/signup", credentials{Username: "frank", Password: "password1"}, nil); code != http.StatusOK {
		t.Fatalf("signup = %d", code)
	}

	var out game.TurnOutcome
	if code := e.do(http.MethodPost, "/game/guess", guessReq{GameID: view.ID, Guess: secretFor(3)}, &out); code != http.StatusOK || !out.Won {
		t.Fatalf("guess after signup = %d %+v", code, out)
	}
	var stats map[string]any
	if code := e.do(http.MethodGet, "/stats/me", nil, &stats); code != http.StatusOK || stats["wins"] != float64(1) {
		t.Fatalf("stats = %d %v", code, stats)
	}
}

func TestDailyElapsedUsesServerClock(t *testing.T) {
	e := newTestEnv(t)
	e.srv.daily.now = func() time.Time { return time.Now().Add(90 * time.Second) }

	var dn dailyNewRes
	e.do(http.MethodPost, "/daily/new", nil, &dn)
	secret := secretFor(daily.SeedForKey(dn.Date, "test-salt"))
	if code := e.do(http.MethodPost, "/daily/guess", guessReq{GameID: dn.Game.ID, Guess: secret}, nil); code != http.StatusOK {
		t.Fatalf("daily guess = %d", code)
	}

	var lb lbRes
	e.do(http.MethodGet, "/daily/leaderboard", nil, &lb)
	if len(lb.Top) != 1 || lb.Top[0].ElapsedMs < 90_000 || lb.Top[0].ElapsedMs > 120_000 {
		t.Fatalf("leaderboard = %+v", lb)
	}
}

func TestSignupErrors(t *testing.T) {
	e := newTestEnv(t)

	var body map[string]string
	code := e.do(http.MethodPost, "/auth/signup", credentials{Username: "gina", Password: "short"}, &body)
	if code != http.StatusBadRequest || body["error"] != "invalid_signup" || !strings.Contains(body["message"], "password") {
		t.Fatalf("short password = %d %v", code, body)
	}

	// Storage failures are not the client's fault.
	e.db.Close()
	body = nil
	code = e.do(http.MethodPost, "/auth/signup", credentials{Username: "gina", Password: "password1"}, &body)
	if code != http.StatusInternalServerError || body["error"] != "server_error" {
		t.Fatalf("signup on closed db = %d %v", code, body)
	}
}
