package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/config"
	"github.com/xqm32/guyubot/pkg/kv"
	"github.com/xqm32/guyubot/pkg/providers"
	"github.com/xqm32/guyubot/pkg/rooms"
)

// upstream fakes every remote service the commands talk to.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/main/rooms", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":101,"players":[{"name":"Alice"},{"name":"Bob"}]},{"id":102,"players":[{"name":"Carol"}]}]`))
	})
	mux.HandleFunc("/beta/rooms", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"players":[{"name":"Dave"},{"name":"Eve"}]}]`))
	})
	mux.HandleFunc("/repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		_, _ = w.Write([]byte(`[{"number":42,"title":"feat: new cards","html_url":"https://github.com/owner/repo/pull/42","state":"open"}]`))
	})
	mux.HandleFunc("/repos/owner/empty/pulls", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/bilibili", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("stime") == "2024-05-01" && q.Get("etime") == "2024-05-01" {
			_, _ = w.Write([]byte(`{"code":0,"data":{"list":[{"season":{"title":"2024 MSI"},"game_stage":"Bracket",
				"stime":1714554000,"home":{"name":"BLG"},"away":{"name":"T1"},"home_score":3,"away_score":2}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"data":{"list":[]}}`))
	})
	mux.HandleFunc("/lpl/LOL_MATCH2_GAME_LIST_BRIEF.js", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`var GameList={"msg":{"sGameList":{"2024":[{"GameId":"172"}]}}};`))
	})
	mux.HandleFunc("/lpl/LOL_MATCH2_MATCH_HOMEPAGE_BMATCH_LIST_172.js", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"msg":[{"MatchStatus":"1","GameName":"2024 LPL","GameTypeName":"Summer","GameProcName":"Week 1",
			"MatchDate":"2024-06-01 17:00:00","bMatchName":"BLG vs TES","ScoreA":"0","ScoreB":"0"}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(base string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Rooms.Endpoints = []config.RoomEndpoint{
		{Label: "Main", URL: base + "/main/rooms"},
		{Label: "Beta", URL: base + "/beta/rooms"},
	}
	cfg.GitHub.APIBase = base
	cfg.GitHub.Owner = "owner"
	cfg.GitHub.Repo = "repo"
	cfg.Esports.BilibiliURL = base + "/bilibili"
	cfg.Esports.LPLBaseURL = base + "/lpl"
	cfg.Store.Path = ":memory:"
	return cfg
}

type fixture struct {
	deps       *Deps
	dispatcher *commands.Dispatcher
}

func newFixture(t *testing.T, mutate func(*config.Config, *Deps)) *fixture {
	t.Helper()
	server := upstream(t)
	cfg := testConfig(server.URL)

	store, err := kv.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	deps := NewDeps(cfg, store)
	deps.Now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	if mutate != nil {
		mutate(cfg, deps)
	}

	reg, err := NewRegistry(deps)
	require.NoError(t, err)
	return &fixture{deps: deps, dispatcher: commands.NewDispatcher(reg)}
}

func (f *fixture) send(text string) commands.Result {
	return f.dispatcher.Dispatch(context.Background(), commands.Message{Text: text})
}

func TestRegistry_CommandsListing(t *testing.T) {
	f := newFixture(t, nil)

	res := f.send("commands")
	require.NoError(t, res.Err)
	assert.Equal(t, "commands, llmlist, 谁在打雨酱牌, guyu, help, memo, llm, lol, lpl, gy, r", res.Reply)
}

func TestRegistry_FallbackOnlyWhenConfigured(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusNotFound, f.send("hello there").Status)

	f = newFixture(t, func(cfg *config.Config, _ *Deps) { cfg.Bot.Fallback = config.FallbackLLM })
	res := f.send("hello there")
	assert.True(t, res.Matched)
	assert.Equal(t, "", res.Command)
}

func TestRooms(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"all", "r", "=== Main Rooms ===\n101 👉 Alice 🆚 Bob\n102 👉 Carol\n=== Beta Rooms ===\n7 👉 Dave 🆚 Eve"},
		{"alias", "谁在打雨酱牌", "=== Main Rooms ===\n101 👉 Alice 🆚 Bob\n102 👉 Carol\n=== Beta Rooms ===\n7 👉 Dave 🆚 Eve"},
		{"label", "r beta", "=== Beta Rooms ===\n7 👉 Dave 🆚 Eve"},
		{"by id", "r #102", "=== Main Rooms ===\n102 👉 Carol"},
		{"id not found", "r #5", "Room 5 not found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.send(tt.text)
			require.NoError(t, res.Err)
			assert.Equal(t, http.StatusOK, res.Status)
			assert.Equal(t, tt.want, res.Reply)
		})
	}
}

func TestRooms_BadArguments(t *testing.T) {
	f := newFixture(t, nil)

	res := f.send("r #abc")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.True(t, commands.IsPrecondition(res.Err))

	res = f.send("r staging")
	assert.True(t, commands.IsPrecondition(res.Err))
	assert.Contains(t, res.Reply, "Main, Beta")
}

func TestRooms_UpstreamFailureIs500(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config, d *Deps) {
		d.Rooms = rooms.NewClient([]rooms.Endpoint{{Label: "Main", URL: cfg.GitHub.APIBase + "/missing"}}, nil)
	})

	res := f.send("r")
	assert.Equal(t, http.StatusInternalServerError, res.Status)
}

func TestGuyu(t *testing.T) {
	f := newFixture(t, nil)

	for _, text := range []string{"guyu", "gy"} {
		res := f.send(text)
		require.NoError(t, res.Err, text)
		assert.Equal(t, "feat: new cards\nhttps://github.com/owner/repo/pull/42", res.Reply, text)
	}

	f = newFixture(t, func(cfg *config.Config, _ *Deps) { cfg.GitHub.Repo = "empty" })
	assert.Equal(t, "No pull requests found.", f.send("gy").Reply)
}

func TestLoL(t *testing.T) {
	f := newFixture(t, nil)

	res := f.send("lol")
	require.NoError(t, res.Err)
	assert.Equal(t, "2024 MSI Bracket 2024-05-01 17:00:00\nBLG 3:2 T1", res.Reply)

	res = f.send("lol 2024/05/01")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Reply, "BLG 3:2 T1")

	res = f.send("lol 20240502 2024-05-09")
	require.NoError(t, res.Err)
	assert.Equal(t, "No matches found.", res.Reply)
}

func TestLoL_BadDates(t *testing.T) {
	f := newFixture(t, nil)

	for _, text := range []string{"lol tomorrow", "lol 2024-05-09 2024-05-01", "lol a b c"} {
		res := f.send(text)
		assert.Equal(t, http.StatusOK, res.Status, text)
		assert.True(t, commands.IsPrecondition(res.Err), text)
	}
}

func TestLPL(t *testing.T) {
	f := newFixture(t, nil)

	res := f.send("lpl")
	require.NoError(t, res.Err)
	assert.Equal(t, "2024 LPL Summer Week 1\n2024-06-01 17:00:00\nBLG 0:0 TES", res.Reply)
}

func TestMemo(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, "No memo for deck.", f.send("memo deck").Reply)

	res := f.send("memo set deck Nahida Yoimiya  Baizhu")
	require.NoError(t, res.Err)
	assert.Equal(t, "Saved deck.", res.Reply)
	assert.Equal(t, "Nahida Yoimiya  Baizhu", f.send("memo deck").Reply)

	assert.Equal(t, "No memo for settle.", f.send("memo settle").Reply)

	for _, text := range []string{"memo set\tbuild Furina", "memo set\nbuild Furina"} {
		res := f.send(text)
		require.NoError(t, res.Err, text)
		assert.Equal(t, "Saved build.", res.Reply, text)
	}
	assert.Equal(t, "Furina", f.send("memo build").Reply)

	for _, text := range []string{"memo", "memo set", "memo set deck"} {
		res := f.send(text)
		assert.True(t, commands.IsPrecondition(res.Err), text)
	}
}

func TestReplyIsTruncated(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config, _ *Deps) { cfg.Bot.MaxReplyRunes = 10 })

	require.NoError(t, f.send("memo set long "+strings.Repeat("雨", 20)).Err)
	assert.Equal(t, strings.Repeat("雨", 7)+"...", f.send("memo long").Reply)
}

func TestDefinitions_BadTimezone(t *testing.T) {
	cfg := testConfig("http://127.0.0.1")
	cfg.LLM.Timezone = "Mars/Olympus"

	_, err := Definitions(&Deps{Config: cfg})
	assert.Error(t, err)
}

var _ providers.LLMProvider = (*scriptedProvider)(nil)
