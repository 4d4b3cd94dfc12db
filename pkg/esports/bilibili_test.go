package esports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bilibiliBody = `{
	"code": 0,
	"message": "0",
	"data": {"list": [
		{
			"season": {"title": "2024 LPL春季赛"},
			"game_stage": "常规赛",
			"stime": 1714557600,
			"home": {"name": "BLG"},
			"away": {"name": "TES"},
			"home_score": 2,
			"away_score": 1
		}
	]}
}`

func TestBilibili_Matches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("gid"))
		assert.Equal(t, "2024-05-01", q.Get("stime"))
		assert.Equal(t, "2024-05-02", q.Get("etime"))
		assert.True(t, q.Has("contest_status"))
		_, _ = w.Write([]byte(bilibiliBody))
	}))
	defer server.Close()

	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	b := NewBilibili(server.URL, server.Client())
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	matches, err := b.Matches(context.Background(), start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "2024 LPL春季赛 常规赛 2024-05-01 18:00:00\nBLG 2:1 TES", FormatMatches(matches, loc))
}

func TestBilibili_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": -400, "message": "bad request"}`))
	}))
	defer server.Close()

	_, err := NewBilibili(server.URL, nil).Matches(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad request")
}

func TestFormatMatches_Empty(t *testing.T) {
	assert.Equal(t, "No matches found.", FormatMatches(nil, time.UTC))
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-05-01", "2024/05/01", "20240501"} {
		got, err := ParseDate(in, time.UTC)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got, in)
	}

	_, err := ParseDate("tomorrow", time.UTC)
	assert.Error(t, err)
}
