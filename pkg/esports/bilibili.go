// Package esports reads League of Legends schedules from the Bilibili
// esports API and the LPL data feed.
package esports

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/xqm32/guyubot/pkg/utils"
)

const (
	DefaultBilibiliURL = "https://api.bilibili.com/x/esports/matchs/list"
	DateLayout         = "2006-01-02"
	timeLayout         = "2006-01-02 15:04:05"
)

type Match struct {
	Season    string
	Stage     string
	StartTime time.Time
	Home      string
	Away      string
	HomeScore int64
	AwayScore int64
}

type Bilibili struct {
	url        string
	httpClient *http.Client
}

func NewBilibili(endpoint string, httpClient *http.Client) *Bilibili {
	if endpoint == "" {
		endpoint = DefaultBilibiliURL
	}
	if httpClient == nil {
		httpClient = utils.NewHTTPClient()
	}
	return &Bilibili{url: endpoint, httpClient: httpClient}
}

// Matches lists League of Legends matches between start and end, both
// inclusive calendar days.
func (b *Bilibili) Matches(ctx context.Context, start, end time.Time) ([]Match, error) {
	q := url.Values{}
	q.Set("mid", "0")
	q.Set("gid", "2")
	q.Set("tid", "0")
	q.Set("pn", "1")
	q.Set("ps", "10")
	q.Set("contest_status", "")
	q.Set("stime", start.Format(DateLayout))
	q.Set("etime", end.Format(DateLayout))

	body, err := utils.GetBody(ctx, b.httpClient, b.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("bilibili esports: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("bilibili esports: invalid JSON response")
	}

	res := gjson.ParseBytes(body)
	if code := res.Get("code").Int(); code != 0 {
		return nil, fmt.Errorf("bilibili esports: code %d: %s", code, res.Get("message").String())
	}

	var matches []Match
	res.Get("data.list").ForEach(func(_, g gjson.Result) bool {
		matches = append(matches, Match{
			Season:    g.Get("season.title").String(),
			Stage:     g.Get("game_stage").String(),
			StartTime: time.Unix(g.Get("stime").Int(), 0),
			Home:      g.Get("home.name").String(),
			Away:      g.Get("away.name").String(),
			HomeScore: g.Get("home_score").Int(),
			AwayScore: g.Get("away_score").Int(),
		})
		return true
	})
	return matches, nil
}

// FormatMatches renders two lines per match, times shown in loc.
func FormatMatches(matches []Match, loc *time.Location) string {
	if len(matches) == 0 {
		return "No matches found."
	}
	if loc == nil {
		loc = time.Local
	}
	lines := make([]string, 0, len(matches)*2)
	for _, m := range matches {
		lines = append(lines,
			fmt.Sprintf("%s %s %s", m.Season, m.Stage, m.StartTime.In(loc).Format(timeLayout)),
			fmt.Sprintf("%s %d:%d %s", m.Home, m.HomeScore, m.AwayScore, m.Away),
		)
	}
	return strings.Join(lines, "\n")
}

var dateLayouts = []string{DateLayout, "2006/01/02", "20060102"}

// ParseDate accepts 2006-01-02, 2006/01/02 and 20060102 in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}
