package esports

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/xqm32/guyubot/pkg/utils"
)

const (
	DefaultLPLBaseURL = "https://lpl.qq.com/web201612/data"
	gameListPrefix    = "var GameList="

	NoLPLMatchMessage = "No ongoing or upcoming LPL matches."
)

type LPLMatch struct {
	GameName     string
	GameTypeName string
	GameProcName string
	MatchDate    string
	TeamA        string
	TeamB        string
	ScoreA       string
	ScoreB       string
}

func (m LPLMatch) String() string {
	return strings.Join([]string{
		fmt.Sprintf("%s %s %s", m.GameName, m.GameTypeName, m.GameProcName),
		m.MatchDate,
		fmt.Sprintf("%s %s:%s %s", m.TeamA, m.ScoreA, m.ScoreB, m.TeamB),
	}, "\n")
}

type LPL struct {
	baseURL    string
	httpClient *http.Client
}

func NewLPL(baseURL string, httpClient *http.Client) *LPL {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultLPLBaseURL
	}
	if httpClient == nil {
		httpClient = utils.NewHTTPClient()
	}
	return &LPL{baseURL: baseURL, httpClient: httpClient}
}

// LatestGameID returns the highest GameId across every season in the
// brief game list.
func (l *LPL) LatestGameID(ctx context.Context) (int64, error) {
	body, err := utils.GetBody(ctx, l.httpClient, l.baseURL+"/LOL_MATCH2_GAME_LIST_BRIEF.js", nil)
	if err != nil {
		return 0, fmt.Errorf("lpl game list: %w", err)
	}

	raw := strings.TrimSpace(string(body))
	if !strings.HasPrefix(raw, gameListPrefix) {
		return 0, fmt.Errorf("lpl game list: unexpected payload")
	}
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, gameListPrefix), ";")
	if !gjson.Valid(raw) {
		return 0, fmt.Errorf("lpl game list: invalid JSON")
	}

	var latest int64
	gjson.Get(raw, "msg.sGameList").ForEach(func(_, games gjson.Result) bool {
		games.ForEach(func(_, game gjson.Result) bool {
			if id := game.Get("GameId").Int(); id > latest {
				latest = id
			}
			return true
		})
		return true
	})
	if latest == 0 {
		return 0, fmt.Errorf("lpl game list: no games")
	}
	return latest, nil
}

// CurrentMatch returns the first ongoing or upcoming match of the latest
// game, or nil when every match is finished.
func (l *LPL) CurrentMatch(ctx context.Context) (*LPLMatch, error) {
	gameID, err := l.LatestGameID(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/LOL_MATCH2_MATCH_HOMEPAGE_BMATCH_LIST_%d.js", l.baseURL, gameID)
	body, err := utils.GetBody(ctx, l.httpClient, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lpl match list: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("lpl match list: invalid JSON")
	}

	var found *LPLMatch
	gjson.GetBytes(body, "msg").ForEach(func(_, m gjson.Result) bool {
		switch m.Get("MatchStatus").String() {
		case "1", "2":
		default:
			return true
		}
		teamA, teamB, _ := strings.Cut(m.Get("bMatchName").String(), " vs ")
		found = &LPLMatch{
			GameName:     m.Get("GameName").String(),
			GameTypeName: m.Get("GameTypeName").String(),
			GameProcName: m.Get("GameProcName").String(),
			MatchDate:    m.Get("MatchDate").String(),
			TeamA:        teamA,
			TeamB:        teamB,
			ScoreA:       m.Get("ScoreA").String(),
			ScoreB:       m.Get("ScoreB").String(),
		}
		return false
	})
	return found, nil
}
