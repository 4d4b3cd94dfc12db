// Package rooms reads the room-status endpoints of the game servers.
package rooms

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/xqm32/guyubot/pkg/utils"
)

type Player struct {
	Name string `json:"name"`
}

type Room struct {
	ID      int      `json:"id"`
	Players []Player `json:"players"`
}

type Endpoint struct {
	Label string
	URL   string
}

// Listing is the rooms reported by one endpoint.
type Listing struct {
	Endpoint Endpoint
	Rooms    []Room
}

type Client struct {
	endpoints  []Endpoint
	httpClient *http.Client
}

func NewClient(endpoints []Endpoint, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = utils.NewHTTPClient()
	}
	return &Client{endpoints: endpoints, httpClient: httpClient}
}

func (c *Client) Endpoints() []Endpoint {
	return c.endpoints
}

// Endpoint looks up an endpoint by label, ignoring case.
func (c *Client) Endpoint(label string) (Endpoint, bool) {
	for _, ep := range c.endpoints {
		if strings.EqualFold(ep.Label, label) {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Fetch queries every endpoint concurrently. Listings come back in the
// order of endpoints, not completion order. Any failure fails the whole
// fetch.
func (c *Client) Fetch(ctx context.Context, endpoints ...Endpoint) ([]Listing, error) {
	if len(endpoints) == 0 {
		endpoints = c.endpoints
	}

	listings := make([]Listing, len(endpoints))
	g, gctx := errgroup.WithContext(ctx)
	for i, ep := range endpoints {
		g.Go(func() error {
			var rooms []Room
			if err := utils.GetJSON(gctx, c.httpClient, ep.URL, nil, &rooms); err != nil {
				return fmt.Errorf("%s rooms: %w", ep.Label, err)
			}
			listings[i] = Listing{Endpoint: ep, Rooms: rooms}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

func FormatRoom(r Room) string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("%d 👉 %s", r.ID, strings.Join(names, " 🆚 "))
}

// Format renders each listing as a header line followed by one line per room.
func Format(listings []Listing) string {
	lines := make([]string, 0, len(listings)*4)
	for _, l := range listings {
		lines = append(lines, fmt.Sprintf("=== %s Rooms ===", l.Endpoint.Label))
		for _, r := range l.Rooms {
			lines = append(lines, FormatRoom(r))
		}
	}
	return strings.Join(lines, "\n")
}
