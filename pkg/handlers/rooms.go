package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/rooms"
)

func roomsRules(c *rooms.Client) commands.Rules {
	return commands.Rules{
		{Prefix: "#", Handle: func(ctx context.Context, req commands.Request) (string, error) {
			return roomByID(ctx, c, req.Text)
		}},
		{Prefix: "", Handle: func(ctx context.Context, req commands.Request) (string, error) {
			return roomsByLabel(ctx, c, req.Text)
		}},
	}
}

func roomByID(ctx context.Context, c *rooms.Client, text string) (string, error) {
	id, err := strconv.Atoi(text)
	if err != nil {
		return "", commands.Preconditionf("room id must be a number, got %q", text)
	}

	listings, err := c.Fetch(ctx)
	if err != nil {
		return "", err
	}
	var hits []rooms.Listing
	for _, l := range listings {
		var matched []rooms.Room
		for _, r := range l.Rooms {
			if r.ID == id {
				matched = append(matched, r)
			}
		}
		if len(matched) > 0 {
			hits = append(hits, rooms.Listing{Endpoint: l.Endpoint, Rooms: matched})
		}
	}
	if len(hits) == 0 {
		return fmt.Sprintf("Room %d not found.", id), nil
	}
	return rooms.Format(hits), nil
}

func roomsByLabel(ctx context.Context, c *rooms.Client, label string) (string, error) {
	var selected []rooms.Endpoint
	if label != "" {
		ep, ok := c.Endpoint(label)
		if !ok {
			return "", commands.Preconditionf("unknown room list %q, want one of: %s", label, endpointLabels(c))
		}
		selected = append(selected, ep)
	}

	listings, err := c.Fetch(ctx, selected...)
	if err != nil {
		return "", err
	}
	return rooms.Format(listings), nil
}

func endpointLabels(c *rooms.Client) string {
	eps := c.Endpoints()
	labels := make([]string, 0, len(eps))
	for _, ep := range eps {
		labels = append(labels, ep.Label)
	}
	return strings.Join(labels, ", ")
}
