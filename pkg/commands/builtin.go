package commands

import (
	"context"
	"fmt"
	"strings"
)

// BuiltinDefinitions returns the commands that describe the registry
// itself. lookup is called at request time so the listing includes every
// command registered alongside these.
func BuiltinDefinitions(lookup func() *Registry) []Definition {
	return []Definition{
		{
			Name:        "commands",
			Description: "List command names",
			Usage:       "commands",
			Handler: func(context.Context, Request) (string, error) {
				return strings.Join(lookup().Names(), ", "), nil
			},
		},
		{
			Name:        "help",
			Description: "Show usage for every command",
			Usage:       "help",
			Handler: func(context.Context, Request) (string, error) {
				return FormatHelpMessage(lookup().Definitions()), nil
			},
		},
	}
}

func FormatHelpMessage(defs []Definition) string {
	lines := make([]string, 0, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			continue
		}
		usage := def.Usage
		if usage == "" {
			usage = def.Name
		}
		desc := def.Description
		if desc == "" {
			desc = "No description"
		}
		lines = append(lines, fmt.Sprintf("%s - %s", usage, desc))
	}
	if len(lines) == 0 {
		return "No commands available."
	}
	return strings.Join(lines, "\n")
}
