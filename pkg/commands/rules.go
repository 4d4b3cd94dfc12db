package commands

import (
	"context"
	"strings"
	"unicode"
)

// Rule is one branch of a handler's sub-grammar. When Token is set the
// rule matches if the first whitespace-separated word equals Token exactly.
// Otherwise Prefix is tested literally and the empty prefix matches
// anything. Handle receives the request with Text replaced by the trimmed
// rest.
type Rule struct {
	Token  string
	Prefix string
	Handle Handler
}

func (r Rule) match(text string) (string, bool) {
	if r.Token != "" {
		token, rest := SplitToken(text)
		return rest, token == r.Token
	}
	if !strings.HasPrefix(text, r.Prefix) {
		return "", false
	}
	return strings.TrimSpace(text[len(r.Prefix):]), true
}

// Rules is evaluated top to bottom; the first matching prefix wins.
type Rules []Rule

func (rs Rules) Run(ctx context.Context, req Request) (string, error) {
	for _, rule := range rs {
		rest, ok := rule.match(req.Text)
		if !ok {
			continue
		}
		sub := req
		sub.Text = rest
		return rule.Handle(ctx, sub)
	}
	return "", Preconditionf("unrecognized arguments: %s", req.Text)
}

// Handler adapts the rule table to a command handler.
func (rs Rules) Handler() Handler {
	return rs.Run
}

// SplitToken returns the first whitespace-separated token of s and the
// trimmed rest. Internal whitespace of the rest is preserved.
func SplitToken(s string) (token, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func Fields(s string) []string {
	return strings.Fields(s)
}
