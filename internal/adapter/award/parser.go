package award

import (
	"regexp"
	"strings"

	"inspire/internal/domain"
)

// Parser extracts a requested award phrase from a raw query string.
// The recognized syntax is a marker token followed by a quoted or bare
// phrase, e.g. `tag "Best Overall Project"` or `tag Most Innovative`.
type Parser struct {
	quoted *regexp.Regexp
	bare   *regexp.Regexp
}

// NewParser creates a parser for the given marker token.
func NewParser(marker string) *Parser {
	if marker == "" {
		marker = "tag"
	}
	m := regexp.QuoteMeta(marker)
	return &Parser{
		quoted: regexp.MustCompile(`(?i)\b` + m + `\s*[:=]?\s*["']([^"']+)["']`),
		// A bare phrase runs to the end of the query.
		bare: regexp.MustCompile(`(?i)\b` + m + `\s+(\S[^"']*)$`),
	}
}

// Parse splits a raw query into free search text and an optional award
// phrase. When stripping the award syntax leaves no free text, the award
// phrase itself doubles as the search text.
func (p *Parser) Parse(raw string) domain.Query {
	q := domain.Query{Raw: raw}
	text := strings.TrimSpace(raw)

	if loc := p.quoted.FindStringSubmatchIndex(text); loc != nil {
		q.Award = strings.TrimSpace(text[loc[2]:loc[3]])
		text = text[:loc[0]] + text[loc[1]:]
	} else if loc := p.bare.FindStringSubmatchIndex(text); loc != nil {
		q.Award = strings.TrimSpace(text[loc[2]:loc[3]])
		text = text[:loc[0]]
	}

	q.Text = strings.Join(strings.Fields(text), " ")
	if q.Text == "" {
		q.Text = q.Award
	}
	return q
}
