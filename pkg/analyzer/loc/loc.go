// Package loc classifies physical source lines as code, comment, or blank.
package loc

import (
	"strings"

	"github.com/panbanda/mccabre/pkg/tokenizer"
)

type lineKind uint8

const (
	lineBlank lineKind = iota
	lineCode
	lineComment
)

// Calculate tokenizes source and counts its lines.
func Calculate(source string, lang tokenizer.Language) (Metrics, error) {
	tokens, err := tokenizer.Tokenize(source, lang)
	if err != nil {
		return Metrics{}, err
	}
	return FromTokens(source, tokens), nil
}

// FromTokens counts lines using an already tokenized source.
// Tokens must have been produced from source.
func FromTokens(source string, tokens []tokenizer.Token) Metrics {
	if source == "" {
		return Metrics{}
	}

	lines := strings.Split(source, "\n")
	kinds := make([]lineKind, len(lines))

	for i, tok := range tokens {
		if !tok.Kind.IsSignificant() && tok.Kind != tokenizer.Comment {
			continue
		}
		// A token ends on the line where the next one starts; the last one runs to EOF.
		last := len(lines)
		if i+1 < len(tokens) {
			last = tokens[i+1].Line
		}
		for line := tok.Line; line <= last; line++ {
			idx := line - 1
			if idx < 0 || idx >= len(kinds) {
				continue
			}
			if tok.Kind.IsSignificant() {
				kinds[idx] = lineCode
			} else if kinds[idx] != lineCode {
				kinds[idx] = lineComment
			}
		}
	}

	// Whitespace-only lines are blank regardless of what landed on them.
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			kinds[i] = lineBlank
		}
	}

	m := Metrics{Physical: len(lines)}
	for _, k := range kinds {
		switch k {
		case lineComment:
			m.Comments++
		case lineBlank:
			m.Blank++
		}
	}
	m.Logical = m.Physical - m.Comments - m.Blank
	return m
}
