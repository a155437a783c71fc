// Package complexity computes McCabe cyclomatic complexity from a token stream.
//
// File complexity counts every decision point in the file. Function bodies are
// found heuristically: a header keyword (fn, func, function) followed by the
// next brace-balanced block.
package complexity

import (
	"github.com/panbanda/mccabre/pkg/tokenizer"
)

// AnonymousName is reported for functions without an identifiable name.
const AnonymousName = "anonymous"

var functionKeywords = map[string]bool{
	"fn":       true,
	"func":     true,
	"function": true,
}

// Calculate tokenizes source and computes its cyclomatic metrics.
func Calculate(source string, lang tokenizer.Language) (Metrics, error) {
	tokens, err := tokenizer.Tokenize(source, lang)
	if err != nil {
		return Metrics{}, err
	}
	return FromTokens(tokens), nil
}

// FromTokens computes cyclomatic metrics from an existing token stream.
func FromTokens(tokens []tokenizer.Token) Metrics {
	return Metrics{
		FileComplexity: score(tokenizer.CountDecisionPoints(tokens)),
		Functions:      detectFunctions(tokens),
	}
}

// score applies McCabe's formula; straight-line code has complexity 1.
func score(decisionPoints int) int {
	return decisionPoints + 1
}

func detectFunctions(tokens []tokenizer.Token) []FunctionComplexity {
	functions := make([]FunctionComplexity, 0)

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if tok.Kind != tokenizer.Identifier || !functionKeywords[tok.Text] {
			i++
			continue
		}

		open := indexOf(tokens, i, tokenizer.LeftBrace)
		if open < 0 {
			i++
			continue
		}
		closing := matchingBrace(tokens, open)
		if closing < 0 {
			i++
			continue
		}

		functions = append(functions, FunctionComplexity{
			Name:       functionName(tokens, i),
			Line:       tok.Line,
			Complexity: score(tokenizer.CountDecisionPoints(tokens[open : closing+1])),
		})
		i = closing + 1
	}

	return functions
}

// functionName returns the identifier that follows the header keyword,
// skipping layout and comments.
func functionName(tokens []tokenizer.Token, header int) string {
	for j := header + 1; j < len(tokens); j++ {
		if !tokens[j].Kind.IsSignificant() {
			continue
		}
		if tokens[j].Kind == tokenizer.Identifier {
			return tokens[j].Text
		}
		break
	}
	return AnonymousName
}

func indexOf(tokens []tokenizer.Token, start int, kind tokenizer.Kind) int {
	for j := start; j < len(tokens); j++ {
		if tokens[j].Kind == kind {
			return j
		}
	}
	return -1
}

// matchingBrace returns the index of the brace closing the one at open, or -1.
func matchingBrace(tokens []tokenizer.Token, open int) int {
	depth := 0
	for j := open; j < len(tokens); j++ {
		switch tokens[j].Kind {
		case tokenizer.LeftBrace:
			depth++
		case tokenizer.RightBrace:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
