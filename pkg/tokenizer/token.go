package tokenizer

import "fmt"

// Kind classifies a lexical token.
type Kind int

const (
	// Control flow keywords
	If Kind = iota
	Else
	ElseIf
	While
	For
	Loop
	Match
	Switch
	Case
	Default
	Catch

	// Logical operators
	LogicalAnd
	LogicalOr
	Ternary

	Operator
	Identifier
	Literal

	// Punctuation
	LeftBrace
	RightBrace
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	Semicolon
	Comma

	Comment
	Whitespace
	Newline
	Unknown
)

var kindNames = [...]string{
	If:           "if",
	Else:         "else",
	ElseIf:       "elif",
	While:        "while",
	For:          "for",
	Loop:         "loop",
	Match:        "match",
	Switch:       "switch",
	Case:         "case",
	Default:      "default",
	Catch:        "catch",
	LogicalAnd:   "logical_and",
	LogicalOr:    "logical_or",
	Ternary:      "ternary",
	Operator:     "operator",
	Identifier:   "identifier",
	Literal:      "literal",
	LeftBrace:    "left_brace",
	RightBrace:   "right_brace",
	LeftParen:    "left_paren",
	RightParen:   "right_paren",
	LeftBracket:  "left_bracket",
	RightBracket: "right_bracket",
	Semicolon:    "semicolon",
	Comma:        "comma",
	Comment:      "comment",
	Whitespace:   "whitespace",
	Newline:      "newline",
	Unknown:      "unknown",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsDecisionPoint reports whether the kind adds a path to cyclomatic complexity.
// Else and Default do not.
func (k Kind) IsDecisionPoint() bool {
	switch k {
	case If, ElseIf, While, For, Loop, Match, Switch, Case, Catch,
		LogicalAnd, LogicalOr, Ternary:
		return true
	default:
		return false
	}
}

// IsSignificant reports whether the kind carries code, as opposed to
// comments or layout.
func (k Kind) IsSignificant() bool {
	switch k {
	case Comment, Whitespace, Newline:
		return false
	default:
		return true
	}
}

var keywords = map[string]Kind{
	"if":      If,
	"else":    Else,
	"elif":    ElseIf,
	"while":   While,
	"for":     For,
	"loop":    Loop,
	"match":   Match,
	"switch":  Switch,
	"case":    Case,
	"default": Default,
	"catch":   Catch,
}

// LookupIdent returns the keyword kind for ident, or Identifier.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Identifier
}

// Token is a single lexical unit with its 1-based position.
type Token struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Text)
}

// Significant returns the tokens that are not comments or layout.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind.IsSignificant() {
			out = append(out, t)
		}
	}
	return out
}

// CountDecisionPoints counts tokens that are decision points.
func CountDecisionPoints(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.Kind.IsDecisionPoint() {
			n++
		}
	}
	return n
}
