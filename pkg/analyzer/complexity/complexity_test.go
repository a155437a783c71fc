package complexity

import (
	"testing"

	"github.com/panbanda/mccabre/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_FileComplexity(t *testing.T) {
	tests := []struct {
		name   string
		source string
		lang   tokenizer.Language
		want   int
	}{
		{
			name:   "empty",
			source: "",
			lang:   tokenizer.LangRust,
			want:   1,
		},
		{
			name:   "straight line",
			source: "fn simple() {\n    let x = 5;\n    return x;\n}\n",
			lang:   tokenizer.LangRust,
			want:   1,
		},
		{
			name:   "single if",
			source: "fn check(x: i32) {\n    if x > 5 {\n        println!(\"big\");\n    }\n}\n",
			lang:   tokenizer.LangRust,
			want:   2,
		},
		{
			name: "multiple decision points",
			source: `
fn complex(x: i32, y: i32) {
    if x > 0 && y > 0 {
        while x < 10 {
            x += 1;
        }
    } else if x < 0 {
        for i in 0..5 {
            println!("{}", i);
        }
    }
}
`,
			lang: tokenizer.LangRust,
			want: 6,
		},
		{
			name:   "ternary",
			source: "let x = condition ? true_value : false_value;\nlet y = a && b ? c : d;\n",
			lang:   tokenizer.LangJavaScript,
			want:   4,
		},
		{
			name:   "switch case",
			source: "switch (x) {\n    case 1:\n        break;\n    case 2:\n        break;\n    default:\n        break;\n}\n",
			lang:   tokenizer.LangJavaScript,
			want:   4,
		},
		{
			name:   "logical operators",
			source: "if (a && b || c && d || e) { x } else if (f || g && h) { y }",
			lang:   tokenizer.LangJava,
			want:   9,
		},
		{
			name:   "if and while",
			source: "if (a && b) { while(c) {} }",
			lang:   tokenizer.LangCPP,
			want:   4,
		},
		{
			name:   "catch counts",
			source: "try { f() } catch (e) { g() }",
			lang:   tokenizer.LangTypeScript,
			want:   2,
		},
		{
			name:   "keywords in strings and comments ignored",
			source: "// if while for\nx = \"if && ||\"; /* case ? */",
			lang:   tokenizer.LangGo,
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Calculate(tt.source, tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.FileComplexity)
			assert.GreaterOrEqual(t, m.FileComplexity, 1)
		})
	}
}

func TestCalculate_FunctionDetectionRust(t *testing.T) {
	src := `
fn simple() {
    let x = 5;
}

fn complex() {
    if true {
        while false {
            loop { break; }
        }
    }
}
`
	m, err := Calculate(src, tokenizer.LangRust)
	require.NoError(t, err)
	require.Len(t, m.Functions, 2)

	assert.Equal(t, FunctionComplexity{Name: "simple", Complexity: 1, Line: 2}, m.Functions[0])
	assert.Equal(t, FunctionComplexity{Name: "complex", Complexity: 4, Line: 6}, m.Functions[1])
	assert.Equal(t, 4, m.FileComplexity)
}

func TestCalculate_FunctionDetectionJavaScript(t *testing.T) {
	src := "function hello() {\n    if (x) { return 1; }\n}\n"
	m, err := Calculate(src, tokenizer.LangJavaScript)
	require.NoError(t, err)
	require.NotEmpty(t, m.Functions)
	assert.Equal(t, "hello", m.Functions[0].Name)
	assert.Equal(t, 2, m.Functions[0].Complexity)
	assert.Equal(t, 2, m.FileComplexity)
}

func TestCalculate_AnonymousFunction(t *testing.T) {
	src := "const f = function (a) { return a ? 1 : 2; };"
	m, err := Calculate(src, tokenizer.LangJavaScript)
	require.NoError(t, err)
	require.Len(t, m.Functions, 1)
	assert.Equal(t, AnonymousName, m.Functions[0].Name)
	assert.Equal(t, 2, m.Functions[0].Complexity)
}

func TestCalculate_NestedFunctionsNotRescanned(t *testing.T) {
	src := "func outer() {\n    f := func() { if x {} }\n}\n"
	m, err := Calculate(src, tokenizer.LangGo)
	require.NoError(t, err)
	require.Len(t, m.Functions, 1)
	assert.Equal(t, "outer", m.Functions[0].Name)
	assert.Equal(t, 2, m.Functions[0].Complexity)
}

func TestCalculate_BracesInStringsIgnored(t *testing.T) {
	src := "func a() {\n    s := \"}}}\"\n    if s != \"\" {}\n}\nfunc b() {}\n"
	m, err := Calculate(src, tokenizer.LangGo)
	require.NoError(t, err)
	require.Len(t, m.Functions, 2)
	assert.Equal(t, 2, m.Functions[0].Complexity)
	assert.Equal(t, "b", m.Functions[1].Name)
	assert.Equal(t, 5, m.Functions[1].Line)
}

func TestCalculate_UnmatchedBraceDiscarded(t *testing.T) {
	src := "fn broken() {\n    if x {\n"
	m, err := Calculate(src, tokenizer.LangRust)
	require.NoError(t, err)
	assert.Empty(t, m.Functions)
	assert.Equal(t, 2, m.FileComplexity)
}

func TestCalculate_HeaderWithoutBody(t *testing.T) {
	m, err := Calculate("fn declared();", tokenizer.LangRust)
	require.NoError(t, err)
	assert.Empty(t, m.Functions)
}

func TestFromTokens_ConsistentWithSignificantTokens(t *testing.T) {
	src := "// if\nfunc f() { if a && b { for {} } }\n"
	tokens, err := tokenizer.Tokenize(src, tokenizer.LangGo)
	require.NoError(t, err)

	all := FromTokens(tokens)
	sig := FromTokens(tokenizer.Significant(tokens))
	assert.Equal(t, all.FileComplexity, sig.FileComplexity)
	assert.Equal(t, tokenizer.CountDecisionPoints(tokenizer.Significant(tokens))+1, all.FileComplexity)
}
