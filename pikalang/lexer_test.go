package pikalang

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	type TokenInfo struct {
		Kind TokenKind
		Text string
	}

	tests := []struct {
		input  string
		tokens []TokenInfo
	}{
		{
			input: "x = 5 == 5",
			tokens: []TokenInfo{
				{TokenIdentifier, "x"},
				{TokenAssign, "="},
				{TokenNumber, "5"},
				{TokenEq, "=="},
				{TokenNumber, "5"},
				{TokenNewline, ""},
				{TokenEOF, ""},
			},
		},
		{
			input: "123 45.67",
			tokens: []TokenInfo{
				{TokenNumber, "123"},
				{TokenNumber, "45.67"},
				{TokenNewline, ""},
				{TokenEOF, ""},
			},
		},
		{
			input: `'str1' "str2"`,
			tokens: []TokenInfo{
				{TokenString, "str1"},
				{TokenString, "str2"},
				{TokenNewline, ""},
				{TokenEOF, ""},
			},
		},
		{
			input: `"a\nb\t\"c\""`,
			tokens: []TokenInfo{
				{TokenString, "a\nb\t\"c\""},
				{TokenNewline, ""},
				{TokenEOF, ""},
			},
		},
		{
			input: "if x:\n    pass",
			tokens: []TokenInfo{
				{TokenIf, "if"},
				{TokenIdentifier, "x"},
				{TokenColon, ":"},
				{TokenNewline, ""},
				{TokenIndent, ""},
				{TokenPass, "pass"},
				{TokenNewline, ""},
				{TokenDedent, ""},
				{TokenEOF, ""},
			},
		},
		{
			input: "如果 真:\n\t跳出",
			tokens: []TokenInfo{
				{TokenIf, "如果"},
				{TokenTrue, "真"},
				{TokenColon, ":"},
				{TokenNewline, ""},
				{TokenIndent, ""},
				{TokenBreak, "跳出"},
				{TokenNewline, ""},
				{TokenDedent, ""},
				{TokenEOF, ""},
			},
		},
		{
			// newlines inside brackets do not end the statement
			input: "x = [1,\n  2]",
			tokens: []TokenInfo{
				{TokenIdentifier, "x"},
				{TokenAssign, "="},
				{TokenLBracket, "["},
				{TokenNumber, "1"},
				{TokenComma, ","},
				{TokenNumber, "2"},
				{TokenRBracket, "]"},
				{TokenNewline, ""},
				{TokenEOF, ""},
			},
		},
		{
			// blank and comment-only lines emit nothing
			input: "x = 1\n\n# comment\ny = 2",
			tokens: []TokenInfo{
				{TokenIdentifier, "x"},
				{TokenAssign, "="},
				{TokenNumber, "1"},
				{TokenNewline, ""},
				{TokenIdentifier, "y"},
				{TokenAssign, "="},
				{TokenNumber, "2"},
				{TokenNewline, ""},
				{TokenEOF, ""},
			},
		},
		{
			input: "a // b % c",
			tokens: []TokenInfo{
				{TokenIdentifier, "a"},
				{TokenFloorDiv, "//"},
				{TokenIdentifier, "b"},
				{TokenPercent, "%"},
				{TokenIdentifier, "c"},
				{TokenNewline, ""},
				{TokenEOF, ""},
			},
		},
	}

	for _, test := range tests {
		tokens, err := Tokenize(NewSource("test", test.input))
		if err != nil {
			t.Fatalf("input %q: %v", test.input, err)
		}
		if len(tokens) != len(test.tokens) {
			t.Fatalf("input %q: expected %d tokens, got %d: %v",
				test.input, len(test.tokens), len(tokens), tokens)
		}
		for i, expected := range test.tokens {
			if tokens[i].Kind != expected.Kind {
				t.Fatalf("input %q token %d: expected kind %v, got %v",
					test.input, i, expected.Kind, tokens[i].Kind)
			}
			if expected.Text != "" && tokens[i].Text != expected.Text {
				t.Fatalf("input %q token %d: expected text %q, got %q",
					test.input, i, expected.Text, tokens[i].Text)
			}
		}
	}
}

func TestTokenizeIndentBalance(t *testing.T) {
	input := strings.Join([]string{
		"def f():",
		"    if true:",
		"        pass",
		"    pass",
		"pass",
	}, "\n")
	tokens, err := Tokenize(NewSource("test", input))
	if err != nil {
		t.Fatal(err)
	}
	indents := 0
	dedents := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenIndent:
			indents++
		case TokenDedent:
			dedents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Fatalf("expected 2 indents and 2 dedents, got %d and %d", indents, dedents)
	}
}

func TestTokenizeKeywordSpellings(t *testing.T) {
	for kind, spellings := range KeywordSpellings {
		for _, spelling := range spellings {
			tokens, err := Tokenize(NewSource("test", spelling))
			if err != nil {
				t.Fatal(err)
			}
			if tokens[0].Kind != kind {
				t.Fatalf("spelling %q: expected %v, got %v", spelling, kind, tokens[0].Kind)
			}
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"x = 'oops", "unterminated string literal"},
		{"x = 1 $ 2", "unrecognized character"},
		{"x = '\\q'", "unknown escape sequence"},
		{"if x:\n        pass\n   pass", "unindent does not match"},
	}
	for _, test := range tests {
		_, err := Tokenize(NewSource("test", test.input))
		if err == nil {
			t.Fatalf("input %q: expected error", test.input)
		}
		if !strings.Contains(err.Error(), test.message) {
			t.Fatalf("input %q: expected %q in error, got %q",
				test.input, test.message, err.Error())
		}
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize(NewSource("test", "x = 1\ny = 2"))
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Fatalf("got %d:%d", tokens[0].Pos.Line, tokens[0].Pos.Column)
	}
	// y on line 2
	if tokens[4].Pos.Line != 2 {
		t.Fatalf("got line %d", tokens[4].Pos.Line)
	}
}
