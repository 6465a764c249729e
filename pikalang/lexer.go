package pikalang

import (
	"fmt"
	"strconv"
	"unicode"
)

const tabWidth = 4

type Lexer struct {
	source *Source
	runes  []rune
	idx    int
	line   int
	col    int

	indents       []int
	tokens        []Token
	bracketDepth  int
	startOfLine   bool
	lineHasTokens bool
}

func Tokenize(source *Source) ([]Token, error) {
	l := &Lexer{
		source:      source,
		runes:       []rune(source.Content),
		line:        1,
		col:         1,
		indents:     []int{0},
		startOfLine: true,
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *Lexer) pos() Pos {
	return Pos{
		Source: l.source,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *Lexer) peek() (rune, bool) {
	if l.idx >= len(l.runes) {
		return 0, false
	}
	return l.runes[l.idx], true
}

func (l *Lexer) advance() rune {
	r := l.runes[l.idx]
	l.idx++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) run() error {
	for l.idx < len(l.runes) {
		if l.startOfLine && l.bracketDepth == 0 {
			if err := l.lexLineStart(); err != nil {
				return err
			}
			continue
		}
		if err := l.lexToken(); err != nil {
			return err
		}
	}

	if l.lineHasTokens {
		l.emit(Token{Kind: TokenNewline, Pos: l.pos()})
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(Token{Kind: TokenDedent, Pos: l.pos()})
	}
	l.emit(Token{Kind: TokenEOF, Pos: l.pos()})
	return nil
}

// lexLineStart measures the leading whitespace of a physical line and emits
// INDENT/DEDENT tokens. Blank lines and comment-only lines are consumed
// whole and emit nothing, not even a NEWLINE.
func (l *Lexer) lexLineStart() error {
	width := 0
	for {
		r, ok := l.peek()
		if !ok {
			return nil
		}
		if r == ' ' {
			width++
			l.advance()
		} else if r == '\t' {
			width += tabWidth
			l.advance()
		} else {
			break
		}
	}

	r, ok := l.peek()
	if !ok {
		return nil
	}
	if r == '\n' {
		l.advance()
		return nil
	}
	if r == '#' {
		for {
			r, ok := l.peek()
			if !ok {
				return nil
			}
			l.advance()
			if r == '\n' {
				return nil
			}
		}
	}

	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.emit(Token{Kind: TokenIndent, Pos: l.pos()})
	case width < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(Token{Kind: TokenDedent, Pos: l.pos()})
		}
		if l.indents[len(l.indents)-1] != width {
			return &SyntaxError{
				Message: "unindent does not match any outer indentation level",
				Pos:     l.pos(),
			}
		}
	}

	l.startOfLine = false
	l.lineHasTokens = false
	return nil
}

func (l *Lexer) lexToken() error {
	r, ok := l.peek()
	if !ok {
		return nil
	}

	if r == ' ' || r == '\t' {
		l.advance()
		return nil
	}

	if r == '\n' {
		l.advance()
		if l.bracketDepth > 0 {
			return nil
		}
		if l.lineHasTokens {
			l.emit(Token{Kind: TokenNewline, Pos: Pos{Source: l.source, Line: l.line - 1, Column: 1}})
			l.lineHasTokens = false
		}
		l.startOfLine = true
		return nil
	}

	if r == '#' {
		for {
			r, ok := l.peek()
			if !ok || r == '\n' {
				return nil
			}
			l.advance()
		}
	}

	startPos := l.pos()

	if unicode.IsDigit(r) {
		return l.lexNumber(startPos)
	}
	if r == '"' || r == '\'' {
		return l.lexString(startPos)
	}
	if isIdentStart(r) {
		return l.lexIdentifier(startPos)
	}
	return l.lexOperator(startPos)
}

func (l *Lexer) lexNumber(startPos Pos) error {
	start := l.idx
	for {
		r, ok := l.peek()
		if !ok || !unicode.IsDigit(r) {
			break
		}
		l.advance()
	}
	if r, ok := l.peek(); ok && r == '.' &&
		l.idx+1 < len(l.runes) && unicode.IsDigit(l.runes[l.idx+1]) {
		l.advance()
		for {
			r, ok := l.peek()
			if !ok || !unicode.IsDigit(r) {
				break
			}
			l.advance()
		}
	}
	text := string(l.runes[start:l.idx])
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return &SyntaxError{
			Message: fmt.Sprintf("bad number literal %q", text),
			Pos:     startPos,
		}
	}
	l.emitValue(Token{Kind: TokenNumber, Text: text, Num: num, Pos: startPos})
	return nil
}

func (l *Lexer) lexString(startPos Pos) error {
	quote := l.advance()
	var text []rune
	for {
		r, ok := l.peek()
		if !ok || r == '\n' {
			return &SyntaxError{
				Message: "unterminated string literal",
				Pos:     startPos,
			}
		}
		l.advance()
		if r == quote {
			break
		}
		if r == '\\' {
			esc, ok := l.peek()
			if !ok {
				return &SyntaxError{
					Message: "unterminated string literal",
					Pos:     startPos,
				}
			}
			l.advance()
			switch esc {
			case 'n':
				text = append(text, '\n')
			case 't':
				text = append(text, '\t')
			case '"':
				text = append(text, '"')
			case '\'':
				text = append(text, '\'')
			case '\\':
				text = append(text, '\\')
			default:
				return &SyntaxError{
					Message: fmt.Sprintf("unknown escape sequence \\%c", esc),
					Pos:     startPos,
				}
			}
			continue
		}
		text = append(text, r)
	}
	l.emitValue(Token{Kind: TokenString, Text: string(text), Pos: startPos})
	return nil
}

func (l *Lexer) lexIdentifier(startPos Pos) error {
	start := l.idx
	for {
		r, ok := l.peek()
		if !ok || !isIdentPart(r) {
			break
		}
		l.advance()
	}
	text := string(l.runes[start:l.idx])
	if kind, ok := keywords[text]; ok {
		l.emitValue(Token{Kind: kind, Text: text, Pos: startPos})
		return nil
	}
	l.emitValue(Token{Kind: TokenIdentifier, Text: text, Pos: startPos})
	return nil
}

func (l *Lexer) lexOperator(startPos Pos) error {
	r := l.advance()
	kind := TokenInvalid
	text := string(r)

	next, _ := l.peek()
	switch r {
	case '=':
		if next == '=' {
			l.advance()
			kind, text = TokenEq, "=="
		} else {
			kind = TokenAssign
		}
	case '!':
		if next == '=' {
			l.advance()
			kind, text = TokenNotEq, "!="
		}
	case '<':
		if next == '=' {
			l.advance()
			kind, text = TokenLessEq, "<="
		} else {
			kind = TokenLess
		}
	case '>':
		if next == '=' {
			l.advance()
			kind, text = TokenGreaterEq, ">="
		} else {
			kind = TokenGreater
		}
	case '+':
		kind = TokenPlus
	case '-':
		kind = TokenMinus
	case '*':
		kind = TokenStar
	case '/':
		if next == '/' {
			l.advance()
			kind, text = TokenFloorDiv, "//"
		} else {
			kind = TokenSlash
		}
	case '%':
		kind = TokenPercent
	case '(':
		kind = TokenLParen
		l.bracketDepth++
	case ')':
		kind = TokenRParen
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
	case '[':
		kind = TokenLBracket
		l.bracketDepth++
	case ']':
		kind = TokenRBracket
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
	case '{':
		kind = TokenLBrace
		l.bracketDepth++
	case '}':
		kind = TokenRBrace
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
	case ',':
		kind = TokenComma
	case ':':
		kind = TokenColon
	case '.':
		kind = TokenDot
	}

	if kind == TokenInvalid {
		return &SyntaxError{
			Message: fmt.Sprintf("unrecognized character %q", r),
			Pos:     startPos,
		}
	}
	l.emitValue(Token{Kind: kind, Text: text, Pos: startPos})
	return nil
}

func (l *Lexer) emitValue(tok Token) {
	l.lineHasTokens = true
	l.emit(tok)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
