package pikalang

type Token struct {
	Kind TokenKind
	Text string
	Num  float64
	Pos  Pos
}

type TokenKind uint8

const (
	TokenInvalid TokenKind = iota

	TokenEOF
	TokenNewline
	TokenIndent
	TokenDedent

	TokenIdentifier
	TokenNumber
	TokenString

	// keywords
	TokenIf
	TokenElif
	TokenElse
	TokenWhile
	TokenRepeat
	TokenTimes
	TokenFor
	TokenIn
	TokenDef
	TokenReturn
	TokenBreak
	TokenContinue
	TokenPass
	TokenAnd
	TokenOr
	TokenNot
	TokenTrue
	TokenFalse
	TokenNone

	// operators and punctuation
	TokenAssign
	TokenEq
	TokenNotEq
	TokenLess
	TokenGreater
	TokenLessEq
	TokenGreaterEq
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenFloorDiv
	TokenPercent
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenColon
	TokenDot
)

var TokenKindNames = map[TokenKind]string{
	TokenInvalid:    "invalid",
	TokenEOF:        "EOF",
	TokenNewline:    "NEWLINE",
	TokenIndent:     "INDENT",
	TokenDedent:     "DEDENT",
	TokenIdentifier: "IDENTIFIER",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenIf:         "if",
	TokenElif:       "elif",
	TokenElse:       "else",
	TokenWhile:      "while",
	TokenRepeat:     "repeat",
	TokenTimes:      "times",
	TokenFor:        "for",
	TokenIn:         "in",
	TokenDef:        "def",
	TokenReturn:     "return",
	TokenBreak:      "break",
	TokenContinue:   "continue",
	TokenPass:       "pass",
	TokenAnd:        "and",
	TokenOr:         "or",
	TokenNot:        "not",
	TokenTrue:       "true",
	TokenFalse:      "false",
	TokenNone:       "none",
	TokenAssign:     "=",
	TokenEq:         "==",
	TokenNotEq:      "!=",
	TokenLess:       "<",
	TokenGreater:    ">",
	TokenLessEq:     "<=",
	TokenGreaterEq:  ">=",
	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenStar:       "*",
	TokenSlash:      "/",
	TokenFloorDiv:   "//",
	TokenPercent:    "%",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenComma:      ",",
	TokenColon:      ":",
	TokenDot:        ".",
}

func (k TokenKind) String() string {
	if name, ok := TokenKindNames[k]; ok {
		return name
	}
	return "unknown"
}
