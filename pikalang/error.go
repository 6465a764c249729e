package pikalang

import (
	"fmt"
	"strings"
)

// SyntaxError reports a lexing or parsing failure. Compilation aborts on the
// first one; no partial program is ever produced.
type SyntaxError struct {
	Message string
	Pos     Pos
}

func (e *SyntaxError) Error() string {
	if e.Pos.Source == nil {
		return fmt.Sprintf("syntax error: %s at line %d", e.Message, e.Pos.Line)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("syntax error: %s at %s:%d:%d\n",
		e.Message, e.Pos.Source.Name, e.Pos.Line, e.Pos.Column))

	// Line content
	lines := e.Pos.Source.Lines
	idx := e.Pos.Line - 1
	if idx >= 0 && idx < len(lines) {
		line := lines[idx]
		sb.WriteString(line)
		sb.WriteString("\n")

		// Caret
		runes := []rune(line)
		col := e.Pos.Column - 1
		for i, r := range runes {
			if i >= col {
				break
			}
			if r == '\t' {
				sb.WriteString("\t")
			} else {
				w := runeWidth(r)
				for k := 0; k < w; k++ {
					sb.WriteString(" ")
				}
			}
		}
		sb.WriteString("^")
	}

	return sb.String()
}

func runeWidth(r rune) int {
	if r == 0 {
		return 0
	}
	if r >= 0x1100 &&
		(r <= 0x115f || r == 0x2329 || r == 0x232a ||
			(r >= 0x2e80 && r <= 0xa4cf && r != 0x303f) ||
			(r >= 0xac00 && r <= 0xd7a3) ||
			(r >= 0xf900 && r <= 0xfaff) ||
			(r >= 0xfe10 && r <= 0xfe19) ||
			(r >= 0xfe30 && r <= 0xfe6f) ||
			(r >= 0xff00 && r <= 0xff60) ||
			(r >= 0xffe0 && r <= 0xffe6)) {
		return 2
	}
	return 1
}
