package pikavm

import (
	"math"
	"strconv"
	"strings"
)

// Format renders a value the way print shows it: numbers drop a trailing
// ".0", strings appear bare. Strings nested inside arrays or objects are
// quoted.
func Format(v Value) string {
	if v.Kind == KindString {
		return v.Str
	}
	return formatNested(v)
}

func formatNested(v Value) string {
	switch v.Kind {

	case KindNone:
		return "none"

	case KindNumber:
		return FormatNumber(v.Num)

	case KindString:
		return strconv.Quote(v.Str)

	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"

	case KindArray:
		var sb strings.Builder
		sb.WriteString("[")
		for i, elem := range v.Arr.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatNested(elem))
		}
		sb.WriteString("]")
		return sb.String()

	case KindObject:
		var sb strings.Builder
		sb.WriteString("{")
		for i, key := range v.Obj.Keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(key)
			sb.WriteString(": ")
			sb.WriteString(formatNested(v.Obj.Fields[key]))
		}
		sb.WriteString("}")
		return sb.String()

	case KindFunc:
		return "<function " + v.Fn.Name + ">"
	}

	return "<invalid>"
}

func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
