package pikalang

// KeywordSpellings maps each keyword token to all of its surface spellings.
// The first entry is the English form, the rest are Chinese forms. Matching
// is exact-string, so CJK identifiers can never collide with a keyword they
// do not spell exactly. Spellings from different rows may be mixed freely
// within one program.
var KeywordSpellings = map[TokenKind][]string{
	TokenIf:       {"if", "如果", "若是"},
	TokenElif:     {"elif", "否则如果", "不然如果"},
	TokenElse:     {"else", "否则", "不然"},
	TokenWhile:    {"while", "当", "只要"},
	TokenRepeat:   {"repeat", "重复", "反复"},
	TokenTimes:    {"times", "次", "遍"},
	TokenFor:      {"for", "对于", "逐个"},
	TokenIn:       {"in", "在", "位于"},
	TokenDef:      {"def", "定义", "函数"},
	TokenReturn:   {"return", "返回", "返还"},
	TokenBreak:    {"break", "跳出", "中断"},
	TokenContinue: {"continue", "继续", "接着"},
	TokenPass:     {"pass", "通过", "略过"},
	TokenAnd:      {"and", "并且", "且"},
	TokenOr:       {"or", "或者", "或"},
	TokenNot:      {"not", "不是", "非"},
	TokenTrue:     {"true", "真", "对"},
	TokenFalse:    {"false", "假", "错"},
	TokenNone:     {"none", "无", "空"},
}

var keywords = func() map[string]TokenKind {
	m := make(map[string]TokenKind)
	for kind, spellings := range KeywordSpellings {
		for _, s := range spellings {
			m[s] = kind
		}
	}
	return m
}()

// builtinSpellings maps alternate spellings of built-in function names onto
// their canonical names. The parser consults this table, so 打印(x) and
// print(x) produce the same node.
var builtinSpellings = map[string]string{
	"打印":   "print",
	"添加":   "append",
	"弹出":   "pop",
	"插入":   "insert",
	"长度":   "len",
	"随机数":  "random",
	"随机整数": "randint",
	"范围":   "range",
}

// BuiltinNames is the fixed set of names that select the special statement
// and expression forms at parse time.
var BuiltinNames = map[string]bool{
	"print":   true,
	"append":  true,
	"pop":     true,
	"insert":  true,
	"len":     true,
	"random":  true,
	"randint": true,
	"range":   true,
}

func canonicalName(name string) string {
	if canon, ok := builtinSpellings[name]; ok {
		return canon
	}
	return name
}
