package pikalang

// Compile turns source text into a Program. It returns a *SyntaxError on the
// first lexing or parsing failure; no partial Program is ever returned.
func Compile(name string, content string) (*Program, error) {
	source := NewSource(name, content)
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	program, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	program.Source = source
	return program, nil
}
