package pikalang

import "fmt"

type Parser struct {
	tokens []Token
	idx    int
}

func Parse(tokens []Token) (*Program, error) {
	p := &Parser{
		tokens: tokens,
	}
	program := &Program{}
	if len(tokens) > 0 {
		program.Source = tokens[0].Pos.Source
	}
	for p.cur().Kind != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Stmts = append(program.Stmts, stmt)
	}
	return program, nil
}

func (p *Parser) cur() Token {
	if p.idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.idx]
}

func (p *Parser) peek() Token {
	if p.idx+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.idx+1]
}

func (p *Parser) next() Token {
	tok := p.cur()
	if p.idx < len(p.tokens) {
		p.idx++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return tok, p.unexpected(tok, kind.String())
	}
	p.next()
	return tok, nil
}

func (p *Parser) unexpected(tok Token, expected string) error {
	got := tok.Kind.String()
	if tok.Kind == TokenIdentifier || tok.Kind == TokenNumber {
		got = fmt.Sprintf("%s %q", got, tok.Text)
	}
	return &SyntaxError{
		Message: fmt.Sprintf("expected %s, got %s", expected, got),
		Pos:     tok.Pos,
	}
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.cur()
	switch tok.Kind {

	case TokenIf:
		return p.parseIf()

	case TokenWhile:
		p.next()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlockAfterColon()
		if err != nil {
			return nil, err
		}
		return &WhileStmt{node: node{Pos: tok.Pos}, Cond: cond, Body: body}, nil

	case TokenRepeat:
		p.next()
		count, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenTimes); err != nil {
			return nil, err
		}
		body, err := p.parseBlockAfterColon()
		if err != nil {
			return nil, err
		}
		return &RepeatStmt{node: node{Pos: tok.Pos}, Count: count, Body: body}, nil

	case TokenFor:
		return p.parseFor()

	case TokenDef:
		return p.parseDef()

	case TokenReturn:
		p.next()
		var value Expr
		if p.cur().Kind != TokenNewline {
			var err error
			value, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokenNewline); err != nil {
			return nil, err
		}
		return &ReturnStmt{node: node{Pos: tok.Pos}, Value: value}, nil

	case TokenBreak:
		p.next()
		if _, err := p.expect(TokenNewline); err != nil {
			return nil, err
		}
		return &BreakStmt{node: node{Pos: tok.Pos}}, nil

	case TokenContinue:
		p.next()
		if _, err := p.expect(TokenNewline); err != nil {
			return nil, err
		}
		return &ContinueStmt{node: node{Pos: tok.Pos}}, nil

	case TokenPass:
		p.next()
		if _, err := p.expect(TokenNewline); err != nil {
			return nil, err
		}
		return &PassStmt{node: node{Pos: tok.Pos}}, nil
	}

	return p.parseSimpleStatement()
}

// parseSimpleStatement handles assignments and bare calls.
func (p *Parser) parseSimpleStatement() (Stmt, error) {
	tok := p.cur()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind == TokenAssign {
		switch expr.(type) {
		case *VariableExpr, *IndexExpr, *FieldExpr:
		default:
			return nil, &SyntaxError{
				Message: "cannot assign to this expression",
				Pos:     tok.Pos,
			}
		}
		p.next()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenNewline); err != nil {
			return nil, err
		}
		return &AssignStmt{node: node{Pos: tok.Pos}, Target: expr, Value: value}, nil
	}

	if _, ok := expr.(*CallExpr); !ok {
		return nil, &SyntaxError{
			Message: "expression statement must be a call",
			Pos:     tok.Pos,
		}
	}
	if _, err := p.expect(TokenNewline); err != nil {
		return nil, err
	}
	return &ExprStmt{node: node{Pos: tok.Pos}, Expr: expr}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	tok := p.next() // if or elif
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlockAfterColon()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{node: node{Pos: tok.Pos}, Cond: cond, Then: then}

	switch p.cur().Kind {
	case TokenElif:
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = []Stmt{nested}
	case TokenElse:
		p.next()
		elseBody, err := p.parseBlockAfterColon()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
	}
	return stmt, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	tok := p.next()
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenIn); err != nil {
		return nil, err
	}

	// `for x in range(...)` is its own statement form; anything else
	// iterates the expression's elements
	if p.cur().Kind == TokenIdentifier &&
		canonicalName(p.cur().Text) == "range" &&
		p.peek().Kind == TokenLParen {
		p.next()
		p.next()
		start, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		var stop Expr
		if p.cur().Kind == TokenComma {
			p.next()
			stop, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		} else {
			// range(n) counts from zero
			stop = start
			start = &NumberExpr{node: node{Pos: tok.Pos}, Value: 0}
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		body, err := p.parseBlockAfterColon()
		if err != nil {
			return nil, err
		}
		return &ForRangeStmt{
			node:  node{Pos: tok.Pos},
			Var:   name.Text,
			Start: start,
			Stop:  stop,
			Body:  body,
		}, nil
	}

	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockAfterColon()
	if err != nil {
		return nil, err
	}
	return &ForEachStmt{
		node:     node{Pos: tok.Pos},
		Var:      name.Text,
		Iterable: iterable,
		Body:     body,
	}, nil
}

func (p *Parser) parseDef() (Stmt, error) {
	tok := p.next()
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Kind != TokenRParen {
		param, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		params = append(params, param.Text)
		if p.cur().Kind != TokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlockAfterColon()
	if err != nil {
		return nil, err
	}
	return &FuncDefStmt{
		node:   node{Pos: tok.Pos},
		Name:   name.Text,
		Params: params,
		Body:   body,
	}, nil
}

func (p *Parser) parseBlockAfterColon() ([]Stmt, error) {
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenNewline); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenIndent); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.cur().Kind != TokenDedent && p.cur().Kind != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(TokenDedent); err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, &SyntaxError{
			Message: "empty block",
			Pos:     p.cur().Pos,
		}
	}
	return stmts, nil
}

// expressions, lowest precedence first

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenOr {
		op := p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node: node{Pos: op.Pos}, Op: TokenOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenAnd {
		op := p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node: node{Pos: op.Pos}, Op: TokenAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Expr, error) {
	if p.cur().Kind == TokenNot {
		op := p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{node: node{Pos: op.Pos}, Op: TokenNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		kind := p.cur().Kind
		switch kind {
		case TokenEq, TokenNotEq, TokenLess, TokenGreater, TokenLessEq, TokenGreaterEq:
		default:
			return left, nil
		}
		op := p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node: node{Pos: op.Pos}, Op: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenPlus || p.cur().Kind == TokenMinus {
		op := p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node: node{Pos: op.Pos}, Op: op.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		kind := p.cur().Kind
		switch kind {
		case TokenStar, TokenSlash, TokenFloorDiv, TokenPercent:
		default:
			return left, nil
		}
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node: node{Pos: op.Pos}, Op: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.cur().Kind == TokenMinus {
		op := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{node: node{Pos: op.Pos}, Op: TokenMinus, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {

		case TokenLBracket:
			open := p.next()
			var start, stop Expr
			isSlice := false
			if p.cur().Kind == TokenColon {
				isSlice = true
			} else {
				start, err = p.parseExpression()
				if err != nil {
					return nil, err
				}
			}
			if p.cur().Kind == TokenColon {
				isSlice = true
				p.next()
				if p.cur().Kind != TokenRBracket {
					stop, err = p.parseExpression()
					if err != nil {
						return nil, err
					}
				}
			}
			if _, err := p.expect(TokenRBracket); err != nil {
				return nil, err
			}
			if isSlice {
				expr = &SliceExpr{node: node{Pos: open.Pos}, Target: expr, Start: start, Stop: stop}
			} else {
				expr = &IndexExpr{node: node{Pos: open.Pos}, Target: expr, Index: start}
			}

		case TokenDot:
			dot := p.next()
			name, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			expr = &FieldExpr{node: node{Pos: dot.Pos}, Target: expr, Name: name.Text}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Kind {

	case TokenNumber:
		p.next()
		return &NumberExpr{node: node{Pos: tok.Pos}, Value: tok.Num}, nil

	case TokenString:
		p.next()
		return &StringExpr{node: node{Pos: tok.Pos}, Value: tok.Text}, nil

	case TokenTrue:
		p.next()
		return &BoolExpr{node: node{Pos: tok.Pos}, Value: true}, nil

	case TokenFalse:
		p.next()
		return &BoolExpr{node: node{Pos: tok.Pos}, Value: false}, nil

	case TokenNone:
		p.next()
		return &NoneExpr{node: node{Pos: tok.Pos}}, nil

	case TokenLParen:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case TokenLBracket:
		return p.parseArrayLiteral()

	case TokenLBrace:
		return p.parseObjectLiteral()

	case TokenIdentifier:
		if p.peek().Kind == TokenLParen {
			return p.parseCall()
		}
		p.next()
		return &VariableExpr{node: node{Pos: tok.Pos}, Name: tok.Text}, nil
	}

	return nil, p.unexpected(tok, "expression")
}

func (p *Parser) parseArrayLiteral() (Expr, error) {
	open := p.next()
	var elements []Expr
	for p.cur().Kind != TokenRBracket {
		element, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		if p.cur().Kind != TokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return &ArrayExpr{node: node{Pos: open.Pos}, Elements: elements}, nil
}

func (p *Parser) parseObjectLiteral() (Expr, error) {
	open := p.next()
	obj := &ObjectExpr{node: node{Pos: open.Pos}}
	for p.cur().Kind != TokenRBrace {
		keyTok := p.cur()
		var key string
		switch keyTok.Kind {
		case TokenIdentifier, TokenString:
			key = keyTok.Text
		default:
			return nil, p.unexpected(keyTok, "object key")
		}
		p.next()
		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		obj.Keys = append(obj.Keys, key)
		obj.Values = append(obj.Values, value)
		if p.cur().Kind != TokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *Parser) parseCall() (Expr, error) {
	nameTok := p.next()
	p.next() // (
	var args []Expr
	for p.cur().Kind != TokenRParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Kind != TokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	name := canonicalName(nameTok.Text)
	pos := node{Pos: nameTok.Pos}
	switch name {

	case "len":
		if len(args) != 1 {
			return nil, &SyntaxError{
				Message: "len() expects exactly one argument",
				Pos:     nameTok.Pos,
			}
		}
		return &LenExpr{node: pos, Arg: args[0]}, nil

	case "random":
		if len(args) != 0 {
			return nil, &SyntaxError{
				Message: "random() expects no arguments",
				Pos:     nameTok.Pos,
			}
		}
		return &RandomExpr{node: pos}, nil

	case "randint":
		if len(args) != 2 {
			return nil, &SyntaxError{
				Message: "randint() expects exactly two arguments",
				Pos:     nameTok.Pos,
			}
		}
		return &RandintExpr{node: pos, Min: args[0], Max: args[1]}, nil

	case "range":
		return nil, &SyntaxError{
			Message: "range() is only valid in a for statement",
			Pos:     nameTok.Pos,
		}
	}

	return &CallExpr{node: pos, Name: name, Args: args}, nil
}
