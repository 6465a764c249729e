package pikalang

// Program is the parsed, immutable tree of statements. It is safe to share
// one Program between any number of VM instances.
type Program struct {
	Stmts  []Stmt
	Source *Source
}

type Node interface {
	NodePos() Pos
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type node struct {
	Pos Pos
}

func (n node) NodePos() Pos { return n.Pos }

// statements

type AssignStmt struct {
	node
	// Target is a VariableExpr, IndexExpr, or FieldExpr
	Target Expr
	Value  Expr
}

type IfStmt struct {
	node
	Cond Expr
	Then []Stmt
	// Else is nil, an else block, or a single nested IfStmt for elif
	Else []Stmt
}

type WhileStmt struct {
	node
	Cond Expr
	Body []Stmt
}

type RepeatStmt struct {
	node
	Count Expr
	Body  []Stmt
}

type ForRangeStmt struct {
	node
	Var   string
	Start Expr
	Stop  Expr
	Body  []Stmt
}

type ForEachStmt struct {
	node
	Var      string
	Iterable Expr
	Body     []Stmt
}

type FuncDefStmt struct {
	node
	Name   string
	Params []string
	Body   []Stmt
}

type ReturnStmt struct {
	node
	Value Expr // nil for bare return
}

type BreakStmt struct {
	node
}

type ContinueStmt struct {
	node
}

type PassStmt struct {
	node
}

type ExprStmt struct {
	node
	Expr Expr
}

func (AssignStmt) stmtNode()   {}
func (IfStmt) stmtNode()       {}
func (WhileStmt) stmtNode()    {}
func (RepeatStmt) stmtNode()   {}
func (ForRangeStmt) stmtNode() {}
func (ForEachStmt) stmtNode()  {}
func (FuncDefStmt) stmtNode()  {}
func (ReturnStmt) stmtNode()   {}
func (BreakStmt) stmtNode()    {}
func (ContinueStmt) stmtNode() {}
func (PassStmt) stmtNode()     {}
func (ExprStmt) stmtNode()     {}

// expressions

type NumberExpr struct {
	node
	Value float64
}

type StringExpr struct {
	node
	Value string
}

type BoolExpr struct {
	node
	Value bool
}

type NoneExpr struct {
	node
}

type VariableExpr struct {
	node
	Name string
}

type UnaryExpr struct {
	node
	Op      TokenKind // TokenNot or TokenMinus
	Operand Expr
}

type BinaryExpr struct {
	node
	Op    TokenKind
	Left  Expr
	Right Expr
}

type ArrayExpr struct {
	node
	Elements []Expr
}

type ObjectExpr struct {
	node
	Keys   []string
	Values []Expr
}

type IndexExpr struct {
	node
	Target Expr
	Index  Expr
}

type SliceExpr struct {
	node
	Target Expr
	Start  Expr // nil when omitted
	Stop   Expr // nil when omitted
}

type FieldExpr struct {
	node
	Target Expr
	Name   string
}

type LenExpr struct {
	node
	Arg Expr
}

type RandomExpr struct {
	node
}

type RandintExpr struct {
	node
	Min Expr
	Max Expr
}

type CallExpr struct {
	node
	// Name is canonical: alternate spellings of built-in names are folded
	// by the parser
	Name string
	Args []Expr
}

func (NumberExpr) exprNode()   {}
func (StringExpr) exprNode()   {}
func (BoolExpr) exprNode()     {}
func (NoneExpr) exprNode()     {}
func (VariableExpr) exprNode() {}
func (UnaryExpr) exprNode()    {}
func (BinaryExpr) exprNode()   {}
func (ArrayExpr) exprNode()    {}
func (ObjectExpr) exprNode()   {}
func (IndexExpr) exprNode()    {}
func (SliceExpr) exprNode()    {}
func (FieldExpr) exprNode()    {}
func (LenExpr) exprNode()      {}
func (RandomExpr) exprNode()   {}
func (RandintExpr) exprNode()  {}
func (CallExpr) exprNode()     {}
