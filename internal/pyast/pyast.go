// Package pyast defines a closed, tagged-variant syntax tree for Python
// source units, plus a tree-sitter front-end that produces it.
//
// The node taxonomy is deliberately closed: every variant's fields are
// statically known, so consumers dispatch exhaustively instead of probing
// for attributes. Anything the grammar produces that carries no
// version-relevant structure is lowered into the generic container
// variants (Tuple, BinOp, ...) so traversals still reach nested
// expressions.
package pyast

// Position is a 1-based line and 0-based column, matching tree-sitter rows
// and columns.
type Position struct {
	Line int
	Col  int
}

// Node is implemented by every syntax-tree variant.
type Node interface {
	Pos() Position
}

// Stmt is a statement variant.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression variant.
type Expr interface {
	Node
	exprNode()
}

type pos struct {
	P Position
}

func (p pos) Pos() Position { return p.P }

// Module is the root of one parsed source unit.
type Module struct {
	pos
	Body []Stmt
}

// ImportName is one clause of an import statement: a dotted path and an
// optional local alias.
type ImportName struct {
	Path   string
	AsName string
}

// Import is `import a.b, c as d`.
type Import struct {
	pos
	Names []ImportName
}

// ImportFrom is `from mod import x, y as z` or `from mod import *`.
// Star imports carry Star=true and no names.
type ImportFrom struct {
	pos
	Module string
	Names  []ImportName
	// Star marks `from X import *`. Names stays empty: the imported
	// members are unknown, so downstream passes see only the module.
	Star bool
}

// Param is one formal parameter, with optional annotation and default.
type Param struct {
	Name       string
	Annotation Expr
	Default    Expr
}

// FunctionDef covers both `def` and `async def`.
type FunctionDef struct {
	pos
	Name       string
	Params     []Param
	Returns    Expr
	Body       []Stmt
	Decorators []Expr
	Async      bool
}

// ClassDef is a class definition; Bases holds the superclass expressions.
type ClassDef struct {
	pos
	Name       string
	Bases      []Expr
	Body       []Stmt
	Decorators []Expr
}

// Assign is `a = b = value`.
type Assign struct {
	pos
	Targets []Expr
	Value   Expr
}

// AugAssign is `target op= value`.
type AugAssign struct {
	pos
	Target Expr
	Value  Expr
}

// AnnAssign is `target: annotation = value`; Value may be nil.
type AnnAssign struct {
	pos
	Target     Expr
	Annotation Expr
	Value      Expr
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	pos
	Value Expr
}

// PrintStmt is the legacy Python 2 print statement (`print "x"`).
type PrintStmt struct {
	pos
	Values []Expr
}

// Return is `return value`; Value may be nil.
type Return struct {
	pos
	Value Expr
}

// Raise is `raise exc from cause`; both fields may be nil.
type Raise struct {
	pos
	Exc   Expr
	Cause Expr
}

// Delete is `del targets`.
type Delete struct {
	pos
	Targets []Expr
}

// Global is `global names` (also used for nonlocal).
type Global struct {
	pos
	Names []string
}

// Pass is `pass`, `break`, or `continue`: statements with no structure.
type Pass struct {
	pos
}

// If is a conditional statement; lax mode skips the whole node.
type If struct {
	pos
	Cond Expr
	Body []Stmt
	Else []Stmt
}

// For is a (possibly async) for loop.
type For struct {
	pos
	Target Expr
	Iter   Expr
	Body   []Stmt
	Else   []Stmt
}

// While is a while loop.
type While struct {
	pos
	Cond Expr
	Body []Stmt
	Else []Stmt
}

// ExceptHandler is one `except type as name:` clause.
type ExceptHandler struct {
	Type Expr
	Name string
	Body []Stmt
}

// Try is a try/except/else/finally statement.
type Try struct {
	pos
	Body     []Stmt
	Handlers []ExceptHandler
	Else     []Stmt
	Finally  []Stmt
}

// WithItem is one `context as var` clause.
type WithItem struct {
	Context Expr
	Var     Expr
}

// With is a (possibly async) with statement.
type With struct {
	pos
	Items []WithItem
	Body  []Stmt
}

// Name is a bare identifier.
type Name struct {
	pos
	ID string
}

// Attribute is `value.attr`.
type Attribute struct {
	pos
	Value Expr
	Attr  string
}

// Keyword is one keyword argument of a call; Name is empty for `**kwargs`.
type Keyword struct {
	Name  string
	Value Expr
	P     Position
}

// Call is `func(args, kw=...)`.
type Call struct {
	pos
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

// StringLit is a string literal. Bytes marks b''-prefixed literals,
// FString marks f''-prefixed ones. Value is the unquoted content with the
// prefix stripped; for f-strings it is the literal text between the quotes
// including interpolation braces.
type StringLit struct {
	pos
	Value   string
	Bytes   bool
	FString bool
}

// NumberLit is an integer or float literal; the collector never needs the
// numeric value, only the token.
type NumberLit struct {
	pos
	Text string
}

// BoolLit is the True or False singleton.
type BoolLit struct {
	pos
	Value bool
}

// NoneLit is the None singleton.
type NoneLit struct {
	pos
}

// Tuple is also used for parenthesized expression lists.
type Tuple struct {
	pos
	Elts []Expr
}

// List is a list display.
type List struct {
	pos
	Elts []Expr
}

// Set is a set display.
type Set struct {
	pos
	Elts []Expr
}

// DictItem is one `key: value` pair; Key is nil for `**mapping`.
type DictItem struct {
	Key   Expr
	Value Expr
}

// Dict is a dict display.
type Dict struct {
	pos
	Items []DictItem
}

// Subscript is `value[index]`.
type Subscript struct {
	pos
	Value Expr
	Index Expr
}

// BinOp is any binary arithmetic/bitwise operation, and also comparison
// chains; the operator itself is version-neutral so it is not recorded.
type BinOp struct {
	pos
	Left  Expr
	Right Expr
}

// UnaryOp is `op operand`.
type UnaryOp struct {
	pos
	Operand Expr
}

// BoolOp is `a and b or c`; lax mode skips the whole node.
type BoolOp struct {
	pos
	Values []Expr
}

// IfExp is `body if cond else orelse`; lax mode skips the whole node.
type IfExp struct {
	pos
	Cond   Expr
	Body   Expr
	Orelse Expr
}

// Lambda is a lambda expression.
type Lambda struct {
	pos
	Params []Param
	Body   Expr
}

// Await is `await value`.
type Await struct {
	pos
	Value Expr
}

// NamedExpr is the walrus operator `target := value`.
type NamedExpr struct {
	pos
	Target Expr
	Value  Expr
}

// Starred is `*value` in calls and assignment targets.
type Starred struct {
	pos
	Value Expr
}

// Comprehension covers list/set/dict comprehensions and generator
// expressions: Elts are the produced expressions, Iters the iterables,
// Conds the filter conditions.
type Comprehension struct {
	pos
	Elts  []Expr
	Iters []Expr
	Conds []Expr
}

func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*AnnAssign) stmtNode()   {}
func (*ExprStmt) stmtNode()    {}
func (*PrintStmt) stmtNode()   {}
func (*Return) stmtNode()      {}
func (*Raise) stmtNode()       {}
func (*Delete) stmtNode()      {}
func (*Global) stmtNode()      {}
func (*Pass) stmtNode()        {}
func (*If) stmtNode()          {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*Try) stmtNode()         {}
func (*With) stmtNode()        {}

func (*Name) exprNode()          {}
func (*Attribute) exprNode()     {}
func (*Call) exprNode()          {}
func (*StringLit) exprNode()     {}
func (*NumberLit) exprNode()     {}
func (*BoolLit) exprNode()       {}
func (*NoneLit) exprNode()       {}
func (*Tuple) exprNode()         {}
func (*List) exprNode()          {}
func (*Set) exprNode()           {}
func (*Dict) exprNode()          {}
func (*Subscript) exprNode()     {}
func (*BinOp) exprNode()         {}
func (*UnaryOp) exprNode()       {}
func (*BoolOp) exprNode()        {}
func (*IfExp) exprNode()         {}
func (*Lambda) exprNode()        {}
func (*Await) exprNode()         {}
func (*NamedExpr) exprNode()     {}
func (*Starred) exprNode()       {}
func (*Comprehension) exprNode() {}

// StringValue returns the literal value of a plain (non-bytes,
// non-f-string) string expression. This is the one sanctioned way to probe
// "is this argument a string literal"; absence of a value is a normal
// outcome, never an error.
func StringValue(e Expr) (string, bool) {
	s, ok := e.(*StringLit)
	if !ok || s.Bytes || s.FString {
		return "", false
	}
	return s.Value, true
}
