package pyast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax reports that the source could not be parsed into a usable tree.
var ErrSyntax = errors.New("syntax error")

// Parse turns Python source into a Module. The parse is error-tolerant:
// recoverable grammar errors produce a partial tree (tree-sitter inserts
// ERROR nodes, which the builder lowers or skips), and only a missing root
// is fatal.
func Parse(ctx context.Context, src []byte) (*Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse: %w: no root node", ErrSyntax)
	}

	b := &builder{src: src}
	mod := &Module{Body: b.block(root)}
	return mod, nil
}

// ParseString is a convenience wrapper for tests and one-shot callers.
func ParseString(ctx context.Context, src string) (*Module, error) {
	return Parse(ctx, []byte(src))
}

type builder struct {
	src []byte
}

func (b *builder) text(n *sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

func (b *builder) at(n *sitter.Node) pos {
	return pos{P: Position{
		Line: int(n.StartPoint().Row) + 1,
		Col:  int(n.StartPoint().Column),
	}}
}

// block converts the statement children of a suite-like node.
func (b *builder) block(n *sitter.Node) []Stmt {
	if n == nil {
		return nil
	}
	var out []Stmt
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, b.stmts(n.NamedChild(i))...)
	}
	return out
}

// stmts converts one statement node. An expression_statement can carry
// several semicolon-separated statements, hence the slice.
func (b *builder) stmts(n *sitter.Node) []Stmt {
	switch n.Type() {
	case "comment":
		return nil

	case "import_statement", "future_import_statement":
		return []Stmt{&Import{pos: b.at(n), Names: b.importNames(n)}}

	case "import_from_statement":
		return []Stmt{b.importFrom(n)}

	case "print_statement":
		var values []Expr
		for i := 0; i < int(n.NamedChildCount()); i++ {
			values = append(values, b.expr(n.NamedChild(i)))
		}
		return []Stmt{&PrintStmt{pos: b.at(n), Values: values}}

	case "expression_statement":
		var out []Stmt
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "assignment":
				out = append(out, b.assignment(child))
			case "augmented_assignment":
				out = append(out, &AugAssign{
					pos:    b.at(child),
					Target: b.expr(child.ChildByFieldName("left")),
					Value:  b.expr(child.ChildByFieldName("right")),
				})
			default:
				out = append(out, &ExprStmt{pos: b.at(child), Value: b.expr(child)})
			}
		}
		return out

	case "function_definition":
		return []Stmt{b.functionDef(n, nil)}

	case "class_definition":
		return []Stmt{b.classDef(n, nil)}

	case "decorated_definition":
		var decorators []Expr
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "decorator" && child.NamedChildCount() > 0 {
				decorators = append(decorators, b.expr(child.NamedChild(0)))
			}
		}
		def := n.ChildByFieldName("definition")
		if def == nil {
			return nil
		}
		switch def.Type() {
		case "function_definition":
			return []Stmt{b.functionDef(def, decorators)}
		case "class_definition":
			return []Stmt{b.classDef(def, decorators)}
		}
		return nil

	case "return_statement":
		ret := &Return{pos: b.at(n)}
		if n.NamedChildCount() > 0 {
			ret.Value = b.expr(n.NamedChild(0))
		}
		return []Stmt{ret}

	case "raise_statement":
		r := &Raise{pos: b.at(n)}
		if n.NamedChildCount() > 0 {
			r.Exc = b.expr(n.NamedChild(0))
		}
		if n.NamedChildCount() > 1 {
			r.Cause = b.expr(n.NamedChild(1))
		}
		return []Stmt{r}

	case "delete_statement":
		d := &Delete{pos: b.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			d.Targets = append(d.Targets, b.expr(n.NamedChild(i)))
		}
		return []Stmt{d}

	case "global_statement", "nonlocal_statement":
		g := &Global{pos: b.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			g.Names = append(g.Names, b.text(n.NamedChild(i)))
		}
		return []Stmt{g}

	case "pass_statement", "break_statement", "continue_statement":
		return []Stmt{&Pass{pos: b.at(n)}}

	case "if_statement":
		return []Stmt{b.ifStmt(n)}

	case "for_statement":
		return []Stmt{&For{
			pos:    b.at(n),
			Target: b.expr(n.ChildByFieldName("left")),
			Iter:   b.expr(n.ChildByFieldName("right")),
			Body:   b.block(n.ChildByFieldName("body")),
			Else:   b.elseClause(n),
		}}

	case "while_statement":
		return []Stmt{&While{
			pos:  b.at(n),
			Cond: b.expr(n.ChildByFieldName("condition")),
			Body: b.block(n.ChildByFieldName("body")),
			Else: b.elseClause(n),
		}}

	case "try_statement":
		return []Stmt{b.tryStmt(n)}

	case "with_statement":
		return []Stmt{b.withStmt(n)}

	case "assert_statement", "exec_statement":
		// No dedicated variant; keep the nested expressions reachable.
		var values []Expr
		for i := 0; i < int(n.NamedChildCount()); i++ {
			values = append(values, b.expr(n.NamedChild(i)))
		}
		return []Stmt{&ExprStmt{pos: b.at(n), Value: &Tuple{pos: b.at(n), Elts: values}}}

	case "ERROR":
		// A `print x` statement under the Python 3 grammar surfaces as an
		// ERROR whose first token is the print identifier.
		if n.ChildCount() > 0 && b.text(n.Child(0)) == "print" {
			var values []Expr
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				if b.text(child) == "print" {
					continue
				}
				values = append(values, b.expr(child))
			}
			return []Stmt{&PrintStmt{pos: b.at(n), Values: values}}
		}
		return b.block(n)

	default:
		// Unknown statement kinds keep their nested expressions reachable
		// rather than vanishing.
		if n.NamedChildCount() == 0 {
			return nil
		}
		var values []Expr
		for i := 0; i < int(n.NamedChildCount()); i++ {
			values = append(values, b.expr(n.NamedChild(i)))
		}
		return []Stmt{&ExprStmt{pos: b.at(n), Value: &Tuple{pos: b.at(n), Elts: values}}}
	}
}

func (b *builder) importNames(n *sitter.Node) []ImportName {
	var names []ImportName
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			names = append(names, ImportName{Path: b.text(child)})
		case "aliased_import":
			var name ImportName
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				switch gc.Type() {
				case "dotted_name":
					name.Path = b.text(gc)
				case "identifier":
					name.AsName = b.text(gc)
				}
			}
			names = append(names, name)
		}
	}
	return names
}

func (b *builder) importFrom(n *sitter.Node) Stmt {
	imp := &ImportFrom{pos: b.at(n)}

	module := n.ChildByFieldName("module_name")
	if module != nil {
		// Relative imports keep the path after the leading dots; a bare
		// `from . import x` has no module at all.
		imp.Module = strings.TrimLeft(b.text(module), ".")
	}

	sawImport := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "import" {
			sawImport = true
			continue
		}
		if !sawImport {
			continue
		}
		switch child.Type() {
		case "wildcard_import":
			imp.Star = true
		case "dotted_name", "identifier":
			imp.Names = append(imp.Names, ImportName{Path: b.text(child)})
		case "aliased_import":
			var name ImportName
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				switch gc.Type() {
				case "dotted_name":
					name.Path = b.text(gc)
				case "identifier":
					name.AsName = b.text(gc)
				}
			}
			imp.Names = append(imp.Names, name)
		}
	}
	return imp
}

// assignment flattens chained targets (`a = b = value`) and splits the
// annotated form into AnnAssign.
func (b *builder) assignment(n *sitter.Node) Stmt {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	typ := n.ChildByFieldName("type")

	if typ != nil {
		ann := &AnnAssign{
			pos:        b.at(n),
			Target:     b.expr(left),
			Annotation: b.typeExpr(typ),
		}
		if right != nil {
			ann.Value = b.expr(right)
		}
		return ann
	}

	assign := &Assign{pos: b.at(n), Targets: []Expr{b.expr(left)}}
	for right != nil && right.Type() == "assignment" {
		assign.Targets = append(assign.Targets, b.expr(right.ChildByFieldName("left")))
		right = right.ChildByFieldName("right")
	}
	if right != nil {
		assign.Value = b.expr(right)
	}
	return assign
}

func (b *builder) functionDef(n *sitter.Node, decorators []Expr) *FunctionDef {
	fn := &FunctionDef{
		pos:        b.at(n),
		Name:       b.fieldText(n, "name"),
		Params:     b.params(n.ChildByFieldName("parameters")),
		Body:       b.block(n.ChildByFieldName("body")),
		Decorators: decorators,
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = b.typeExpr(ret)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			fn.Async = true
			break
		}
	}
	return fn
}

func (b *builder) classDef(n *sitter.Node, decorators []Expr) *ClassDef {
	cls := &ClassDef{
		pos:        b.at(n),
		Name:       b.fieldText(n, "name"),
		Body:       b.block(n.ChildByFieldName("body")),
		Decorators: decorators,
	}
	if sup := n.ChildByFieldName("superclasses"); sup != nil {
		for i := 0; i < int(sup.NamedChildCount()); i++ {
			cls.Bases = append(cls.Bases, b.expr(sup.NamedChild(i)))
		}
	}
	return cls
}

func (b *builder) params(n *sitter.Node) []Param {
	if n == nil {
		return nil
	}
	var params []Param
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "identifier":
			params = append(params, Param{Name: b.text(child)})
		case "typed_parameter":
			p := Param{}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				switch gc.Type() {
				case "identifier", "list_splat_pattern", "dictionary_splat_pattern":
					p.Name = strings.TrimLeft(b.text(gc), "*")
				case "type":
					p.Annotation = b.typeExpr(gc)
				}
			}
			params = append(params, p)
		case "default_parameter":
			params = append(params, Param{
				Name:    b.fieldText(child, "name"),
				Default: b.expr(child.ChildByFieldName("value")),
			})
		case "typed_default_parameter":
			p := Param{Name: b.fieldText(child, "name")}
			if typ := child.ChildByFieldName("type"); typ != nil {
				p.Annotation = b.typeExpr(typ)
			}
			if val := child.ChildByFieldName("value"); val != nil {
				p.Default = b.expr(val)
			}
			params = append(params, p)
		case "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, Param{Name: strings.TrimLeft(b.text(child), "*")})
		}
	}
	return params
}

func (b *builder) ifStmt(n *sitter.Node) Stmt {
	stmt := &If{
		pos:  b.at(n),
		Cond: b.expr(n.ChildByFieldName("condition")),
		Body: b.block(n.ChildByFieldName("consequence")),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "elif_clause":
			stmt.Else = append(stmt.Else, &If{
				pos:  b.at(child),
				Cond: b.expr(child.ChildByFieldName("condition")),
				Body: b.block(child.ChildByFieldName("consequence")),
			})
		case "else_clause":
			stmt.Else = append(stmt.Else, b.block(child.ChildByFieldName("body"))...)
		}
	}
	return stmt
}

func (b *builder) elseClause(n *sitter.Node) []Stmt {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "else_clause" {
			return b.block(child.ChildByFieldName("body"))
		}
	}
	return nil
}

func (b *builder) tryStmt(n *sitter.Node) Stmt {
	stmt := &Try{pos: b.at(n), Body: b.block(n.ChildByFieldName("body"))}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "except_clause":
			handler := ExceptHandler{}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				if gc.Type() == "block" {
					handler.Body = b.block(gc)
					continue
				}
				if gc.Type() == "as_pattern" {
					if gc.NamedChildCount() > 0 {
						handler.Type = b.expr(gc.NamedChild(0))
					}
					if alias := gc.ChildByFieldName("alias"); alias != nil {
						handler.Name = b.text(alias)
					}
					continue
				}
				if handler.Type == nil {
					handler.Type = b.expr(gc)
				} else if handler.Name == "" {
					handler.Name = b.text(gc)
				}
			}
			stmt.Handlers = append(stmt.Handlers, handler)
		case "else_clause":
			stmt.Else = b.block(child.ChildByFieldName("body"))
		case "finally_clause":
			// The finally block is the clause's only block child.
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if child.NamedChild(j).Type() == "block" {
					stmt.Finally = b.block(child.NamedChild(j))
				}
			}
		}
	}
	return stmt
}

func (b *builder) withStmt(n *sitter.Node) Stmt {
	stmt := &With{pos: b.at(n), Body: b.block(n.ChildByFieldName("body"))}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "with_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			itemNode := clause.NamedChild(j)
			if itemNode.Type() != "with_item" {
				continue
			}
			item := WithItem{}
			value := itemNode.ChildByFieldName("value")
			if value == nil && itemNode.NamedChildCount() > 0 {
				value = itemNode.NamedChild(0)
			}
			if value != nil {
				if value.Type() == "as_pattern" {
					if value.NamedChildCount() > 0 {
						item.Context = b.expr(value.NamedChild(0))
					}
					if alias := value.ChildByFieldName("alias"); alias != nil {
						item.Var = &Name{pos: b.at(alias), ID: b.text(alias)}
					}
				} else {
					item.Context = b.expr(value)
				}
			}
			stmt.Items = append(stmt.Items, item)
		}
	}
	return stmt
}

// typeExpr unwraps the grammar's `type` wrapper around annotations.
func (b *builder) typeExpr(n *sitter.Node) Expr {
	if n.Type() == "type" && n.NamedChildCount() > 0 {
		return b.expr(n.NamedChild(0))
	}
	return b.expr(n)
}

func (b *builder) fieldText(n *sitter.Node, field string) string {
	child := n.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return b.text(child)
}

func (b *builder) expr(n *sitter.Node) Expr {
	if n == nil {
		return &Tuple{}
	}
	switch n.Type() {
	case "identifier":
		return &Name{pos: b.at(n), ID: b.text(n)}

	case "attribute":
		return &Attribute{
			pos:   b.at(n),
			Value: b.expr(n.ChildByFieldName("object")),
			Attr:  b.fieldText(n, "attribute"),
		}

	case "call":
		return b.call(n)

	case "string":
		return b.stringLit(n)

	case "concatenated_string":
		// Adjacent literals fuse into one; prefixes are per-fragment.
		out := &StringLit{pos: b.at(n)}
		var parts []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() != "string" {
				continue
			}
			frag := b.stringLit(child)
			parts = append(parts, frag.Value)
			out.Bytes = out.Bytes || frag.Bytes
			out.FString = out.FString || frag.FString
		}
		out.Value = strings.Join(parts, "")
		return out

	case "integer", "float":
		return &NumberLit{pos: b.at(n), Text: b.text(n)}

	case "true":
		return &BoolLit{pos: b.at(n), Value: true}
	case "false":
		return &BoolLit{pos: b.at(n), Value: false}
	case "none":
		return &NoneLit{pos: b.at(n)}

	case "tuple", "expression_list", "pattern_list", "tuple_pattern":
		return &Tuple{pos: b.at(n), Elts: b.exprChildren(n)}
	case "list", "list_pattern":
		return &List{pos: b.at(n), Elts: b.exprChildren(n)}
	case "set":
		return &Set{pos: b.at(n), Elts: b.exprChildren(n)}

	case "dictionary":
		d := &Dict{pos: b.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "pair":
				d.Items = append(d.Items, DictItem{
					Key:   b.expr(child.ChildByFieldName("key")),
					Value: b.expr(child.ChildByFieldName("value")),
				})
			case "dictionary_splat":
				if child.NamedChildCount() > 0 {
					d.Items = append(d.Items, DictItem{Value: b.expr(child.NamedChild(0))})
				}
			}
		}
		return d

	case "subscript":
		value := n.ChildByFieldName("value")
		sub := &Subscript{pos: b.at(n), Value: b.expr(value)}
		var indices []Expr
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if value != nil && child.StartByte() == value.StartByte() {
				continue
			}
			indices = append(indices, b.expr(child))
		}
		if len(indices) == 1 {
			sub.Index = indices[0]
		} else {
			sub.Index = &Tuple{pos: b.at(n), Elts: indices}
		}
		return sub

	case "slice":
		return &Tuple{pos: b.at(n), Elts: b.exprChildren(n)}

	case "binary_operator":
		return &BinOp{
			pos:   b.at(n),
			Left:  b.expr(n.ChildByFieldName("left")),
			Right: b.expr(n.ChildByFieldName("right")),
		}

	case "comparison_operator":
		operands := b.exprChildren(n)
		if len(operands) == 0 {
			return &Tuple{pos: b.at(n)}
		}
		cmp := &BinOp{pos: b.at(n), Left: operands[0]}
		if len(operands) == 2 {
			cmp.Right = operands[1]
		} else {
			cmp.Right = &Tuple{pos: b.at(n), Elts: operands[1:]}
		}
		return cmp

	case "unary_operator", "not_operator":
		arg := n.ChildByFieldName("argument")
		if arg == nil && n.NamedChildCount() > 0 {
			arg = n.NamedChild(0)
		}
		return &UnaryOp{pos: b.at(n), Operand: b.expr(arg)}

	case "boolean_operator":
		// Flatten `a and b and c` into one BoolOp like the Python ast does.
		op := &BoolOp{pos: b.at(n)}
		var flatten func(node *sitter.Node)
		flatten = func(node *sitter.Node) {
			if node.Type() == "boolean_operator" {
				flatten(node.ChildByFieldName("left"))
				flatten(node.ChildByFieldName("right"))
				return
			}
			op.Values = append(op.Values, b.expr(node))
		}
		flatten(n)
		return op

	case "conditional_expression":
		parts := b.exprChildren(n)
		cond := &IfExp{pos: b.at(n)}
		if len(parts) > 0 {
			cond.Body = parts[0]
		}
		if len(parts) > 1 {
			cond.Cond = parts[1]
		}
		if len(parts) > 2 {
			cond.Orelse = parts[2]
		}
		return cond

	case "lambda":
		return &Lambda{
			pos:    b.at(n),
			Params: b.params(n.ChildByFieldName("parameters")),
			Body:   b.expr(n.ChildByFieldName("body")),
		}

	case "await":
		var value Expr = &Tuple{}
		if n.NamedChildCount() > 0 {
			value = b.expr(n.NamedChild(0))
		}
		return &Await{pos: b.at(n), Value: value}

	case "named_expression":
		return &NamedExpr{
			pos:    b.at(n),
			Target: b.expr(n.ChildByFieldName("name")),
			Value:  b.expr(n.ChildByFieldName("value")),
		}

	case "list_splat", "dictionary_splat", "list_splat_pattern", "dictionary_splat_pattern":
		var value Expr = &Tuple{}
		if n.NamedChildCount() > 0 {
			value = b.expr(n.NamedChild(0))
		}
		return &Starred{pos: b.at(n), Value: value}

	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return b.expr(n.NamedChild(0))
		}
		return &Tuple{pos: b.at(n)}

	case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
		return b.comprehension(n)

	case "yield":
		if n.NamedChildCount() > 0 {
			return b.expr(n.NamedChild(0))
		}
		return &Tuple{pos: b.at(n)}

	case "ellipsis":
		return &Name{pos: b.at(n), ID: "..."}

	case "keyword_argument":
		// Only reachable when a keyword shows up outside a handled call
		// (e.g. in class superclass lists); surface the value.
		if v := n.ChildByFieldName("value"); v != nil {
			return b.expr(v)
		}
		return &Tuple{pos: b.at(n)}

	default:
		// Unknown expression kinds become a traversable container.
		return &Tuple{pos: b.at(n), Elts: b.exprChildren(n)}
	}
}

func (b *builder) exprChildren(n *sitter.Node) []Expr {
	var out []Expr
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, b.expr(n.NamedChild(i)))
	}
	return out
}

func (b *builder) call(n *sitter.Node) Expr {
	call := &Call{pos: b.at(n), Func: b.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	if args.Type() == "generator_expression" {
		call.Args = append(call.Args, b.comprehension(args))
		return call
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "keyword_argument" {
			call.Keywords = append(call.Keywords, Keyword{
				Name:  b.fieldText(child, "name"),
				Value: b.expr(child.ChildByFieldName("value")),
				P: Position{
					Line: int(child.StartPoint().Row) + 1,
					Col:  int(child.StartPoint().Column),
				},
			})
			continue
		}
		call.Args = append(call.Args, b.expr(child))
	}
	return call
}

func (b *builder) comprehension(n *sitter.Node) Expr {
	comp := &Comprehension{pos: b.at(n)}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "pair" {
			comp.Elts = append(comp.Elts,
				b.expr(body.ChildByFieldName("key")),
				b.expr(body.ChildByFieldName("value")))
		} else {
			comp.Elts = append(comp.Elts, b.expr(body))
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "for_in_clause":
			if left := child.ChildByFieldName("left"); left != nil {
				comp.Iters = append(comp.Iters, b.expr(left))
			}
			if right := child.ChildByFieldName("right"); right != nil {
				comp.Iters = append(comp.Iters, b.expr(right))
			}
		case "if_clause":
			if child.NamedChildCount() > 0 {
				comp.Conds = append(comp.Conds, b.expr(child.NamedChild(0)))
			}
		}
	}
	return comp
}

// stringLit classifies a string literal by its prefix letters and strips
// prefix and quotes. Values are kept raw: escape sequences stay as
// written, which is all the downstream literal scans need.
func (b *builder) stringLit(n *sitter.Node) *StringLit {
	raw := b.text(n)
	lit := &StringLit{pos: b.at(n)}

	i := 0
	for i < len(raw) && raw[i] != '\'' && raw[i] != '"' {
		switch raw[i] {
		case 'b', 'B':
			lit.Bytes = true
		case 'f', 'F':
			lit.FString = true
		}
		i++
	}
	body := raw[i:]
	switch {
	case strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, "'''"):
		quote := body[:3]
		body = strings.TrimPrefix(body, quote)
		body = strings.TrimSuffix(body, quote)
	case len(body) >= 2:
		body = body[1 : len(body)-1]
	}
	lit.Value = body
	return lit
}
