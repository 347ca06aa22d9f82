// Package analysis implements the single-unit core: one depth-first
// traversal of a parsed source unit that collects version-gated feature
// observations, tracks import aliasing and user-defined symbol shadowing,
// and resolves everything against the injected rule tables into one
// minimum version pair.
package analysis

import (
	"regexp"
	"strings"

	"github.com/cbergh/pyfloor/internal/pyast"
	"github.com/cbergh/pyfloor/internal/rules"
)

var strftimeDirectiveRe = regexp.MustCompile(`%\w`)

// codecs keyword arguments that carry encoding names.
var encodingKeywords = map[string]bool{
	"encoding":      true,
	"data_encoding": true,
	"file_encoding": true,
}

// Analyzer collects facts from exactly one source unit. Not safe for
// concurrent use; create one per unit.
type Analyzer struct {
	cfg   Config
	rules *rules.Ruleset
	diag  *diagLog

	modules    *orderedSet
	members    *orderedSet // rule-table matched
	memberRefs *orderedSet // full audit trail of qualified references
	kwargs     *kwargSet
	strftime   *orderedSet
	typecodes  *orderedSet
	codecsErrs *orderedSet
	codecsEncs *orderedSet
	userDefs   *orderedSet

	flags Flags

	// importMemMod maps from-imported members to their module, like
	// "exc_clear" -> "sys".
	importMemMod map[string]string

	// nameRes maps a variable to the qualified name of its last simple
	// call/attribute right-hand side.
	nameRes map[string]string

	// moduleAsName maps a local alias to its originating qualified path,
	// for both `import X as A` and `from X import Y as B`.
	moduleAsName map[string]string
}

// New returns an Analyzer for one unit. The Ruleset is read-only and may
// be shared between analyzers.
func New(cfg Config, rs *rules.Ruleset) *Analyzer {
	return &Analyzer{
		cfg:          cfg,
		rules:        rs,
		diag:         &diagLog{cfg: cfg},
		modules:      newOrderedSet(),
		members:      newOrderedSet(),
		memberRefs:   newOrderedSet(),
		kwargs:       newKwargSet(),
		strftime:     newOrderedSet(),
		typecodes:    newOrderedSet(),
		codecsErrs:   newOrderedSet(),
		codecsEncs:   newOrderedSet(),
		userDefs:     newOrderedSet(),
		importMemMod: make(map[string]string),
		nameRes:      make(map[string]string),
		moduleAsName: make(map[string]string),
	}
}

// Analyze walks the unit and resolves the collected facts. On an
// unresolvable version conflict the returned Result still carries the raw
// fact sets and diagnostics alongside the error.
func (a *Analyzer) Analyze(mod *pyast.Module) (*Result, error) {
	for _, stmt := range mod.Body {
		a.visitStmt(stmt)
	}
	return a.resolve()
}

// markUserDefined records a bare name as user-defined: existing module and
// member observations of that exact spelling are retracted, and future
// ones are suppressed.
func (a *Analyzer) markUserDefined(name string) {
	a.userDefs.add(name, pyast.Position{})
	if a.modules.remove(name) {
		a.diag.add(3, pyast.Position{}, "Ignoring module '%s' because it's user-defined!", name)
	}
	retracted := a.members.remove(name)
	if a.memberRefs.remove(name) || retracted {
		a.diag.add(3, pyast.Position{}, "Ignoring member '%s' because it's user-defined!", name)
	}
}

func (a *Analyzer) addModule(name string, p pyast.Position) {
	if a.userDefs.has(name) {
		a.diag.add(3, p, "Ignoring module '%s' because it's user-defined!", name)
		return
	}
	a.modules.add(name, p)
}

// addMember records a qualified reference. Every reference lands in the
// audit set; only rule-table matches land in the matched set.
func (a *Analyzer) addMember(name string, p pyast.Position) {
	if a.userDefs.has(name) {
		a.diag.add(3, p, "Ignoring member '%s' because it's user-defined!", name)
		return
	}
	a.memberRefs.add(name, p)
	if a.rules.HasMember(name) {
		a.members.add(name, p)
	}
}

func (a *Analyzer) addKwarg(function, keyword string, p pyast.Position) {
	if function == "" {
		return
	}
	if a.userDefs.has(function) {
		a.diag.add(3, p, "Ignoring function '%s' because it's user-defined!", function)
		return
	}
	if a.rules.HasKwarg(function, keyword) {
		a.kwargs.add(rules.Kwarg{Function: function, Keyword: keyword}, p)
	}
}

func dotted(parts ...string) string {
	return strings.Join(parts, ".")
}

// attributePath flattens a dotted reference to its name segments, walking
// through attribute chains and call receivers down to a root bare name:
// `a.b().c` yields ["a", "b", "c"]. Chains not rooted in a bare name
// yield nil.
func attributePath(e pyast.Expr) []string {
	switch n := e.(type) {
	case *pyast.Name:
		return []string{n.ID}
	case *pyast.Attribute:
		base := attributePath(n.Value)
		if base == nil {
			return nil
		}
		return append(base, n.Attr)
	case *pyast.Call:
		return attributePath(n.Func)
	default:
		return nil
	}
}

func (a *Analyzer) visitBody(body []pyast.Stmt) {
	for _, stmt := range body {
		a.visitStmt(stmt)
	}
}

func (a *Analyzer) visitStmt(s pyast.Stmt) {
	switch n := s.(type) {
	case *pyast.Import:
		for _, name := range n.Names {
			a.addModule(name.Path, n.Pos())
			a.addMember(name.Path, n.Pos())
			if name.AsName != "" {
				a.moduleAsName[name.AsName] = name.Path
			}
		}

	case *pyast.ImportFrom:
		if n.Module == "" {
			return
		}
		a.addModule(n.Module, n.Pos())
		for _, name := range n.Names {
			combined := dotted(n.Module, name.Path)
			a.importMemMod[name.Path] = n.Module
			a.addModule(combined, n.Pos())
			a.addMember(combined, n.Pos())
			a.addMember(name.Path, n.Pos())
			if name.AsName != "" {
				a.moduleAsName[name.AsName] = combined
			}
		}

	case *pyast.PrintStmt:
		a.flags.PrintStmt = true
		for _, v := range n.Values {
			a.visitExpr(v)
		}

	case *pyast.ExprStmt:
		a.visitExpr(n.Value)

	case *pyast.FunctionDef:
		a.visitFunctionDef(n)

	case *pyast.ClassDef:
		// The name shadows before the body is entered.
		a.markUserDefined(n.Name)
		for _, d := range n.Decorators {
			a.visitExpr(d)
		}
		for _, base := range n.Bases {
			a.visitExpr(base)
		}
		a.visitBody(n.Body)

	case *pyast.Assign:
		for _, target := range n.Targets {
			a.markAssignTarget(target)
		}
		a.recordNameRes(n.Targets, n.Value)
		for _, target := range n.Targets {
			a.visitExpr(target)
		}
		if n.Value != nil {
			a.visitExpr(n.Value)
		}

	case *pyast.AugAssign:
		a.markAssignTarget(n.Target)
		a.recordNameRes([]pyast.Expr{n.Target}, n.Value)
		a.visitExpr(n.Target)
		if n.Value != nil {
			a.visitExpr(n.Value)
		}

	case *pyast.AnnAssign:
		a.markAssignTarget(n.Target)
		a.recordNameRes([]pyast.Expr{n.Target}, n.Value)
		a.visitExpr(n.Target)
		if n.Annotation != nil {
			a.visitExpr(n.Annotation)
		}
		if n.Value != nil {
			a.visitExpr(n.Value)
		}
		a.flags.Annotations = true
		a.flags.VarAnnotations = true

	case *pyast.Return:
		if n.Value != nil {
			a.visitExpr(n.Value)
		}

	case *pyast.Raise:
		if n.Exc != nil {
			a.visitExpr(n.Exc)
		}
		if n.Cause != nil {
			a.visitExpr(n.Cause)
		}

	case *pyast.Delete:
		for _, target := range n.Targets {
			a.visitExpr(target)
		}

	case *pyast.With:
		for _, item := range n.Items {
			if item.Context != nil {
				a.visitExpr(item.Context)
			}
			if item.Var != nil {
				a.markAssignTarget(item.Var)
			}
		}
		a.visitBody(n.Body)

	case *pyast.If:
		if a.cfg.Lax {
			return
		}
		a.visitExpr(n.Cond)
		a.visitBody(n.Body)
		a.visitBody(n.Else)

	case *pyast.For:
		if a.cfg.Lax {
			return
		}
		a.visitExpr(n.Target)
		a.visitExpr(n.Iter)
		a.visitBody(n.Body)
		a.visitBody(n.Else)

	case *pyast.While:
		if a.cfg.Lax {
			return
		}
		a.visitExpr(n.Cond)
		a.visitBody(n.Body)
		a.visitBody(n.Else)

	case *pyast.Try:
		if a.cfg.Lax {
			return
		}
		a.visitBody(n.Body)
		for _, h := range n.Handlers {
			if h.Type != nil {
				a.visitExpr(h.Type)
			}
			a.visitBody(h.Body)
		}
		a.visitBody(n.Else)
		a.visitBody(n.Finally)

	case *pyast.Global, *pyast.Pass:
		// No facts.
	}
}

func (a *Analyzer) visitFunctionDef(n *pyast.FunctionDef) {
	// The name shadows before the body is entered; a later `def abc()`
	// retracts an earlier `import abc` match.
	a.markUserDefined(n.Name)
	if n.Async {
		a.flags.Coroutines = true
	}
	for _, d := range n.Decorators {
		a.visitExpr(d)
	}
	for _, p := range n.Params {
		if p.Annotation != nil {
			a.flags.Annotations = true
			a.visitExpr(p.Annotation)
		}
		if p.Default != nil {
			a.visitExpr(p.Default)
		}
	}
	if n.Returns != nil {
		a.flags.Annotations = true
		a.visitExpr(n.Returns)
	}
	a.visitBody(n.Body)
}

// markAssignTarget adds simple name targets to the user-defined set;
// destructuring targets recurse, starred targets unwrap.
func (a *Analyzer) markAssignTarget(target pyast.Expr) {
	switch t := target.(type) {
	case *pyast.Name:
		a.markUserDefined(t.ID)
	case *pyast.Tuple:
		for _, elt := range t.Elts {
			a.markAssignTarget(elt)
		}
	case *pyast.List:
		for _, elt := range t.Elts {
			a.markAssignTarget(elt)
		}
	case *pyast.Starred:
		a.markAssignTarget(t.Value)
	}
}

// recordNameRes remembers `target = qualified.name` and
// `target = qualified.name(..)` aliases for indirect member resolution.
func (a *Analyzer) recordNameRes(targets []pyast.Expr, value pyast.Expr) {
	if value == nil {
		return
	}
	var qualified string
	switch v := value.(type) {
	case *pyast.Call:
		switch fn := v.Func.(type) {
		case *pyast.Name:
			qualified = fn.ID
		case *pyast.Attribute:
			qualified = dotted(attributePath(fn)...)
		}
	case *pyast.Attribute:
		qualified = dotted(attributePath(v)...)
	}
	if qualified == "" {
		return
	}
	for _, target := range targets {
		if name, ok := target.(*pyast.Name); ok {
			a.nameRes[name.ID] = qualified
		}
	}
}

func (a *Analyzer) visitExpr(e pyast.Expr) {
	switch n := e.(type) {
	case *pyast.Name:
		if n.ID == "long" {
			a.flags.LongV2 = true
		}

	case *pyast.BoolLit:
		a.flags.BoolConst = true

	case *pyast.StringLit:
		if n.Bytes {
			a.flags.BytesV3 = true
		}
		if n.FString {
			a.flags.FStrings = true
		}

	case *pyast.Call:
		a.visitCall(n)

	case *pyast.Attribute:
		a.visitAttribute(n)

	case *pyast.Await:
		a.flags.Coroutines = true
		a.visitExpr(n.Value)

	case *pyast.NamedExpr:
		a.flags.NamedExpr = true
		a.visitExpr(n.Target)
		a.visitExpr(n.Value)

	case *pyast.BoolOp:
		if a.cfg.Lax {
			return
		}
		for _, v := range n.Values {
			a.visitExpr(v)
		}

	case *pyast.IfExp:
		if a.cfg.Lax {
			return
		}
		if n.Cond != nil {
			a.visitExpr(n.Cond)
		}
		if n.Body != nil {
			a.visitExpr(n.Body)
		}
		if n.Orelse != nil {
			a.visitExpr(n.Orelse)
		}

	case *pyast.Tuple:
		for _, elt := range n.Elts {
			a.visitExpr(elt)
		}
	case *pyast.List:
		for _, elt := range n.Elts {
			a.visitExpr(elt)
		}
	case *pyast.Set:
		for _, elt := range n.Elts {
			a.visitExpr(elt)
		}
	case *pyast.Dict:
		for _, item := range n.Items {
			if item.Key != nil {
				a.visitExpr(item.Key)
			}
			a.visitExpr(item.Value)
		}

	case *pyast.Subscript:
		a.visitExpr(n.Value)
		if n.Index != nil {
			a.visitExpr(n.Index)
		}

	case *pyast.BinOp:
		a.visitExpr(n.Left)
		if n.Right != nil {
			a.visitExpr(n.Right)
		}

	case *pyast.UnaryOp:
		a.visitExpr(n.Operand)

	case *pyast.Lambda:
		for _, p := range n.Params {
			if p.Default != nil {
				a.visitExpr(p.Default)
			}
		}
		a.visitExpr(n.Body)

	case *pyast.Starred:
		a.visitExpr(n.Value)

	case *pyast.Comprehension:
		for _, elt := range n.Elts {
			a.visitExpr(elt)
		}
		for _, iter := range n.Iters {
			a.visitExpr(iter)
		}
		for _, cond := range n.Conds {
			a.visitExpr(cond)
		}

	case *pyast.NumberLit, *pyast.NoneLit:
		// No facts.
	}
}

func (a *Analyzer) visitCall(c *pyast.Call) {
	funcName := ""

	switch fn := c.Func.(type) {
	case *pyast.Name:
		funcName = fn.ID
		a.addMember(fn.ID, c.Pos())

		if mod, ok := a.importMemMod[fn.ID]; ok {
			a.checkCodecsCall(dotted(mod, fn.ID), c)
		} else if full, ok := a.moduleAsName[fn.ID]; ok {
			a.checkCodecsCall(full, c)
		}

		switch {
		case fn.ID == "print":
			a.flags.PrintCall = true
		case fn.ID == "array" || a.moduleAsName[fn.ID] == "array.array":
			for _, arg := range c.Args {
				if code, ok := pyast.StringValue(arg); ok {
					a.typecodes.add(code, arg.Pos())
				}
			}
		}

	case *pyast.Attribute:
		switch fn.Attr {
		case "format":
			if recv, ok := pyast.StringValue(fn.Value); ok && strings.Contains(recv, "{}") {
				a.flags.Format27 = true
			}
		case "strftime", "strptime":
			for _, arg := range c.Args {
				if s, ok := pyast.StringValue(arg); ok {
					for _, directive := range strftimeDirectiveRe.FindAllString(s, -1) {
						a.strftime.add(directive, arg.Pos())
					}
				}
			}
		}
		funcName = dotted(attributePath(fn)...)
		if funcName == "array.array" {
			for _, arg := range c.Args {
				if code, ok := pyast.StringValue(arg); ok {
					a.typecodes.add(code, arg.Pos())
				}
			}
		}
		a.checkCodecsCall(funcName, c)
	}

	// Keyword signatures are matched under every qualified spelling the
	// alias chains can reach; redundant lookups are cheaper than missed
	// indirect usages.
	for _, kw := range c.Keywords {
		if kw.Name == "" || funcName == "" {
			continue
		}
		a.addKwarg(funcName, kw.Name, kw.P)

		if mod, ok := a.importMemMod[funcName]; ok {
			a.addKwarg(dotted(mod, funcName), kw.Name, kw.P)
		}

		segments := strings.Split(funcName, ".")
		if mod, ok := a.importMemMod[segments[0]]; ok {
			a.addKwarg(dotted(mod, funcName), kw.Name, kw.P)
		}
		if full, ok := a.moduleAsName[segments[0]]; ok {
			a.addKwarg(dotted(append([]string{full}, segments[1:]...)...), kw.Name, kw.P)
		}
		if res, ok := a.nameRes[segments[0]]; ok {
			rest := segments[1:]
			if mod, ok := a.importMemMod[res]; ok {
				a.addKwarg(dotted(append([]string{mod, res}, rest...)...), kw.Name, kw.P)
			} else {
				a.addKwarg(dotted(append([]string{res}, rest...)...), kw.Name, kw.P)
			}
		}
	}

	a.visitExpr(c.Func)
	for _, arg := range c.Args {
		a.visitExpr(arg)
	}
	for _, kw := range c.Keywords {
		a.visitExpr(kw.Value)
	}
}

// visitAttribute resolves one dotted reference chain. The chain is handled
// as a whole; nested attribute nodes are not revisited.
func (a *Analyzer) visitAttribute(at *pyast.Attribute) {
	full := attributePath(at)
	if len(full) == 0 {
		// Chains rooted in a non-name (e.g. a literal receiver) still may
		// hide calls worth visiting.
		a.visitExpr(at.Value)
		return
	}
	p := at.Pos()

	for _, mod := range a.modules.values() {
		if full[0] == mod {
			a.addModule(dotted(full...), p)
		} else if strings.HasSuffix(mod, full[0]) {
			// Indirect submodule alias: the root is the tail of a known
			// module path, so rebase the chain onto that module.
			a.addMember(dotted(append([]string{mod}, full[1:]...)...), p)
		}
	}
	a.addMember(dotted(full...), p)

	if res, ok := a.nameRes[full[0]]; ok {
		rest := full[1:]
		if mod, ok := a.importMemMod[res]; ok {
			a.addMember(dotted(append([]string{mod, res}, rest...)...), p)
		} else {
			a.addMember(dotted(append([]string{res}, rest...)...), p)
		}
	}
}

// checkCodecsCall inspects a call known to accept encoding or
// error-handler arguments, both at the table-documented positional
// indices and through the conventional keyword names.
func (a *Analyzer) checkCodecsCall(funcName string, c *pyast.Call) {
	if idx, ok := a.rules.CodecsErrorsIndices[funcName]; ok {
		if idx >= 0 && idx < len(c.Args) {
			if name, ok := pyast.StringValue(c.Args[idx]); ok {
				a.codecsErrs.add(name, c.Args[idx].Pos())
			}
		}
		for _, kw := range c.Keywords {
			if kw.Name != "errors" {
				continue
			}
			if name, ok := pyast.StringValue(kw.Value); ok {
				a.codecsErrs.add(name, kw.P)
			}
		}
	}

	if indices, ok := a.rules.CodecsEncodingsIndices[funcName]; ok {
		for _, idx := range indices {
			if idx >= 0 && idx < len(c.Args) {
				if name, ok := pyast.StringValue(c.Args[idx]); ok {
					a.codecsEncs.add(name, c.Args[idx].Pos())
				}
			}
		}
		for _, kw := range c.Keywords {
			if !encodingKeywords[kw.Name] {
				continue
			}
			if name, ok := pyast.StringValue(kw.Value); ok {
				a.codecsEncs.add(name, kw.P)
			}
		}
	}
}
