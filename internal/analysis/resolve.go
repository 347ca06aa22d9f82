package analysis

import (
	"github.com/cbergh/pyfloor/internal/pyast"
	"github.com/cbergh/pyfloor/internal/rules"
	"github.com/cbergh/pyfloor/internal/version"
)

// Result is everything Analyze learned about one unit: the resolved
// minimum pair plus the raw fact sets, in first-seen order, for reporting.
type Result struct {
	Minimum version.Pair

	Modules        []string
	Members        []string
	MemberRefs     []string
	Kwargs         []rules.Kwarg
	Strftime       []string
	ArrayTypecodes []string
	CodecsHandlers []string
	CodecsNames    []string
	UserDefined    []string

	Flags  Flags
	Report string
}

// flagRequirement is one syntax-level observation and its version pair.
type flagRequirement struct {
	set  bool
	req  version.Pair
	text string
}

func (a *Analyzer) flagRequirements() []flagRequirement {
	f := a.flags
	v := version.V
	x := version.Excluded
	return []flagRequirement{
		{f.PrintStmt, version.P(v(2, 0), x), "print statement requires 2.0"},
		{f.PrintCall, version.P(v(2, 0), v(3, 0)), "print function requires (2.0, 3.0)"},
		{f.Format27, version.P(v(2, 7), v(3, 0)), "`\"..{}..\".format(..)` requires (2.7, 3.0)"},
		{f.LongV2, version.P(v(2, 0), x), "long is a v2 feature"},
		{f.BytesV3, version.P(x, v(3, 0)), "byte strings (b'..') require 3+"},
		{f.FStrings, version.P(x, v(3, 6)), "f-strings require 3.6+"},
		{f.NamedExpr, version.P(x, v(3, 8)), "named expressions require 3.8+"},
		{f.BoolConst, version.P(v(2, 2), v(3, 0)), "True/False constants require (2.2, 3.0)"},
		{f.Coroutines, version.P(x, v(3, 5)), "coroutines require 3.5+ (async and await)"},
		{f.Annotations, version.P(x, v(3, 0)), "annotations require 3+"},
		{f.VarAnnotations, version.P(x, v(3, 6)), "variable annotations require 3.6+"},
	}
}

// resolve folds every collected fact into one pair. The fold is
// order-independent up to which conflict pair gets reported first.
func (a *Analyzer) resolve() (*Result, error) {
	res := &Result{
		Modules:        a.modules.values(),
		Members:        a.members.values(),
		MemberRefs:     a.memberRefs.values(),
		Kwargs:         a.kwargs.values(),
		Strftime:       a.strftime.values(),
		ArrayTypecodes: a.typecodes.values(),
		CodecsHandlers: a.codecsErrs.values(),
		CodecsNames:    a.codecsEncs.values(),
		UserDefined:    a.userDefs.values(),
		Flags:          a.flags,
	}

	acc := version.Pair{}
	var err error
	fold := func(req version.Pair, p pyast.Position, format string, args ...any) {
		if err != nil {
			return
		}
		a.diag.add(2, p, format, args...)
		acc, err = version.Combine(acc, req)
	}

	for _, fr := range a.flagRequirements() {
		if fr.set {
			fold(fr.req, pyast.Position{}, "%s", fr.text)
		}
	}
	for _, mod := range res.Modules {
		if req, ok := a.rules.Modules[mod]; ok {
			p, _ := a.modules.position(mod)
			fold(req, p, "'%s' requires %s", mod, req)
		}
	}
	for _, mem := range res.Members {
		if req, ok := a.rules.Members[mem]; ok {
			p, _ := a.members.position(mem)
			fold(req, p, "'%s' member requires %s", mem, req)
		}
	}
	for _, kw := range res.Kwargs {
		if req, ok := a.rules.Kwargs[kw]; ok {
			p, _ := a.kwargs.position(kw)
			fold(req, p, "'%s(%s)' requires %s", kw.Function, kw.Keyword, req)
		}
	}
	for _, d := range res.Strftime {
		if req, ok := a.rules.Strftime[d]; ok {
			p, _ := a.strftime.position(d)
			fold(req, p, "strftime directive '%s' requires %s", d, req)
		}
	}
	for _, tc := range res.ArrayTypecodes {
		if req, ok := a.rules.ArrayTypecodes[tc]; ok {
			p, _ := a.typecodes.position(tc)
			fold(req, p, "array typecode '%s' requires %s", tc, req)
		}
	}
	for _, h := range res.CodecsHandlers {
		if req, ok := a.rules.CodecsErrorHandlers[h]; ok {
			p, _ := a.codecsErrs.position(h)
			fold(req, p, "codecs error handler '%s' requires %s", h, req)
		}
	}
	for _, name := range res.CodecsNames {
		if canonical, req, ok := a.rules.MatchEncoding(name); ok {
			p, _ := a.codecsEncs.position(name)
			fold(req, p, "codecs encoding '%s' requires %s", canonical, req)
		}
	}

	if err == nil {
		a.diag.add(1, pyast.Position{}, "minimum required versions: %s", acc)
	}
	res.Report = a.diag.text()
	if err != nil {
		return res, err
	}
	res.Minimum = acc
	return res, nil
}
