package pyast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Module {
	t.Helper()
	mod, err := ParseString(context.Background(), src)
	require.NoError(t, err)
	return mod
}

func TestParseImport(t *testing.T) {
	mod := parse(t, "import os.path\nimport json as j")
	require.Len(t, mod.Body, 2)

	imp, ok := mod.Body[0].(*Import)
	require.True(t, ok)
	require.Len(t, imp.Names, 1)
	assert.Equal(t, "os.path", imp.Names[0].Path)
	assert.Empty(t, imp.Names[0].AsName)

	imp, ok = mod.Body[1].(*Import)
	require.True(t, ok)
	require.Len(t, imp.Names, 1)
	assert.Equal(t, "json", imp.Names[0].Path)
	assert.Equal(t, "j", imp.Names[0].AsName)
}

func TestParseImportFrom(t *testing.T) {
	mod := parse(t, "from collections import OrderedDict, defaultdict as dd")
	require.Len(t, mod.Body, 1)

	imp, ok := mod.Body[0].(*ImportFrom)
	require.True(t, ok)
	assert.Equal(t, "collections", imp.Module)
	require.Len(t, imp.Names, 2)
	assert.Equal(t, "OrderedDict", imp.Names[0].Path)
	assert.Equal(t, "defaultdict", imp.Names[1].Path)
	assert.Equal(t, "dd", imp.Names[1].AsName)
}

func TestParseImportFromWildcard(t *testing.T) {
	mod := parse(t, "from os.path import *")
	imp, ok := mod.Body[0].(*ImportFrom)
	require.True(t, ok)
	assert.Equal(t, "os.path", imp.Module)
	assert.True(t, imp.Star)
}

func TestParseRelativeImport(t *testing.T) {
	mod := parse(t, "from ..pkg import helper")
	imp, ok := mod.Body[0].(*ImportFrom)
	require.True(t, ok)
	assert.Equal(t, "pkg", imp.Module)
}

func TestParseFunctionDef(t *testing.T) {
	src := "def greet(name: str, count=1) -> str:\n\treturn name"
	mod := parse(t, src)
	require.Len(t, mod.Body, 1)

	fn, ok := mod.Body[0].(*FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "greet", fn.Name)
	assert.False(t, fn.Async)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "name", fn.Params[0].Name)
	assert.NotNil(t, fn.Params[0].Annotation)
	assert.Equal(t, "count", fn.Params[1].Name)
	assert.NotNil(t, fn.Params[1].Default)
	assert.NotNil(t, fn.Returns)
	require.Len(t, fn.Body, 1)
}

func TestParseAsyncFunction(t *testing.T) {
	mod := parse(t, "async def task():\n\tpass")
	fn, ok := mod.Body[0].(*FunctionDef)
	require.True(t, ok)
	assert.True(t, fn.Async)
}

func TestParseDecoratedClass(t *testing.T) {
	src := "@register\nclass Handler(Base):\n\tpass"
	mod := parse(t, src)
	cls, ok := mod.Body[0].(*ClassDef)
	require.True(t, ok)
	assert.Equal(t, "Handler", cls.Name)
	require.Len(t, cls.Decorators, 1)
	require.Len(t, cls.Bases, 1)
	base, ok := cls.Bases[0].(*Name)
	require.True(t, ok)
	assert.Equal(t, "Base", base.ID)
}

func TestParseChainedAssignment(t *testing.T) {
	mod := parse(t, "a = b = 1")
	assign, ok := mod.Body[0].(*Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 2)
	_, ok = assign.Value.(*NumberLit)
	assert.True(t, ok)
}

func TestParseAnnotatedAssignment(t *testing.T) {
	mod := parse(t, "count: int = 0")
	ann, ok := mod.Body[0].(*AnnAssign)
	require.True(t, ok)
	require.NotNil(t, ann.Annotation)
	annName, ok := ann.Annotation.(*Name)
	require.True(t, ok)
	assert.Equal(t, "int", annName.ID)
	assert.NotNil(t, ann.Value)
}

func TestParseAttributeChain(t *testing.T) {
	mod := parse(t, "os.path.join")
	stmt, ok := mod.Body[0].(*ExprStmt)
	require.True(t, ok)
	attr, ok := stmt.Value.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "join", attr.Attr)
	inner, ok := attr.Value.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "path", inner.Attr)
}

func TestParseCallKeywords(t *testing.T) {
	mod := parse(t, `open("f", mode="r")`)
	stmt := mod.Body[0].(*ExprStmt)
	call, ok := stmt.Value.(*Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	require.Len(t, call.Keywords, 1)
	assert.Equal(t, "mode", call.Keywords[0].Name)
	assert.Equal(t, 1, call.Keywords[0].P.Line)
}

func TestParseStringPrefixes(t *testing.T) {
	mod := parse(t, "a = b\"x\"\nc = f\"y\"\nd = \"z\"")

	get := func(i int) *StringLit {
		assign, ok := mod.Body[i].(*Assign)
		require.True(t, ok)
		lit, ok := assign.Value.(*StringLit)
		require.True(t, ok)
		return lit
	}

	assert.True(t, get(0).Bytes)
	assert.True(t, get(1).FString)
	plain := get(2)
	assert.False(t, plain.Bytes)
	assert.False(t, plain.FString)
	assert.Equal(t, "z", plain.Value)
}

func TestParseTripleQuotedString(t *testing.T) {
	mod := parse(t, "a = \"\"\"multi\"\"\"")
	assign := mod.Body[0].(*Assign)
	lit, ok := assign.Value.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "multi", lit.Value)
}

func TestParseNamedExpression(t *testing.T) {
	mod := parse(t, "if (n := 10) > 5:\n\tpass")
	ifStmt, ok := mod.Body[0].(*If)
	require.True(t, ok)
	cmp, ok := ifStmt.Cond.(*BinOp)
	require.True(t, ok)
	_, ok = cmp.Left.(*NamedExpr)
	assert.True(t, ok)
}

func TestParseLegacyPrintLowered(t *testing.T) {
	mod := parse(t, "print \"hello\"")
	require.NotEmpty(t, mod.Body)
	_, ok := mod.Body[0].(*PrintStmt)
	assert.True(t, ok)
}

func TestParsePrintCallStaysCall(t *testing.T) {
	mod := parse(t, `print("hello")`)
	stmt, ok := mod.Body[0].(*ExprStmt)
	require.True(t, ok)
	_, ok = stmt.Value.(*Call)
	assert.True(t, ok)
}

func TestParseTryExcept(t *testing.T) {
	src := "try:\n\tx()\nexcept ValueError as e:\n\ty()\nfinally:\n\tz()"
	mod := parse(t, src)
	try, ok := mod.Body[0].(*Try)
	require.True(t, ok)
	require.Len(t, try.Body, 1)
	require.Len(t, try.Handlers, 1)
	assert.NotNil(t, try.Handlers[0].Type)
	assert.Equal(t, "e", try.Handlers[0].Name)
	require.Len(t, try.Finally, 1)
}

func TestParseWith(t *testing.T) {
	src := "with open(\"f\") as fh:\n\tfh.read()"
	mod := parse(t, src)
	with, ok := mod.Body[0].(*With)
	require.True(t, ok)
	require.Len(t, with.Items, 1)
	assert.NotNil(t, with.Items[0].Context)
	require.NotNil(t, with.Items[0].Var)
	require.Len(t, with.Body, 1)
}

func TestParseComprehension(t *testing.T) {
	mod := parse(t, "v = [x for x in items if x]")
	assign := mod.Body[0].(*Assign)
	comp, ok := assign.Value.(*Comprehension)
	require.True(t, ok)
	require.Len(t, comp.Elts, 1)
	assert.NotEmpty(t, comp.Iters)
	require.Len(t, comp.Conds, 1)
}

func TestParsePositions(t *testing.T) {
	mod := parse(t, "import os\n\nimport sys")
	require.Len(t, mod.Body, 2)
	assert.Equal(t, 1, mod.Body[0].Pos().Line)
	assert.Equal(t, 3, mod.Body[1].Pos().Line)
}

func TestStringValue(t *testing.T) {
	mod := parse(t, "a = \"plain\"\nb = b\"bytes\"\nc = f\"fstr\"")

	val := func(i int) (string, bool) {
		return StringValue(mod.Body[i].(*Assign).Value)
	}

	s, ok := val(0)
	assert.True(t, ok)
	assert.Equal(t, "plain", s)

	_, ok = val(1)
	assert.False(t, ok)
	_, ok = val(2)
	assert.False(t, ok)
}
