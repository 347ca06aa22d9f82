package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbergh/pyfloor/internal/pyast"
	"github.com/cbergh/pyfloor/internal/rules"
	"github.com/cbergh/pyfloor/internal/version"
)

func analyzeSource(t *testing.T, cfg Config, src string) *Result {
	t.Helper()
	mod, err := pyast.ParseString(context.Background(), src)
	require.NoError(t, err)
	res, err := New(cfg, rules.Default()).Analyze(mod)
	require.NoError(t, err)
	return res
}

func detect(t *testing.T, src string) version.Pair {
	t.Helper()
	return analyzeSource(t, Config{}, src).Minimum
}

func TestEmptySourceHasNoFloor(t *testing.T) {
	min := detect(t, "")
	assert.True(t, min.IsZero())
}

func TestPrintStatement(t *testing.T) {
	a := New(Config{}, rules.Default())
	mod := &pyast.Module{Body: []pyast.Stmt{
		&pyast.PrintStmt{Values: []pyast.Expr{&pyast.StringLit{Value: "hello"}}},
	}}
	res, err := a.Analyze(mod)
	require.NoError(t, err)
	assert.True(t, res.Flags.PrintStmt)
	assert.Equal(t, version.P(version.V(2, 0), version.Excluded), res.Minimum)
}

func TestPrintFunction(t *testing.T) {
	res := analyzeSource(t, Config{}, `print("hello")`)
	assert.True(t, res.Flags.PrintCall)
	assert.Equal(t, version.P(version.V(2, 0), version.V(3, 0)), res.Minimum)
}

func TestFormatWithAutoNumbering(t *testing.T) {
	res := analyzeSource(t, Config{}, `"hello {}!".format("world")`)
	assert.True(t, res.Flags.Format27)
	assert.Equal(t, version.P(version.V(2, 7), version.V(3, 0)), res.Minimum)
}

func TestFormatWithExplicitIndexIsUnversioned(t *testing.T) {
	res := analyzeSource(t, Config{}, `"hello {0}!".format("world")`)
	assert.False(t, res.Flags.Format27)
	assert.True(t, res.Minimum.IsZero())
}

func TestLongBuiltin(t *testing.T) {
	res := analyzeSource(t, Config{}, `v = long(42)`)
	assert.True(t, res.Flags.LongV2)
	assert.Equal(t, version.V(2, 0), res.Minimum.V2)
	assert.True(t, res.Minimum.V3.IsExcluded())
}

func TestBytesLiteral(t *testing.T) {
	res := analyzeSource(t, Config{}, `v = b"hello"`)
	assert.True(t, res.Flags.BytesV3)
	assert.True(t, res.Minimum.V2.IsExcluded())
	assert.Equal(t, version.V(3, 0), res.Minimum.V3)
}

func TestFString(t *testing.T) {
	res := analyzeSource(t, Config{}, "name = \"x\"\nv = f\"hello {name}\"")
	assert.True(t, res.Flags.FStrings)
	assert.Equal(t, version.V(3, 6), res.Minimum.V3)
	assert.True(t, res.Minimum.V2.IsExcluded())
}

func TestNamedExpression(t *testing.T) {
	res := analyzeSource(t, Config{}, "if (n := 10) > 5:\n\tpass")
	assert.True(t, res.Flags.NamedExpr)
	assert.Equal(t, version.V(3, 8), res.Minimum.V3)
}

func TestBoolConstant(t *testing.T) {
	res := analyzeSource(t, Config{}, `v = True`)
	assert.True(t, res.Flags.BoolConst)
	assert.Equal(t, version.P(version.V(2, 2), version.V(3, 0)), res.Minimum)
}

func TestAsyncFunction(t *testing.T) {
	res := analyzeSource(t, Config{}, "async def task():\n\tpass")
	assert.True(t, res.Flags.Coroutines)
	assert.Equal(t, version.V(3, 5), res.Minimum.V3)
}

func TestAwait(t *testing.T) {
	res := analyzeSource(t, Config{}, "async def task():\n\tawait other()")
	assert.True(t, res.Flags.Coroutines)
}

func TestFunctionAnnotations(t *testing.T) {
	res := analyzeSource(t, Config{}, "def greet(name: str) -> str:\n\treturn name")
	assert.True(t, res.Flags.Annotations)
	assert.False(t, res.Flags.VarAnnotations)
	assert.Equal(t, version.V(3, 0), res.Minimum.V3)
}

func TestVariableAnnotations(t *testing.T) {
	res := analyzeSource(t, Config{}, `count: int = 0`)
	assert.True(t, res.Flags.VarAnnotations)
	assert.Equal(t, version.V(3, 6), res.Minimum.V3)
}

func TestModuleRequirement(t *testing.T) {
	assert.Equal(t, version.P(version.V(2, 6), version.V(3, 0)), detect(t, `import abc`))
	assert.Equal(t, version.P(version.V(2, 7), version.V(3, 2)), detect(t, `import argparse`))
}

func TestModuleRegisteredOnce(t *testing.T) {
	res := analyzeSource(t, Config{}, "import abc\nimport abc\nabc.x\nabc.y")
	count := 0
	for _, m := range res.Modules {
		if m == "abc" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, version.P(version.V(2, 6), version.V(3, 0)), res.Minimum)
}

func TestStarImportRegistersModuleOnly(t *testing.T) {
	res := analyzeSource(t, Config{}, "from os import *")
	assert.Contains(t, res.Modules, "os")
	assert.Empty(t, res.Members)
	assert.Empty(t, res.MemberRefs)
}

func TestModuleRequirementsCombine(t *testing.T) {
	min := detect(t, "import abc\nimport argparse")
	assert.Equal(t, version.P(version.V(2, 7), version.V(3, 2)), min)
}

func TestMemberClass(t *testing.T) {
	res := analyzeSource(t, Config{}, "import abc\n\nclass Base(abc.ABC):\n\tpass")
	assert.Contains(t, res.Members, "abc.ABC")
	assert.True(t, res.Minimum.V2.IsExcluded())
	assert.Equal(t, version.V(3, 4), res.Minimum.V3)
}

func TestMemberFunction(t *testing.T) {
	res := analyzeSource(t, Config{}, "import sys\nsys.exc_clear()")
	assert.Contains(t, res.Members, "sys.exc_clear")
	assert.Equal(t, version.V(2, 3), res.Minimum.V2)
	assert.True(t, res.Minimum.V3.IsExcluded())
}

func TestMemberViaFromImport(t *testing.T) {
	res := analyzeSource(t, Config{}, "from abc import ABC")
	assert.Contains(t, res.Members, "abc.ABC")
	assert.Equal(t, version.V(3, 4), res.Minimum.V3)
}

func TestMemberAuditIncludesUnversionedReferences(t *testing.T) {
	res := analyzeSource(t, Config{}, "import os\nos.getcwd()")
	assert.Contains(t, res.MemberRefs, "os.getcwd")
	assert.NotContains(t, res.Members, "os.getcwd")
}

func TestVersionedKwarg(t *testing.T) {
	res := analyzeSource(t, Config{}, "import os\nos.open("+`"f"`+", 0, dir_fd=None)")
	assert.Contains(t, res.Kwargs, rules.Kwarg{Function: "os.open", Keyword: "dir_fd"})
	assert.Equal(t, version.V(3, 3), res.Minimum.V3)
}

func TestVersionedKwargViaFromImport(t *testing.T) {
	res := analyzeSource(t, Config{}, "from os import open\nopen("+`"f"`+", 0, dir_fd=None)")
	assert.Contains(t, res.Kwargs, rules.Kwarg{Function: "os.open", Keyword: "dir_fd"})
}

func TestStrftimeDirectives(t *testing.T) {
	res := analyzeSource(t, Config{},
		"from datetime import datetime\nd = datetime.now().strftime(\"%Y %V\")")
	assert.Contains(t, res.Strftime, "%V")
	assert.Equal(t, version.V(3, 6), res.Minimum.V3)
}

func TestArrayTypecode(t *testing.T) {
	res := analyzeSource(t, Config{}, "import array\na = array.array(\"q\", [1, 2])")
	assert.Contains(t, res.ArrayTypecodes, "q")
	assert.Equal(t, version.V(3, 3), res.Minimum.V3)
}

func TestCodecsErrorHandler(t *testing.T) {
	res := analyzeSource(t, Config{},
		"import codecs\ncodecs.encode(\"x\", \"utf-8\", \"surrogateescape\")")
	assert.Contains(t, res.CodecsHandlers, "surrogateescape")
	assert.Equal(t, version.V(3, 1), res.Minimum.V3)
}

func TestCodecsEncodingByAlias(t *testing.T) {
	res := analyzeSource(t, Config{}, "import codecs\ncodecs.encode(b\"x\", \"hex\")")
	assert.Contains(t, res.CodecsNames, "hex")
	assert.Equal(t, version.V(3, 4), res.Minimum.V3)
}

func TestCodecsEncodingKeyword(t *testing.T) {
	res := analyzeSource(t, Config{},
		"import codecs\ncodecs.encode(\"x\", encoding=\"hex_codec\")")
	assert.Contains(t, res.CodecsNames, "hex_codec")
}

func TestShadowingRetroactive(t *testing.T) {
	res := analyzeSource(t, Config{}, "import abc\n\ndef abc():\n\tpass")
	assert.NotContains(t, res.Modules, "abc")
	assert.Contains(t, res.UserDefined, "abc")
	assert.True(t, res.Minimum.IsZero())
}

func TestShadowingProspective(t *testing.T) {
	res := analyzeSource(t, Config{}, "def abc():\n\tpass\n\nimport abc")
	assert.NotContains(t, res.Modules, "abc")
	assert.True(t, res.Minimum.IsZero())
}

func TestShadowingByAssignment(t *testing.T) {
	res := analyzeSource(t, Config{}, "import abc\nabc = 42")
	assert.NotContains(t, res.Modules, "abc")
}

func TestShadowingByClass(t *testing.T) {
	res := analyzeSource(t, Config{}, "import abc\n\nclass abc:\n\tpass")
	assert.NotContains(t, res.Modules, "abc")
}

func TestAssignedReceiverResolvesMember(t *testing.T) {
	src := "import bz2\nv = bz2.BZ2File(\"f.bz2\")\nv.writable()"
	res := analyzeSource(t, Config{}, src)
	assert.Contains(t, res.Members, "bz2.BZ2File.writable")
	assert.True(t, res.Minimum.V2.IsExcluded())
	assert.Equal(t, version.V(3, 3), res.Minimum.V3)
}

func TestConflictingRequirements(t *testing.T) {
	mod, err := pyast.ParseString(context.Background(), "import copy_reg\nimport http")
	require.NoError(t, err)
	_, err = New(Config{}, rules.Default()).Analyze(mod)
	require.Error(t, err)
	var conflict *version.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestLaxModeSkipsConditionalBranches(t *testing.T) {
	src := "import sys\nif sys.version_info >= (3,):\n\timport http\nelse:\n\timport httplib"
	res := analyzeSource(t, Config{Lax: true}, src)
	assert.NotContains(t, res.Modules, "http")
	assert.NotContains(t, res.Modules, "httplib")
	assert.True(t, res.Minimum.IsZero())
}

func TestStrictModeVisitsConditionalBranches(t *testing.T) {
	src := "if True:\n\timport http"
	res := analyzeSource(t, Config{}, src)
	assert.Contains(t, res.Modules, "http")
	assert.Equal(t, version.V(3, 0), res.Minimum.V3)
}

func TestReportQuiet(t *testing.T) {
	res := analyzeSource(t, Config{Quiet: true, Verbosity: 2}, "import argparse")
	assert.Empty(t, res.Report)
}

func TestReportSummaryLine(t *testing.T) {
	res := analyzeSource(t, Config{Verbosity: 1}, "import argparse")
	assert.Contains(t, res.Report, "minimum required versions: (2.7, 3.2)")
	assert.NotContains(t, res.Report, "'argparse'")
}

func TestReportVerbose(t *testing.T) {
	res := analyzeSource(t, Config{Verbosity: 2}, "import argparse")
	assert.Contains(t, res.Report, "'argparse' requires (2.7, 3.2)")
}

func TestImportAlias(t *testing.T) {
	res := analyzeSource(t, Config{}, "from os import open as osopen\nosopen(\"f\", 0, dir_fd=None)")
	assert.Contains(t, res.Kwargs, rules.Kwarg{Function: "os.open", Keyword: "dir_fd"})
}
