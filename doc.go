// Package pyfloor determines the minimum Python interpreter versions a
// piece of source code requires, reported as a (2.x floor, 3.x floor) pair.
// Parsing is built on tree-sitter; detection walks the syntax tree once,
// collecting version-gated modules, members, call signatures, and syntax
// features, then folds them against a built-in knowledge base.
//
// # Pipeline
//
// Detection runs in three phases per batch of files:
//
//  1. Prepare: read each file, hash its content, and consult the optional
//     result cache. Unchanged files reuse their cached pair.
//
//  2. Analyze: a worker pool parses and analyzes the remaining files
//     concurrently. Each file yields an independent requirement pair, so
//     workers share nothing.
//
//  3. Fold: per-file pairs merge into the batch minimum. The merge is
//     commutative and associative, so worker completion order does not
//     affect the outcome.
//
// # Usage
//
// Create an Engine and point it at files or a directory tree:
//
//	e, err := pyfloor.New(pyfloor.WithCache("pyfloor.db"))
//	if err != nil { ... }
//	defer e.Close()
//
//	sum, err := e.DetectDirectory(ctx, "path/to/project")
//	fmt.Println(sum.Minimum)
//
// Single snippets go through [Engine.DetectSource]; a file whose
// requirements exclude both major lines is reported as incompatible
// rather than failing the whole batch.
package pyfloor
