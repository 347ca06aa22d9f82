package pyfloor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cbergh/pyfloor/internal/analysis"
	"github.com/cbergh/pyfloor/internal/pyast"
	"github.com/cbergh/pyfloor/internal/rules"
	"github.com/cbergh/pyfloor/internal/store"
	"github.com/cbergh/pyfloor/internal/version"
)

// Engine orchestrates detection: file discovery, cache lookups, parallel
// per-file analysis, and the fold into one batch minimum.
type Engine struct {
	cfg       analysis.Config
	rules     *rules.Ruleset
	cache     *store.Store
	cachePath string
	processes int
	log       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLax enables lax mode: conditional branches (if, for, while, try,
// boolean operators) are not descended into, on the assumption that they
// guard version-specific code paths.
func WithLax(lax bool) Option {
	return func(e *Engine) { e.cfg.Lax = lax }
}

// WithQuiet suppresses per-file detection reports.
func WithQuiet(quiet bool) Option {
	return func(e *Engine) { e.cfg.Quiet = quiet }
}

// WithVerbosity sets the report detail level. 0 reports nothing, 1 the
// per-file summary line, 2 adds per-requirement reasons, 3 adds source
// positions and ignored symbols.
func WithVerbosity(v int) Option {
	return func(e *Engine) { e.cfg.Verbosity = v }
}

// WithProcesses caps the analysis worker pool. Zero means one worker per
// CPU, bounded by the number of files.
func WithProcesses(n int) Option {
	return func(e *Engine) { e.processes = n }
}

// WithCache enables the SQLite result cache at dbPath. Files whose content
// hash matches a cached entry skip parsing entirely.
func WithCache(dbPath string) Option {
	return func(e *Engine) { e.cachePath = dbPath }
}

// WithRules replaces the built-in knowledge base.
func WithRules(rs *rules.Ruleset) Option {
	return func(e *Engine) { e.rules = rs }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine. The zero configuration analyzes strictly, with the
// built-in rule tables and no cache.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		rules: rules.Default(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cachePath != "" {
		s, err := store.New(e.cachePath)
		if err != nil {
			return nil, fmt.Errorf("pyfloor: open cache: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("pyfloor: migrate cache: %w", err)
		}
		e.cache = s
	}
	return e, nil
}

// Close releases the Engine's cache resources, if any.
func (e *Engine) Close() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Close()
}

// DetectSource parses and analyzes one in-memory source unit.
func (e *Engine) DetectSource(ctx context.Context, src string) (*analysis.Result, error) {
	mod, err := pyast.ParseString(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("pyfloor: parse: %w", err)
	}
	return analysis.New(e.cfg, e.rules).Analyze(mod)
}

// FileResult is one file's outcome within a batch.
type FileResult struct {
	Path    string
	Minimum version.Pair

	// Conflict marks files whose own requirements exclude both major
	// lines. Conflicting files are excluded from the batch fold.
	Conflict bool

	// Err is set for files that could not be read or parsed.
	Err error

	Report string
}

// Summary is the outcome of a batch run.
type Summary struct {
	// Minimum is the fold of every clean file's pair.
	Minimum version.Pair

	// Conflict is set when the per-file pairs are mutually irreconcilable
	// even though each file is individually satisfiable.
	Conflict bool

	Files []FileResult
}

// Incompatible returns the paths whose requirements no interpreter can
// satisfy.
func (s *Summary) Incompatible() []string {
	var paths []string
	for _, f := range s.Files {
		if f.Conflict {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// DetectFile analyzes a single file on disk, going through the cache when
// one is configured.
func (e *Engine) DetectFile(ctx context.Context, path string) (FileResult, error) {
	sum, err := e.DetectPaths(ctx, []string{path})
	if err != nil {
		return FileResult{}, err
	}
	if len(sum.Files) == 0 {
		return FileResult{}, fmt.Errorf("pyfloor: %s: not a Python file", path)
	}
	return sum.Files[0], nil
}

// DetectDirectory discovers Python files under root and analyzes them. If
// root is inside a git repository, git ls-files is used to respect
// .gitignore; otherwise the tree is walked, skipping hidden directories
// and __pycache__.
func (e *Engine) DetectDirectory(ctx context.Context, root string) (*Summary, error) {
	paths, err := e.gitListFiles(root)
	if err != nil {
		paths, err = e.walkListFiles(root)
		if err != nil {
			return nil, err
		}
	}
	return e.DetectPaths(ctx, paths)
}

func isPythonFile(path string) bool {
	return strings.HasSuffix(path, ".py")
}

// gitListFiles uses git ls-files to discover tracked and untracked (but
// not ignored) Python files under root.
func (e *Engine) gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isPythonFile(line) {
			continue
		}
		paths = append(paths, filepath.Join(root, line))
	}
	return paths, nil
}

// walkListFiles discovers Python files by walking the tree, used as a
// fallback when git is not available.
func (e *Engine) walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "__pycache__" {
				return filepath.SkipDir
			}
			return nil
		}
		if isPythonFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}

// analyzeContent runs parse and analysis for one file's content.
func (e *Engine) analyzeContent(ctx context.Context, path string, content []byte) FileResult {
	fr := FileResult{Path: path}

	mod, err := pyast.Parse(ctx, content)
	if err != nil {
		fr.Err = fmt.Errorf("parse: %w", err)
		return fr
	}

	res, err := analysis.New(e.cfg, e.rules).Analyze(mod)
	if res != nil {
		fr.Report = res.Report
	}
	if err != nil {
		var conflict *version.ConflictError
		if errors.As(err, &conflict) {
			fr.Conflict = true
			return fr
		}
		fr.Err = err
		return fr
	}
	fr.Minimum = res.Minimum
	return fr
}

// cacheSave persists a clean or conflicting outcome; errors are logged,
// not fatal, since the cache is advisory.
func (e *Engine) cacheSave(fr FileResult, hash string) {
	if e.cache == nil || hash == "" || fr.Err != nil {
		return
	}
	err := e.cache.Save(&store.Result{
		Path:     fr.Path,
		Hash:     hash,
		Minimum:  fr.Minimum,
		Conflict: fr.Conflict,
		Report:   fr.Report,
		Analyzed: time.Now(),
	})
	if err != nil {
		e.log.Warn("cache save failed", "path", fr.Path, "error", err)
	}
}

func hashContent(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// readFileHash reads path and returns its content hash when the cache is
// enabled. Without a cache the hash is skipped.
func (e *Engine) readFileHash(path string) ([]byte, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	if e.cache == nil {
		return content, "", nil
	}
	return content, hashContent(content), nil
}
