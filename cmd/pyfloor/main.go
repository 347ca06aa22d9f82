package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cbergh/pyfloor"
	"github.com/cbergh/pyfloor/internal/version"
)

var (
	flagQuiet     bool
	flagVerbose   int
	flagLax       bool
	flagProcesses int
	flagCacheDB   string
	flagFormat    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pyfloor [paths...]",
	Short: "Detect minimum required Python versions",
	Long: "Pyfloor scans Python source for version-gated modules, members, call\n" +
		"signatures, and syntax features, and reports the minimum 2.x and 3.x\n" +
		"interpreter versions able to run it.",
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	RunE: runDetect,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress per-file reports")
	rootCmd.Flags().CountVarP(&flagVerbose, "verbose", "v", "increase report detail (repeatable)")
	rootCmd.Flags().BoolVarP(&flagLax, "lax", "l", false, "skip conditional branches (version-guarded code)")
	rootCmd.Flags().IntVarP(&flagProcesses, "processes", "p", 0, "analysis workers (default: one per CPU)")
	rootCmd.Flags().StringVar(&flagCacheDB, "cache-db", "", "SQLite result cache path")
	rootCmd.Flags().StringVar(&flagFormat, "format", "text", "output format: json|text")
}

func runDetect(cmd *cobra.Command, args []string) error {
	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}

	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	cfg.applyFlags(cmd)

	opts := []pyfloor.Option{
		pyfloor.WithQuiet(cfg.Quiet),
		pyfloor.WithVerbosity(cfg.Verbosity),
		pyfloor.WithLax(cfg.Lax),
		pyfloor.WithProcesses(cfg.Processes),
	}
	if cfg.CacheDB != "" {
		opts = append(opts, pyfloor.WithCache(cfg.CacheDB))
	}

	engine, err := pyfloor.New(opts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()

	sum, err := detectTargets(ctx, engine, targets, cfg.Exclude)
	if err != nil {
		return err
	}

	if flagFormat == "json" {
		err = outputJSON(os.Stdout, sum)
	} else {
		err = outputText(os.Stdout, sum, cfg.Quiet)
	}
	if err != nil {
		return err
	}

	if sum.Conflict || len(sum.Incompatible()) > 0 {
		return fmt.Errorf("incompatible: requirements exclude both major lines")
	}
	return nil
}

// detectTargets expands directory targets, applies exclude patterns, and
// runs one batch over everything.
func detectTargets(ctx context.Context, engine *pyfloor.Engine, targets, exclude []string) (*pyfloor.Summary, error) {
	var combined pyfloor.Summary
	var paths []string

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			paths = append(paths, target)
			continue
		}
		dirSum, err := engine.DetectDirectory(ctx, target)
		if err != nil {
			return nil, err
		}
		for _, fr := range dirSum.Files {
			if !excluded(fr.Path, exclude) {
				combined.Files = append(combined.Files, fr)
			}
		}
	}

	if len(paths) > 0 {
		var kept []string
		for _, p := range paths {
			if !excluded(p, exclude) {
				kept = append(kept, p)
			}
		}
		fileSum, err := engine.DetectPaths(ctx, kept)
		if err != nil {
			return nil, err
		}
		combined.Files = append(combined.Files, fileSum.Files...)
	}

	foldSummary(&combined)
	return &combined, nil
}

// foldSummary recomputes the batch minimum from per-file results, needed
// after merging multiple target runs.
func foldSummary(sum *pyfloor.Summary) {
	acc := version.Pair{}
	for _, fr := range sum.Files {
		if fr.Err != nil || fr.Conflict {
			continue
		}
		merged, err := version.Combine(acc, fr.Minimum)
		if err != nil {
			sum.Conflict = true
			return
		}
		acc = merged
	}
	sum.Minimum = acc
}

// excluded reports whether path matches any exclude pattern, tried against
// the full path and its base name.
func excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}
