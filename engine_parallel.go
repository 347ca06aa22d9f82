package pyfloor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/cbergh/pyfloor/internal/version"
)

// workItem holds everything an analysis worker needs for one file.
type workItem struct {
	path    string
	content []byte
	hash    string
}

// DetectPaths analyzes the given files using a three-phase pipeline:
//
//	Phase A (serial):  Read files, hash content, reuse cached results.
//	Phase B (parallel): Parse and analyze via worker pool.
//	Phase C (serial):  Persist outcomes and fold per-file pairs.
//
// Unreadable or unparseable files are recorded on the Summary and skipped;
// the batch continues.
func (e *Engine) DetectPaths(ctx context.Context, paths []string) (*Summary, error) {
	sum := &Summary{}

	// ---- Phase A: serial preparation ----
	var items []workItem
	for _, path := range paths {
		if !isPythonFile(path) {
			continue
		}
		content, hash, err := e.readFileHash(path)
		if err != nil {
			sum.Files = append(sum.Files, FileResult{Path: path, Err: err})
			continue
		}

		if e.cache != nil {
			cached, err := e.cache.Lookup(path, hash)
			if err != nil {
				e.log.Warn("cache lookup failed", "path", path, "error", err)
			} else if cached != nil {
				e.log.Debug("cache hit", "path", path)
				sum.Files = append(sum.Files, FileResult{
					Path:     path,
					Minimum:  cached.Minimum,
					Conflict: cached.Conflict,
					Report:   cached.Report,
				})
				continue
			}
		}

		items = append(items, workItem{path: path, content: content, hash: hash})
	}

	// ---- Phase B: parallel analysis ----
	if len(items) > 0 {
		numWorkers := e.processes
		if numWorkers <= 0 {
			numWorkers = runtime.NumCPU()
		}
		if numWorkers > len(items) {
			numWorkers = len(items)
		}

		workCh := make(chan workItem, len(items))
		for _, item := range items {
			workCh <- item
		}
		close(workCh)

		type outcome struct {
			fr   FileResult
			hash string
		}
		resultCh := make(chan outcome, len(items))

		var wg sync.WaitGroup
		for i := 0; i < numWorkers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for item := range workCh {
					fr := e.analyzeContent(ctx, item.path, item.content)
					resultCh <- outcome{fr: fr, hash: item.hash}
				}
			}()
		}

		go func() {
			wg.Wait()
			close(resultCh)
		}()

		// ---- Phase C: serial commit ----
		for out := range resultCh {
			e.cacheSave(out.fr, out.hash)
			sum.Files = append(sum.Files, out.fr)
		}
	}

	sort.Slice(sum.Files, func(i, j int) bool {
		return sum.Files[i].Path < sum.Files[j].Path
	})

	// Fold clean files into the batch pair. Per-file conflicts are already
	// recorded; a cross-file conflict marks the summary instead of erroring
	// so callers still see every per-file outcome.
	acc := version.Pair{}
	for _, fr := range sum.Files {
		if fr.Err != nil || fr.Conflict {
			continue
		}
		merged, err := version.Combine(acc, fr.Minimum)
		if err != nil {
			sum.Conflict = true
			e.log.Debug("cross-file conflict", "path", fr.Path, "pair", fmt.Sprint(fr.Minimum))
			continue
		}
		acc = merged
	}
	if !sum.Conflict {
		sum.Minimum = acc
	}
	return sum, nil
}
