package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/appclassdoc/appclass"
)

var log = commonlog.GetLogger("appclassdoc.codebase")

// DefaultExtensions are the file extensions of application class sources.
var DefaultExtensions = []string{".pcode"}

type BuildOptions struct {
	IncludePrivate bool
	Workers        int
}

// Failure is a source file that did not produce a class.
type Failure struct {
	Path string
	Err  error
}

// Result is the outcome of one documentation run.
type Result struct {
	Corpus   *appclass.Corpus
	Classes  []*appclass.Class
	Files    int
	Failures []Failure
	Elapsed  time.Duration
}

// Discover returns the source files below the given roots, sorted. A root
// naming a file is taken as is; directories are walked, skipping hidden
// ones, for files with one of the extensions.
func Discover(roots []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				log.Warningf("skipping %s: %s", path, err)
				return nil
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, extensions) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", root)
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Build builds every file into a fresh corpus and resolves it. Files are
// built by opts.Workers goroutines; a file that cannot be read or declares
// no class is recorded as a failure and the run continues. Build only
// fails when ctx is cancelled.
func Build(ctx context.Context, paths []string, opts BuildOptions) (*Result, error) {
	start := time.Now()
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	result := &Result{
		Corpus: appclass.NewCorpus(),
		Files:  len(paths),
	}

	var mu sync.Mutex
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				_, err := appclass.ClassFromFile(path, result.Corpus, appclass.IncludePrivate(opts.IncludePrivate))
				if err == nil {
					log.Debugf("built %s", path)
					continue
				}
				log.Warningf("%s", err)
				mu.Lock()
				result.Failures = append(result.Failures, Failure{Path: path, Err: err})
				mu.Unlock()
			}
		}()
	}

	var cancelled error
feed:
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, errors.Wrap(cancelled, "build cancelled")
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Path < result.Failures[j].Path
	})
	result.Corpus.Resolve()
	result.Classes = result.Corpus.Classes()
	result.Elapsed = time.Since(start)

	log.Infof("built %d classes from %d files, %d failures in %s",
		len(result.Classes), result.Files, len(result.Failures), result.Elapsed)
	return result, nil
}
