package completer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// walkTree lists the entries under root up to depth levels deep, relative
// to root. Directories end in "/". Unreadable entries are skipped.
func walkTree(ctx context.Context, root string, depth int, logger *slog.Logger) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Debug("skipping unreadable entry", "path", p, "error", err)
			return nil
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !d.IsDir() {
			paths = append(paths, rel)
			return nil
		}
		paths = append(paths, rel+"/")
		if strings.Count(rel, "/")+1 >= depth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// dirJob is one directory waiting to be listed by the repository walker.
type dirJob struct {
	rel   string // relative to the walk root, "" for the root
	depth int
	rules *ignoreRules
}

// dirQueue is the shared work queue of the repository walker. pop blocks
// until a job is available or every worker is idle with nothing queued.
type dirQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []dirJob
	active int
	closed bool
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *dirQueue) push(job dirJob) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *dirQueue) pop() (dirJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && q.active > 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed || len(q.jobs) == 0 {
		q.closed = true
		q.cond.Broadcast()
		return dirJob{}, false
	}

	job := q.jobs[len(q.jobs)-1]
	q.jobs = q.jobs[:len(q.jobs)-1]
	q.active++
	return job, true
}

func (q *dirQueue) done() {
	q.mu.Lock()
	q.active--
	if q.active == 0 && len(q.jobs) == 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

// repoWalker lists a repository honouring its ignore files, with a fixed
// pool of workers listing directories in parallel.
type repoWalker struct {
	root    string
	depth   int
	workers int
	logger  *slog.Logger
}

// walk returns the sorted, root-relative entries. Directories end in "/".
// The .git directory is never entered.
func (w repoWalker) walk(ctx context.Context) ([]string, error) {
	queue := newDirQueue()
	queue.push(dirJob{rules: repoIgnoreRules(w.root)})

	out := make(chan string, 256)
	var wg sync.WaitGroup
	for range max(w.workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, ok := queue.pop()
				if !ok {
					return
				}
				w.visit(ctx, job, queue, out)
				queue.done()
			}
		}()
	}

	// Closing out is the end-of-walk sentinel for the consumer below.
	go func() {
		wg.Wait()
		close(out)
	}()

	var paths []string
	for p := range out {
		paths = append(paths, p)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

func (w repoWalker) visit(ctx context.Context, job dirJob, queue *dirQueue, out chan<- string) {
	if ctx.Err() != nil {
		return
	}

	dir := filepath.Join(w.root, filepath.FromSlash(job.rel))
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Debug("skipping unreadable directory", "path", dir, "error", err)
		return
	}
	rules := job.rules.child(job.rel, readIgnoreFile(filepath.Join(dir, ".gitignore")))

	for _, entry := range entries {
		name := entry.Name()
		if name == ".git" {
			continue
		}
		rel := path.Join(job.rel, name)
		isDir := entry.IsDir()
		if rules.ignored(rel, isDir) {
			continue
		}

		if !isDir {
			out <- rel
			continue
		}
		out <- rel + "/"
		if job.depth+1 < w.depth {
			queue.push(dirJob{rel: rel, depth: job.depth + 1, rules: rules})
		}
	}
}
