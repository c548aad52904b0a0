// Package codebase keeps every source file of a project parsed and
// indexed by path.
package codebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/tidwall/btree"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dhamidi/jsparse/js/parser"
	"github.com/dhamidi/jsparse/project"
)

var log = commonlog.GetLogger("jsparse.codebase")

type Codebase struct {
	mu       sync.RWMutex
	project  *project.Project
	files    btree.Map[string, *FileInfo]
	onChange func(path string, f *FileInfo)
}

// FileInfo is one parsed file. Path is relative to the project root and
// slash-separated. ModTime is the disk modification time seen when the
// file was read, and zero for content that came from an editor.
type FileInfo struct {
	Path    string
	Content []byte
	ModTime time.Time
	Program *parser.Program
}

func (f *FileInfo) Corrupt() bool {
	return f.Program != nil && f.Program.Corrupt
}

func New(p *project.Project) *Codebase {
	return &Codebase{project: p}
}

func (c *Codebase) RootDir() string {
	return c.project.RootDir
}

func (c *Codebase) Project() *project.Project {
	return c.project
}

// OnChange registers fn to run after a file is updated or removed. f is nil
// for removals. fn runs without the codebase lock held.
func (c *Codebase) OnChange(fn func(path string, f *FileInfo)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// ScanAll parses every project file, at most parallelism at a time. A
// parallelism below one means runtime.GOMAXPROCS.
func (c *Codebase) ScanAll(ctx context.Context, parallelism int) error {
	files, err := c.project.Files()
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	log.Infof("scanning %d files in %s", len(files), c.project.RootDir)
	return c.scanFiles(ctx, files, parallelism)
}

// scanFiles parses files concurrently. A file that disappeared after it
// was listed is skipped.
func (c *Codebase) scanFiles(ctx context.Context, files []string, parallelism int) error {
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	sem := semaphore.NewWeighted(int64(parallelism))
	g, gctx := errgroup.WithContext(ctx)
	for _, rel := range files {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			_, err := c.ScanFile(rel)
			if errors.Is(err, fs.ErrNotExist) {
				log.Infof("skipping %s: removed during scan", rel)
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ScanFile reads rel from disk and indexes it.
func (c *Codebase) ScanFile(rel string) (*FileInfo, error) {
	path := c.abs(rel)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return c.update(rel, content, info.ModTime()), nil
}

// UpdateFile parses content as the new text of rel and indexes it.
func (c *Codebase) UpdateFile(rel string, content []byte) *FileInfo {
	return c.update(rel, content, time.Time{})
}

func (c *Codebase) update(rel string, content []byte, modTime time.Time) *FileInfo {
	src := string(content)
	settings := c.project.Settings(rel, src)
	f := &FileInfo{
		Path:    rel,
		Content: content,
		ModTime: modTime,
		Program: parser.Parse(src, settings.Options(rel)...),
	}
	if f.Corrupt() {
		log.Debugf("%s: %s", rel, f.Program.Diagnostics[0])
	}

	c.mu.Lock()
	c.files.Set(rel, f)
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(rel, f)
	}
	return f
}

// RemoveFile drops rel from the index and reports whether it was present.
func (c *Codebase) RemoveFile(rel string) bool {
	c.mu.Lock()
	_, ok := c.files.Delete(rel)
	fn := c.onChange
	c.mu.Unlock()

	if ok && fn != nil {
		fn(rel, nil)
	}
	return ok
}

func (c *Codebase) GetFile(rel string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, _ := c.files.Get(rel)
	return f
}

// Files returns the indexed files in path order.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files.Values()
}

// Corrupt returns the files with diagnostics, in path order.
func (c *Codebase) Corrupt() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*FileInfo
	c.files.Scan(func(_ string, f *FileInfo) bool {
		if f.Corrupt() {
			out = append(out, f)
		}
		return true
	})
	return out
}

func (c *Codebase) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files.Len()
}

func (c *Codebase) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.project.RootDir, filepath.FromSlash(rel))
}
