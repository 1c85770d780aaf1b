// Package assets keeps the index of media files in the content
// directories of the host project.
package assets

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/giongto35/movierec/pkg/config"
	"github.com/giongto35/movierec/pkg/logger"
	oss "github.com/giongto35/movierec/pkg/os"
)

type Catalog struct {
	project   string
	roots     []string
	supported map[string]struct{}

	files            []string
	refreshes        int
	lastScanDuration time.Duration
	log              *logger.Logger

	// to restrict parallel execution or throttling
	// for file watch mode
	mu                sync.Mutex
	isScanning        bool
	isScanningDelayed bool
}

func New(conf config.Assets, log *logger.Logger) *Catalog {
	project, err := filepath.Abs(conf.Project)
	if err != nil {
		log.Error().Err(err).Str("dir", conf.Project).Msg("Assets have invalid project dir")
		project = conf.Project
	}
	roots := make([]string, 0, len(conf.Roots))
	for _, r := range conf.Roots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(project, r)
		}
		roots = append(roots, filepath.Clean(r))
	}
	supported := make(map[string]struct{}, len(conf.Supported))
	for _, s := range conf.Supported {
		supported[strings.ToLower(strings.TrimPrefix(s, "."))] = struct{}{}
	}
	return &Catalog{project: project, roots: roots, supported: supported, log: log}
}

// Project is the absolute path of the project dir.
func (c *Catalog) Project() string { return c.project }

// Roots returns absolute paths of the content directories.
func (c *Catalog) Roots() []string { return c.roots }

// Contains reports whether the path is inside any of the content directories.
func (c *Catalog) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, root := range c.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Refresh rescans the content directories.
// Refresh calls during a scan are merged into one more scan after the current one.
func (c *Catalog) Refresh() error {
	c.mu.Lock()
	if c.isScanning {
		defer c.mu.Unlock()
		c.isScanningDelayed = true
		c.log.Debug().Msg("Assets scan... delayed")
		return nil
	}
	c.isScanning = true
	c.mu.Unlock()

	start := time.Now()
	// roots may be nested
	seen := map[string]struct{}{}
	var files []string
	var scanErr error
	for _, root := range c.roots {
		if !oss.Exists(root) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, info fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if info == nil || info.IsDir() || !c.isExtAllowed(path) {
				return nil
			}
			if _, ok := seen[path]; ok {
				return nil
			}
			seen[path] = struct{}{}
			files = append(files, path)
			return nil
		})
		if err != nil {
			c.log.Error().Err(err).Str("dir", root).Msg("Assets scan... failed")
			scanErr = err
		}
	}
	sort.Strings(files)

	c.mu.Lock()
	c.files = files
	c.refreshes++
	c.lastScanDuration = time.Since(start)
	c.isScanning = false
	delayed := c.isScanningDelayed
	c.isScanningDelayed = false
	c.mu.Unlock()

	c.log.Debug().Msgf("Assets scan... completed, %v files in %v", len(files), c.lastScanDuration)

	// run scan again if delayed
	if delayed {
		return c.Refresh()
	}
	return scanErr
}

// Files returns the last scanned list of media files.
func (c *Catalog) Files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.files...)
}

// Refreshes returns the number of completed scans.
func (c *Catalog) Refreshes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}

// Watch rescans the catalog on file changes in the content directories
// until the context is done.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range c.roots {
		if err := oss.CheckCreateDir(root); err != nil {
			return err
		}
		if err = watcher.Add(root); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			c.log.Debug().Msg("Assets watch has ended")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := c.Refresh(); err != nil {
					c.log.Warn().Err(err).Msg("Assets refresh")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Warn().Err(err).Msg("Assets watch")
		}
	}
}

func (c *Catalog) isExtAllowed(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := c.supported[ext[1:]]
	return ok
}
