// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch evicts cached clips when their files under root change. root is the
// OS directory the library's fs.FS was built from. Watching starts before
// Watch returns and stops when ctx is done or the returned func is called.
func (l *Library) Watch(ctx context.Context, root string) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// fsnotify is not recursive.
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				l.handleEvent(root, ev)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("watch error", "err", err)
			}
		}
	}()

	return func() error {
		cancel()
		<-done
		return w.Close()
	}, nil
}

func (l *Library) handleEvent(root string, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	rel, err := filepath.Rel(root, ev.Name)
	if err != nil {
		return
	}
	l.Evict(filepath.ToSlash(rel))
}
