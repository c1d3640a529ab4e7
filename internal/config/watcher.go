package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchOps are the operations that count as a change to the config file.
const watchOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch reports edits to the configuration file at path until ctx is done.
//
// The parent directory is watched rather than the file itself because most
// editors save by writing a temporary file and renaming it over the
// original, which would silently end a watch on the old inode. Notices are
// coalesced: if the consumer has not read the previous notice, new changes
// are folded into it. The returned channel is closed when the watch ends.
func Watch(ctx context.Context, path string) (<-chan string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	notice := fmt.Sprintf("%s changed on disk; restart runner to apply", filepath.Base(absPath))
	notices := make(chan string, 1)

	go func() {
		defer close(notices)
		defer fsw.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != absPath || ev.Op&watchOps == 0 {
					continue
				}
				select {
				case notices <- notice:
				default:
				}

			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return notices, nil
}
