package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// settleDelay groups the bursts of events produced by editors and copies
// into a single rebuild.
const settleDelay = 300 * time.Millisecond

// watchOverlay calls rebuild whenever something below dir changes until ctx
// is done. Build errors are logged and do not stop the watch.
func watchOverlay(ctx context.Context, log logrus.FieldLogger, dir string, rebuild func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := watchTree(w, dir); err != nil {
		return err
	}
	log.WithField("dir", dir).Info("watching overlay")

	settle := time.NewTimer(settleDelay)
	settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				watchTree(w, ev.Name)
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			log.WithFields(logrus.Fields{"path": ev.Name, "op": ev.Op}).Debug("overlay changed")
			settle.Reset(settleDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		case <-settle.C:
			if err := rebuild(); err != nil {
				log.WithError(err).Error("rebuild failed")
			}
		}
	}
}

// watchTree adds root and every directory below it to w. Paths that are not
// directories are ignored.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(p)
	})
}
