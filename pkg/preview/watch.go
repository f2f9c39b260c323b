package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/realtime"
	"github.com/rubiojr/blockpress/pkg/storage"
)

// watchDebounce coalesces the burst of events editors produce on save.
const watchDebounce = 150 * time.Millisecond

// IsDocumentFile reports whether path looks like a document file.
func IsDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// DocumentID derives the store id of a document file: its base name
// without extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SyncFile loads the document at path, stores it and publishes a fresh
// render. Stored documents keep their target; new ones get the configured
// default.
func (s *Server) SyncFile(ctx context.Context, path string) (storage.Record, error) {
	doc, err := core.LoadDocument(path)
	if err != nil {
		return storage.Record{}, err
	}
	if err := doc.Validate(); err != nil {
		return storage.Record{}, fmt.Errorf("invalid document %s: %w", path, err)
	}

	id := DocumentID(path)
	target := string(s.cfg.Target())
	if _, prev, err := s.store.Load(ctx, id); err == nil {
		target = prev.Target
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.Record{}, err
	}

	rec, err := s.store.Save(ctx, id, filepath.Base(path), target, doc)
	if err != nil {
		return storage.Record{}, err
	}
	s.Publish(id, rec, doc)
	return rec, nil
}

// Watch imports every document file in dir and keeps the store in sync with
// the directory until ctx is done. Each change is re-rendered and broadcast.
func (s *Server) Watch(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading watch directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !IsDocumentFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := s.SyncFile(ctx, path); err != nil {
			logger.Warnf("skipping %s: %v", path, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close watcher: %v", err)
		}
	}()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Infof("watching %s for document changes", dir)

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
		ready  = make(chan string, 16)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Reset(watchDebounce)
			return
		}
		timers[path] = time.AfterFunc(watchDebounce, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsDocumentFile(event.Name) {
				continue
			}
			// editors often save through rename, so every kind is handled
			// the same way and the file's presence decides what happened
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				schedule(event.Name)
			}
		case path := <-ready:
			s.applyChange(ctx, path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher error: %v", err)
		}
	}
}

func (s *Server) applyChange(ctx context.Context, path string) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		id := DocumentID(path)
		if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warnf("removing %s: %v", id, err)
			return
		}
		logger.Infof("%s removed", id)
		s.hub.Broadcast(realtime.DocumentEvent{Kind: realtime.KindDeleted, DocumentID: id})
		return
	}

	rec, err := s.SyncFile(ctx, path)
	if err != nil {
		logger.Warnf("reloading %s: %v", path, err)
		return
	}
	logger.Infof("%s reloaded (v%d)", rec.ID, rec.Version)
}
