package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads the settings file at path whenever it is written or replaced
// and passes the fresh configuration to onChange. Reloads that fail to parse or
// validate are logged and skipped so the previous configuration stays in use.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, log zerolog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace files instead of writing them.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	log = log.With().Str("component", "config-watcher").Str("path", path).Logger()
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := LoadFile(path)
			if err != nil {
				log.Warn().Err(err).Msg("settings reload rejected, keeping previous configuration")
				continue
			}
			log.Info().Msg("settings reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("settings watcher error")
		}
	}
}
