package texts

import (
	"path/filepath"

	"trigger-bot/internal/logger"

	"gopkg.in/fsnotify.v1"
)

// Watch перечитывает тексты при изменении файла. Возвращает функцию остановки.
func (h *Holder) Watch(log *logger.Logger) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(h.path)
	// следим за папкой: редакторы сохраняют файл через переименование
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					if err := h.Reload(); err != nil {
						log.Warning("Не корректный файл текстов!", err)
						continue
					}
					log.Info("Texts reloaded from", target)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warning("texts watcher error:", err)
			}
		}
	}()

	return watcher.Close, nil
}
