package database

import (
	"time"

	"github.com/allegro/bigcache/v3"
)

// ConnectInMemoryCache кеш для состояний диалогов. Записи живут lifeWindow.
func ConnectInMemoryCache(lifeWindow time.Duration) (*bigcache.BigCache, error) {
	if lifeWindow <= 0 {
		// bigcache требует положительное окно, без ограничения храним сутки
		lifeWindow = 24 * time.Hour
	}

	cnf := bigcache.DefaultConfig(lifeWindow)
	cnf.CleanWindow = time.Minute
	cnf.Verbose = false

	return bigcache.NewBigCache(cnf)
}
