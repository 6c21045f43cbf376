// Package cache кеш значений с фоновым обновлением.
// Пока одна горутина обновляет ключ, остальные получают предыдущее значение.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ReneKroon/ttlcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
)

const clearAll = "all"

var ErrorCacheClosed = errors.New("cache is closed")

// Loader получает актуальное значение ключа
type Loader func(ctx context.Context) (interface{}, error)

type Cache interface {
	Get(ctx context.Context, key string, loader Loader) (value interface{}, err error)
	Clear(keys string) (count int)
	Count() int
	Close()
}

type cache struct {
	ctx             context.Context
	cancel          context.CancelFunc
	items           map[string]*cacheItem
	mx              sync.RWMutex
	refreshInterval time.Duration // интервал обновления значения
	expiredInterval time.Duration // время без обращений, после которого GC удалит запись
}

type cacheItem struct {
	cache           *ttlcache.Cache
	persistentCache *ttlcache.Cache
	locks           locks
	load            sync.Mutex
	mx              sync.Mutex
	lastAccess      time.Time
	loading         int  // загрузки, которые еще пишут в item
	closed          bool // item удален из кеша
}

// New refreshInterval - время актуальности значения.
// expiredInterval - через сколько GC удалит неиспользуемую запись (0 - никогда).
func New(ctx context.Context, refreshInterval, expiredInterval time.Duration) Cache {
	ctx, cancel := context.WithCancel(ctx)
	c := &cache{
		ctx:             ctx,
		cancel:          cancel,
		items:           map[string]*cacheItem{},
		refreshInterval: refreshInterval,
		expiredInterval: expiredInterval,
	}

	if expiredInterval > 0 {
		go c.gc(expiredInterval / 2)
	}

	return c
}

// Get значение ключа. Свежее значение отдается из кеша.
// Устаревшее отдается сразу, а обновление запускается фоном.
// Если значения еще нет, загрузка выполняется синхронно и ее ошибка возвращается вызывающему.
func (c *cache) Get(ctx context.Context, key string, loader Loader) (value interface{}, err error) {
	if c.ctx.Err() != nil {
		return nil, ErrorCacheClosed
	}
	item := c.item(key)

	if cachedValue, ok := item.cache.Get(key); ok {
		return cachedValue, nil
	}

	if oldValue, ok := item.persistentCache.Get(key); ok {
		// Если стоит блокировка, значит кто-то уже обновляет кеш
		if !item.locks.Get(key) {
			utils.RunAsync(ctx, func() {
				if _, err := c.updateCacheValue(c.ctx, key, item, loader); err != nil {
					logger.Warn(ctx, "cache refresh failed, stale value kept", zap.String("key", key), zap.Error(err))
				}
			})
		}
		return oldValue, nil
	}

	// первая загрузка: параллельные запросы ждут одну загрузку
	item.load.Lock()
	defer item.load.Unlock()

	if cachedValue, ok := item.cache.Get(key); ok {
		return cachedValue, nil
	}

	return c.updateCacheValue(ctx, key, item, loader)
}

func (c *cache) item(key string) *cacheItem {
	c.mx.RLock()
	item, found := c.items[key]
	c.mx.RUnlock()

	if !found {
		c.mx.Lock()
		if item, found = c.items[key]; !found {
			ttl := ttlcache.NewCache()
			ttl.SkipTtlExtensionOnHit(true)

			item = &cacheItem{
				cache:           ttl,
				persistentCache: ttlcache.NewCache(),
				locks:           locks{keys: map[string]bool{}},
			}
			c.items[key] = item
		}
		c.mx.Unlock()
	}

	item.mx.Lock()
	item.lastAccess = time.Now()
	item.mx.Unlock()

	return item
}

// close останавливает ttlcache записи. Пока идет загрузка, остановка откладывается
// до ее завершения: запись в остановленный ttlcache блокируется навсегда.
func (i *cacheItem) close() {
	i.mx.Lock()
	if i.closed {
		i.mx.Unlock()
		return
	}
	i.closed = true
	idle := i.loading == 0
	i.mx.Unlock()

	if idle {
		i.shutdown()
	}
}

// begin отмечает начало загрузки. false - item уже удален, результат не сохраняется.
func (i *cacheItem) begin() bool {
	i.mx.Lock()
	defer i.mx.Unlock()

	if i.closed {
		return false
	}
	i.loading++

	return true
}

func (i *cacheItem) end() {
	i.mx.Lock()
	i.loading--
	last := i.closed && i.loading == 0
	i.mx.Unlock()

	if last {
		i.shutdown()
	}
}

func (i *cacheItem) shutdown() {
	i.cache.Close()
	i.persistentCache.Close()
}

// updateCacheValue обновление значения ключа.
// Блокировка на ключ не исключает двойного обновления при гонке, это некритично.
func (c *cache) updateCacheValue(ctx context.Context, key string, item *cacheItem, loader Loader) (result interface{}, err error) {
	item.locks.Set(key, true)
	defer item.locks.Set(key, false)

	store := item.begin()
	if store {
		defer item.end()
	}

	result, err = loader(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not get value from loader")
	}
	// ключ удален, пока шла загрузка: значение отдаем, но не сохраняем
	if !store {
		return result, nil
	}

	item.cache.SetWithTTL(key, result, c.refreshInterval)
	item.persistentCache.Set(key, result)

	return result, nil
}

// Clear удаляет ключи, перечисленные через запятую, или все ключи при "all".
// Возвращает количество удаленных записей.
func (c *cache) Clear(keys string) (count int) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if strings.TrimSpace(keys) == clearAll {
		for _, item := range c.items {
			item.close()
		}
		count = len(c.items)
		c.items = map[string]*cacheItem{}
		return count
	}

	for _, key := range strings.Split(keys, ",") {
		key = strings.TrimSpace(key)
		if item, found := c.items[key]; found {
			item.close()
			delete(c.items, key)
			count++
		}
	}

	return count
}

// Count количество загруженных ключей. Ключи, загрузка которых завершилась ошибкой, не считаются.
func (c *cache) Count() (count int) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	for _, item := range c.items {
		if item.persistentCache.Count() > 0 {
			count++
		}
	}

	return count
}

func (c *cache) Close() {
	c.cancel()
	c.Clear(clearAll)
}

func (c *cache) gc(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if n := c.cleaner(); n > 0 {
				logger.Debug(c.ctx, "cache gc removed expired items", zap.Int("count", n))
			}
		}
	}
}

func (c *cache) cleaner() (count int) {
	c.mx.Lock()
	defer c.mx.Unlock()

	deadline := time.Now().Add(-c.expiredInterval)
	for key, item := range c.items {
		item.mx.Lock()
		expired := item.lastAccess.Before(deadline)
		item.mx.Unlock()

		if expired {
			item.close()
			delete(c.items, key)
			count++
		}
	}

	return count
}

// locks выполняет функции блокировки при одновременном обновлении значений в кеше.
type locks struct {
	// keys хранит информацию о локах по каждому отдельному ключу.
	// Если значение установлено в true, в данный момент обновление кеша захвачено одной из горутин.
	keys map[string]bool
	mx   sync.RWMutex
}

func (l *locks) Get(key string) bool {
	l.mx.RLock()
	defer l.mx.RUnlock()

	return l.keys[key]
}

func (l *locks) Set(key string, value bool) {
	l.mx.Lock()
	l.keys[key] = value
	l.mx.Unlock()
}
