package revalidate

import (
	"container/list"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Entry is a cached response.
type Entry struct {
	Status int
	Header http.Header
	Body   []byte
}

// Cache is an LRU of rendered responses with a TTL. Keys are "<scope>|<path>[?query]" so
// entries can be dropped by path regardless of the scope (user) they were rendered for.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	gen     uint64
	now     func() time.Time
}

type cacheItem struct {
	key       string
	path      string
	entry     Entry
	expiresAt time.Time
}

func NewCache(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Key builds the cache key for a response rendered for scope at path with the raw query.
func Key(scope, path, rawQuery string) string {
	if rawQuery == "" {
		return scope + "|" + path
	}

	return scope + "|" + path + "?" + rawQuery
}

func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return Entry{}, false
	}

	item := elem.Value.(*cacheItem)
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return Entry{}, false
	}

	c.lru.MoveToFront(elem)

	return item.entry, true
}

// Generation changes on every Purge. Pair it with SetIfCurrent so a response rendered
// before a purge is not stored after it.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gen
}

// SetIfCurrent stores entry only if no purge happened since gen was read.
func (c *Cache) SetIfCurrent(key string, entry Entry, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}

	c.set(key, entry)

	return true
}

func (c *Cache) Set(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.set(key, entry)
}

func (c *Cache) set(key string, entry Entry) {
	item := &cacheItem{
		key:       key,
		path:      pathOf(key),
		entry:     entry,
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.lru.MoveToFront(elem)

		return
	}

	c.items[key] = c.lru.PushFront(item)

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Purge drops every entry whose path is prefix or lies below it and returns how many
// were dropped. Purge("/") empties the cache.
func (c *Cache) Purge(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++

	var removed int

	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()

		if under(elem.Value.(*cacheItem).path, prefix) {
			c.removeElement(elem)
			removed++
		}

		elem = next
	}

	return removed
}

// CleanExpired removes all expired entries and returns how many were removed.
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	var removed int

	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()

		if now.After(elem.Value.(*cacheItem).expiresAt) {
			c.removeElement(elem)
			removed++
		}

		elem = next
	}

	return removed
}

func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *Cache) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem)
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

func pathOf(key string) string {
	_, rest, ok := strings.Cut(key, "|")
	if !ok {
		rest = key
	}

	path, _, _ := strings.Cut(rest, "?")

	return path
}

func under(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}

	prefix = strings.TrimSuffix(prefix, "/")

	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
