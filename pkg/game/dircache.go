package game

import (
	"os"
	"strings"
	"sync"
)

// dirCache caches case-folded directory listings so repeated lookups against
// a game tree do not hit the filesystem.
type dirCache struct {
	mu      sync.Mutex
	entries map[string]map[string]string // dir -> lower(name) -> name

	hits   int
	misses int
}

func newDirCache() *dirCache {
	return &dirCache{entries: make(map[string]map[string]string)}
}

// listing returns the case-folded listing of dir. Unreadable directories
// are cached as empty.
func (c *dirCache) listing(dir string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.entries[dir]; ok {
		c.hits++
		return l
	}
	c.misses++

	l := make(map[string]string)
	if ents, err := os.ReadDir(dir); err == nil {
		for _, e := range ents {
			l[strings.ToLower(e.Name())] = e.Name()
		}
	}
	c.entries[dir] = l
	return l
}

// lookup returns the on-disk name of name inside dir, ignoring case.
func (c *dirCache) lookup(dir, name string) (string, bool) {
	actual, ok := c.listing(dir)[strings.ToLower(name)]
	return actual, ok
}

func (c *dirCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]string)
	c.hits, c.misses = 0, 0
}

func (c *dirCache) stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
