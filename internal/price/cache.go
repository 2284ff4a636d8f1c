package price

import (
	"sync"
	"time"
)

// tableCache holds the most recently published table.
type tableCache struct {
	mu      sync.RWMutex
	table   *Table
	builtAt time.Time
}

func (c *tableCache) get() (*Table, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table, c.builtAt
}

func (c *tableCache) set(t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.table = t
	c.builtAt = time.Now()
}
