package store

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// Memory keeps content in process memory. Values never expire.
type Memory struct {
	ns    string
	cache *cache.Cache
}

func NewMemory(namespace string) *Memory {
	return &Memory{ns: namespace, cache: cache.New(cache.NoExpiration, 0)}
}

func (m *Memory) Available(context.Context) bool { return true }

func (m *Memory) Load(context.Context) (Content, bool, error) {
	var c Content
	found := false
	if v, ok := m.cache.Get(key(m.ns, KeyTitle)); ok {
		c.Title, found = v.(string), true
	}
	if v, ok := m.cache.Get(key(m.ns, KeyBody)); ok {
		c.Body, found = v.(string), true
	}
	return c, found, nil
}

func (m *Memory) Save(_ context.Context, c Content) error {
	m.cache.Set(key(m.ns, KeyTitle), c.Title, cache.NoExpiration)
	m.cache.Set(key(m.ns, KeyBody), c.Body, cache.NoExpiration)
	return nil
}

func (m *Memory) Close() error {
	m.cache.Flush()
	return nil
}
