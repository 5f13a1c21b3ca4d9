// Package store persists the editor's title and body as two string values in
// a key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Keys under which the two fields are stored, below the namespace.
const (
	KeyTitle = "header"
	KeyBody  = "content"
)

var ErrUnavailable = errors.New("store: unavailable")

// Content is the persisted document. An empty field means "not stored".
type Content struct {
	Title string
	Body  string
}

// Store is a key-value persistence backend.
type Store interface {
	// Available reports whether the backend can be used. Callers check it
	// once at startup.
	Available(ctx context.Context) bool
	// Load returns the stored content. ok is false when nothing is stored.
	Load(ctx context.Context) (c Content, ok bool, err error)
	Save(ctx context.Context, c Content) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Driver is one of "sqlite", "redis", "memory" or "none".
	Driver    string
	Path      string
	RedisURL  string
	Namespace string
}

// Open returns the backend selected by cfg.
func Open(cfg Config) (Store, error) {
	ns := cfg.Namespace
	if ns == "" {
		ns = "scribe"
	}
	switch cfg.Driver {
	case "", "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("store: sqlite: empty path")
		}
		return OpenSQLite(cfg.Path, ns)
	case "redis":
		return OpenRedis(cfg.RedisURL, ns)
	case "memory":
		return NewMemory(ns), nil
	case "none":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
}

func key(ns, k string) string { return ns + ":" + k }

// Nop is a store that is never available.
type Nop struct{}

func (Nop) Available(context.Context) bool              { return false }
func (Nop) Load(context.Context) (Content, bool, error) { return Content{}, false, ErrUnavailable }
func (Nop) Save(context.Context, Content) error         { return ErrUnavailable }
func (Nop) Close() error                                { return nil }
