package editor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/scribe/store"
)

const storeTimeout = 2 * time.Second

// persistence saves title and body after edits. Availability is detected once
// when the editor is created; an unavailable store is never called again.
type persistence struct {
	store     store.Store
	available bool
	log       *zap.Logger
	last      store.Content
}

func newPersistence(s store.Store, log *zap.Logger) persistence {
	p := persistence{store: s, log: log}
	if s == nil {
		return p
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	p.available = s.Available(ctx)
	if !p.available {
		log.Warn("store unavailable, using default content")
	}
	return p
}

func (p *persistence) load() (store.Content, bool) {
	if !p.available {
		return store.Content{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	c, ok, err := p.store.Load(ctx)
	if err != nil {
		p.log.Warn("load failed", zap.Error(err))
		return store.Content{}, false
	}
	if ok {
		p.last = c
	}
	return c, ok
}

// save writes c unless it equals the last saved content.
func (p *persistence) save(c store.Content) {
	if !p.available || c == p.last {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := p.store.Save(ctx, c); err != nil {
		p.log.Warn("save failed", zap.Error(err))
		return
	}
	p.last = c
}
