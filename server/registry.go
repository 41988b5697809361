package main

import (
	"log"
	"sync"
	"time"

	"github.com/automoto/anmview/assets"
	"github.com/automoto/anmview/render"
)

type rendererRecord struct {
	renderer *render.Renderer
	lastSeen time.Time
}

// Registry is an in-memory store of loaded animation renderers with
// TTL-based eviction, so repeated previews of the same animation skip the
// decode and atlas load.
type Registry struct {
	mu        sync.Mutex
	loc       *assets.Locator
	renderers map[string]*rendererRecord
	ttl       time.Duration
	stopCh    chan struct{}
}

func NewRegistry(loc *assets.Locator, ttl time.Duration) *Registry {
	r := &Registry{
		loc:       loc,
		renderers: make(map[string]*rendererRecord),
		ttl:       ttl,
		stopCh:    make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

// Get returns the renderer for type/id, loading it on first use.
func (r *Registry) Get(typ, id string) (*render.Renderer, error) {
	key := typ + "/" + id

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.renderers[key]; ok {
		rec.lastSeen = time.Now()
		return rec.renderer, nil
	}

	renderer, err := render.Load(r.loc, typ, id)
	if err != nil {
		return nil, err
	}
	r.renderers[key] = &rendererRecord{renderer: renderer, lastSeen: time.Now()}
	return renderer, nil
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.mu.Lock()
			now := time.Now()
			for key, rec := range r.renderers {
				if now.Sub(rec.lastSeen) >= r.ttl {
					log.Printf("[server] evicted %s (last seen %s ago)",
						key, now.Sub(rec.lastSeen).Round(time.Second))
					delete(r.renderers, key)
				}
			}
			r.mu.Unlock()
		}
	}
}
