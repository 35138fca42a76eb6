// Package asynchook decouples hook sinks from the cache's hot paths with a
// bounded queue and a small worker pool. Events are dropped, not blocked
// on, when the queue is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery: 10, // sample logs: ~every 10th self-heal
//	})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := chunkcache.New[User](chunkcache.Options[User]{
//	    Namespace: "app:prod:user",
//	    Store:     store,
//	    Codec:     codec.JSON[User]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/chunkcache"
)

type Hooks struct {
	inner chunkcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ chunkcache.Hooks = (*Hooks)(nil)

func New(inner chunkcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHeal(k, r string) { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) SplitFallback(k string, n, c int, tl bool) {
	h.try(func() { h.inner.SplitFallback(k, n, c, tl) })
}
func (h *Hooks) SplitAborted(k string, i, p int) {
	h.try(func() { h.inner.SplitAborted(k, i, p) })
}
func (h *Hooks) MarkerRejected(k string, c int) {
	h.try(func() { h.inner.MarkerRejected(k, c) })
}
func (h *Hooks) MissingChildren(k string, w, g int) {
	h.try(func() { h.inner.MissingChildren(k, w, g) })
}
