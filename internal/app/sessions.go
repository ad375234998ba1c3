package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
	"github.com/ivankudzin/sanctionbot/internal/infra/metrics"
	"github.com/ivankudzin/sanctionbot/internal/ui"
)

const (
	viewHistory = "history"
	viewErase   = "erase"
)

// viewRegistry holds interactive views by session id. Every accepted interaction re-adds the
// view, so the ttl counts from the last interaction rather than from creation.
type viewRegistry[V any] struct {
	name    string
	cache   *expirable.LRU[string, V]
	metrics *metrics.Metrics
}

func newViewRegistry[V any](name string, size int, ttl time.Duration, m *metrics.Metrics) *viewRegistry[V] {
	if size <= 0 {
		size = 1024
	}
	return &viewRegistry[V]{
		name:    name,
		cache:   expirable.NewLRU[string, V](size, nil, ttl),
		metrics: m,
	}
}

func (r *viewRegistry[V]) Open(view V) string {
	id := uuid.NewString()
	r.cache.Add(id, view)
	r.report()
	return id
}

func (r *viewRegistry[V]) Get(id string) (V, bool) {
	view, ok := r.cache.Get(id)
	r.report()
	return view, ok
}

func (r *viewRegistry[V]) Touch(id string, view V) {
	r.cache.Add(id, view)
}

// Close removes the view and reports whether this call was the one that removed it.
func (r *viewRegistry[V]) Close(id string) bool {
	removed := r.cache.Remove(id)
	r.report()
	return removed
}

func (r *viewRegistry[V]) Len() int {
	return r.cache.Len()
}

func (r *viewRegistry[V]) report() {
	r.metrics.SetActiveViews(r.name, r.cache.Len())
}

type historyView struct {
	mu      sync.Mutex
	guildID string
	browser *ui.HistoryBrowser
}

type eraseView struct {
	guildID string
	ownerID string
	target  model.User
}
