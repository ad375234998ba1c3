package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

const defaultAuditCapacity = 500

// AuditRepo keeps the most recent audit entries; older entries are dropped once capacity is reached.
type AuditRepo struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	entries  []model.Audit
}

func NewAuditRepo(capacity int) *AuditRepo {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &AuditRepo{
		capacity: capacity,
		entries:  make([]model.Audit, 0, capacity),
	}
}

func (r *AuditRepo) Save(_ context.Context, entry model.Audit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	entry.Payload = slices.Clone(entry.Payload)
	if len(r.entries) == r.capacity {
		r.entries = slices.Delete(r.entries, 0, 1)
	}
	r.entries = append(r.entries, entry)
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *AuditRepo) ListRecent(_ context.Context, limit int) ([]model.Audit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]model.Audit, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		entry := r.entries[i]
		entry.Payload = slices.Clone(entry.Payload)
		out = append(out, entry)
	}
	return out, nil
}
