package memory

import (
	"sync"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

// SanctionRepo keeps every sanction in process memory, one ordered collection per kind.
// Contents are lost on restart.
type SanctionRepo struct {
	mu       sync.Mutex
	byKind   map[enums.SanctionKind][]model.Sanction
	counters map[enums.SanctionKind]int64
}

func NewSanctionRepo() *SanctionRepo {
	r := &SanctionRepo{
		byKind:   make(map[enums.SanctionKind][]model.Sanction, len(enums.SanctionKinds)),
		counters: make(map[enums.SanctionKind]int64, len(enums.SanctionKinds)),
	}
	for _, kind := range enums.SanctionKinds {
		r.byKind[kind] = []model.Sanction{}
	}
	return r
}

// Insert assigns the next id of the record's kind and appends it. Ids start at 1 and are never reused.
func (r *SanctionRepo) Insert(sanction model.Sanction) model.Sanction {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[sanction.Kind]++
	sanction.ID = r.counters[sanction.Kind]
	sanction.Expired = false
	r.byKind[sanction.Kind] = append(r.byKind[sanction.Kind], cloneSanction(sanction))
	return cloneSanction(sanction)
}

// FindByUser returns the user's records per kind in insertion order. Expired mutes and timeouts are left out.
func (r *SanctionRepo) FindByUser(userID string) model.UserSanctions {
	r.mu.Lock()
	defer r.mu.Unlock()

	return model.UserSanctions{
		Mutes:    r.collect(enums.SanctionKindTempMute, userID, false),
		Timeouts: r.collect(enums.SanctionKindTimeout, userID, false),
		Bans:     r.collect(enums.SanctionKindBan, userID, true),
		Warnings: r.collect(enums.SanctionKindWarning, userID, true),
	}
}

// CountByUser counts every record of the user across all kinds, expired ones included.
func (r *SanctionRepo) CountByUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, kind := range enums.SanctionKinds {
		for _, sanction := range r.byKind[kind] {
			if sanction.TargetUserID == userID {
				total++
			}
		}
	}
	return total
}

// DeleteByUser removes every record of the user and returns how many were removed.
func (r *SanctionRepo) DeleteByUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, kind := range enums.SanctionKinds {
		current := r.byKind[kind]
		kept := make([]model.Sanction, 0, len(current))
		for _, sanction := range current {
			if sanction.TargetUserID == userID {
				removed++
				continue
			}
			kept = append(kept, sanction)
		}
		r.byKind[kind] = kept
	}
	return removed
}

// Pending returns the unexpired records of a timed kind.
func (r *SanctionRepo) Pending(kind enums.SanctionKind) []model.Sanction {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Sanction, 0)
	for _, sanction := range r.byKind[kind] {
		if sanction.Expired || sanction.DurationSec == nil {
			continue
		}
		out = append(out, cloneSanction(sanction))
	}
	return out
}

// MarkExpired flips the expired flag once. It returns false when the record is gone or already expired.
func (r *SanctionRepo) MarkExpired(kind enums.SanctionKind, id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !kind.Expires() {
		return false
	}
	records := r.byKind[kind]
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if records[i].Expired {
			return false
		}
		records[i].Expired = true
		return true
	}
	return false
}

func (r *SanctionRepo) collect(kind enums.SanctionKind, userID string, includeExpired bool) []model.Sanction {
	out := make([]model.Sanction, 0)
	for _, sanction := range r.byKind[kind] {
		if sanction.TargetUserID != userID {
			continue
		}
		if sanction.Expired && !includeExpired {
			continue
		}
		out = append(out, cloneSanction(sanction))
	}
	return out
}

func cloneSanction(sanction model.Sanction) model.Sanction {
	if sanction.DurationSec != nil {
		duration := *sanction.DurationSec
		sanction.DurationSec = &duration
	}
	return sanction
}
