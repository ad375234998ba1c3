package model

import (
	"time"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
)

type Sanction struct {
	ID           int64
	Kind         enums.SanctionKind
	TargetUserID string
	IssuerUserID string
	Reason       string
	DurationSec  *int64
	CreatedAt    time.Time
	Expired      bool
}

func NewSanction(kind enums.SanctionKind, targetUserID, issuerUserID, reason string, durationSec *int64, createdAt time.Time) Sanction {
	if !kind.Expires() {
		durationSec = nil
	}
	return Sanction{
		Kind:         kind,
		TargetUserID: targetUserID,
		IssuerUserID: issuerUserID,
		Reason:       reason,
		DurationSec:  durationSec,
		CreatedAt:    createdAt,
	}
}

// ExpiresAt returns createdAt + duration; ok is false for records without a duration.
func (s Sanction) ExpiresAt() (time.Time, bool) {
	if s.DurationSec == nil {
		return time.Time{}, false
	}
	return s.CreatedAt.Add(time.Duration(*s.DurationSec) * time.Second), true
}

// DueAt reports whether an unexpired timed record has reached its expiry instant at now.
func (s Sanction) DueAt(now time.Time) bool {
	if s.Expired || !s.Kind.Expires() {
		return false
	}
	expiresAt, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return !now.Before(expiresAt)
}

type UserSanctions struct {
	Mutes    []Sanction
	Timeouts []Sanction
	Bans     []Sanction
	Warnings []Sanction
}

func (u UserSanctions) Total() int {
	return len(u.Mutes) + len(u.Timeouts) + len(u.Bans) + len(u.Warnings)
}

func (u UserSanctions) Empty() bool {
	return u.Total() == 0
}

func (u UserSanctions) ByCategory(category enums.HistoryCategory) []Sanction {
	switch category {
	case enums.HistoryCategoryMutes:
		return u.Mutes
	case enums.HistoryCategoryTimeouts:
		return u.Timeouts
	case enums.HistoryCategoryBans:
		return u.Bans
	default:
		return nil
	}
}

func DurationPtr(seconds int64) *int64 {
	return &seconds
}
