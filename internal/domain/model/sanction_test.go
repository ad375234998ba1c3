package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
)

func TestDueAtBoundary(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	mute := NewSanction(enums.SanctionKindTempMute, "u1", "m1", "Spam", DurationPtr(300), start)

	assert.False(t, mute.DueAt(start.Add(299*time.Second)))
	assert.True(t, mute.DueAt(start.Add(300*time.Second)))

	mute.Expired = true
	assert.False(t, mute.DueAt(start.Add(time.Hour)))
}

func TestUntimedKindsDropDuration(t *testing.T) {
	ban := NewSanction(enums.SanctionKindBan, "u1", "m1", "raid", DurationPtr(60), time.Now())
	assert.Nil(t, ban.DurationSec)
	_, ok := ban.ExpiresAt()
	assert.False(t, ok)
	assert.False(t, ban.DueAt(time.Now().Add(24*time.Hour)))
}

func TestUserSanctionsByCategory(t *testing.T) {
	records := UserSanctions{
		Mutes:    []Sanction{{ID: 1}},
		Bans:     []Sanction{{ID: 1}, {ID: 2}},
		Warnings: []Sanction{{ID: 1}},
	}
	assert.Equal(t, 4, records.Total())
	assert.False(t, records.Empty())
	assert.Len(t, records.ByCategory(enums.HistoryCategoryBans), 2)
	assert.Empty(t, records.ByCategory(enums.HistoryCategoryTimeouts))
	assert.Nil(t, records.ByCategory("warnings"))
}
