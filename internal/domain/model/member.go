package model

import (
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned by the platform adapter for unknown members, users, roles or bans.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the platform refuses an operation for lack of permissions or role hierarchy.
var ErrForbidden = errors.New("forbidden")

type Member struct {
	GuildID       string
	UserID        string
	Username      string
	Mention       string
	AvatarURL     string
	RoleIDs       []string
	TimedOutUntil *time.Time
}

func (m Member) HasRole(roleID string) bool {
	return slices.Contains(m.RoleIDs, roleID)
}

func (m Member) TimedOut(now time.Time) bool {
	return m.TimedOutUntil != nil && m.TimedOutUntil.After(now)
}

type Role struct {
	ID   string
	Name string
}

type User struct {
	ID        string
	Username  string
	Mention   string
	AvatarURL string
}
