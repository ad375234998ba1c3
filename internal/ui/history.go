package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

const HistoryPageSize = 10

// HistoryState is the whole navigation state of a History Browser.
type HistoryState struct {
	Category enums.HistoryCategory
	Page     int
}

func NewHistoryState() HistoryState {
	return HistoryState{Category: enums.HistoryCategoryMutes}
}

func (s HistoryState) CanGoPrevious() bool {
	return s.Page > 0
}

func (s HistoryState) CanGoNext(total int) bool {
	return (s.Page+1)*HistoryPageSize < total
}

func (s HistoryState) Previous() (HistoryState, bool) {
	if !s.CanGoPrevious() {
		return s, false
	}
	s.Page--
	return s, true
}

func (s HistoryState) Next(total int) (HistoryState, bool) {
	if !s.CanGoNext(total) {
		return s, false
	}
	s.Page++
	return s, true
}

// SwitchCategory moves to another category and always lands on the first page.
func (s HistoryState) SwitchCategory(category enums.HistoryCategory) (HistoryState, bool) {
	if category == s.Category {
		return s, false
	}
	return HistoryState{Category: category, Page: 0}, true
}

// Bounds returns the [start, end) slice of the current page.
func (s HistoryState) Bounds(total int) (int, int) {
	start := s.Page * HistoryPageSize
	if start > total {
		start = total
	}
	end := min(start+HistoryPageSize, total)
	return start, end
}

func PageCount(total int) int {
	pages := (total + HistoryPageSize - 1) / HistoryPageSize
	return max(1, pages)
}

// HistoryBrowser pages through a snapshot of one user's sanctions for one moderator.
type HistoryBrowser struct {
	Target      model.User
	ModeratorID string
	State       HistoryState
	Records     model.UserSanctions
}

func NewHistoryBrowser(target model.User, moderatorID string, records model.UserSanctions) *HistoryBrowser {
	return &HistoryBrowser{
		Target:      target,
		ModeratorID: moderatorID,
		State:       NewHistoryState(),
		Records:     records,
	}
}

func (b *HistoryBrowser) Items() []model.Sanction {
	return b.Records.ByCategory(b.State.Category)
}

func (b *HistoryBrowser) Total() int {
	return len(b.Items())
}

func (b *HistoryBrowser) Visible() []model.Sanction {
	items := b.Items()
	start, end := b.State.Bounds(len(items))
	return items[start:end]
}

func (b *HistoryBrowser) Previous() bool {
	next, moved := b.State.Previous()
	b.State = next
	return moved
}

func (b *HistoryBrowser) Next() bool {
	next, moved := b.State.Next(b.Total())
	b.State = next
	return moved
}

func (b *HistoryBrowser) SwitchCategory(category enums.HistoryCategory) bool {
	next, moved := b.State.SwitchCategory(category)
	b.State = next
	return moved
}

// IssuerLabel renders the moderator who issued a sanction.
type IssuerLabel func(userID string) string

func MentionLabel(userID string) string {
	return "<@" + userID + ">"
}

func (b *HistoryBrowser) Render(sessionID string, now time.Time, issuer IssuerLabel) Screen {
	if issuer == nil {
		issuer = MentionLabel
	}

	meta := categoryMeta(b.State.Category)
	visible := b.Visible()
	fields := make([]Field, 0, len(visible))
	for _, sanction := range visible {
		fields = append(fields, Field{Name: "\u200b", Value: renderSanctionLine(meta.Label, sanction, issuer)})
	}

	total := b.Total()
	return Screen{
		Title:     fmt.Sprintf("%s Sanctions of %s", meta.Icon, b.Target.Username),
		Fields:    fields,
		Footer:    fmt.Sprintf("page %d/%d • %d sanction(s)", b.State.Page+1, PageCount(total), total),
		Timestamp: now,
		Rows:      [][]Button{b.controls(sessionID, total)},
	}
}

func (b *HistoryBrowser) controls(sessionID string, total int) []Button {
	row := make([]Button, 0, len(enums.HistoryCategories)+2)
	row = append(row, Button{
		Label:    "⬅️",
		ID:       ComponentID(ComponentPrefixHistory, sessionID, ActionPrevious),
		Style:    ButtonSecondary,
		Disabled: !b.State.CanGoPrevious(),
	})
	for _, category := range enums.HistoryCategories {
		style := ButtonSecondary
		if category == b.State.Category {
			style = ButtonPrimary
		}
		row = append(row, Button{
			Label:    categoryMeta(category).Button,
			ID:       ComponentID(ComponentPrefixHistory, sessionID, ActionCategory, string(category)),
			Style:    style,
			Disabled: category == b.State.Category,
		})
	}
	row = append(row, Button{
		Label:    "➡️",
		ID:       ComponentID(ComponentPrefixHistory, sessionID, ActionNext),
		Style:    ButtonSecondary,
		Disabled: !b.State.CanGoNext(total),
	})
	return row
}

type categoryInfo struct {
	Icon   string
	Label  string
	Button string
}

func categoryMeta(category enums.HistoryCategory) categoryInfo {
	switch category {
	case enums.HistoryCategoryTimeouts:
		return categoryInfo{Icon: "⏰", Label: "TO", Button: "Timeouts"}
	case enums.HistoryCategoryBans:
		return categoryInfo{Icon: "🔨", Label: "Ban", Button: "Bans"}
	default:
		return categoryInfo{Icon: "🔇", Label: "Tempmute", Button: "Mutes"}
	}
}

func renderSanctionLine(label string, sanction model.Sanction, issuer IssuerLabel) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s #%d**\n", label, sanction.ID)
	fmt.Fprintf(&sb, "> %s for %s by %s on %s",
		strings.ToLower(label),
		sanction.Reason,
		issuer(sanction.IssuerUserID),
		discordTimestamp(sanction.CreatedAt, "F"),
	)
	if expiresAt, ok := sanction.ExpiresAt(); ok {
		fmt.Fprintf(&sb, "\n> Duration: %s (expires %s)", FormatDuration(*sanction.DurationSec), discordTimestamp(expiresAt, "R"))
	}
	return sb.String()
}

func discordTimestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
