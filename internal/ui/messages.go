package ui

import (
	"fmt"
	"time"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

const (
	TextPermissionDenied   = "❌ Permission denied."
	TextNotAllowed         = "❌ You are not allowed to do that."
	TextViewExpired        = "⌛ This view has expired, run the command again."
	TextInvalidUserID      = "❌ Invalid ID."
	TextInvalidInput       = "❌ Invalid arguments."
	TextUnbanNotFound      = "❌ User not found or not banned."
	TextMuteRoleFailed     = "❌ Could not create the Muted role."
	TextUnexpectedError    = "❌ Something went wrong, try again later."
	TextCommandUnavailable = "❌ Unknown command."
)

func Reply(description string, now time.Time) Screen {
	return Screen{Description: description, Timestamp: now}
}

func TempMuted(mention, duration, reason string) string {
	return fmt.Sprintf("%s has been tempmuted for %s for %s", mention, duration, reason)
}

func Unmuted(mention, reason string) string {
	return withOptionalReason(fmt.Sprintf("%s has been unmuted", mention), reason)
}

func NotMuted(mention string) string {
	return fmt.Sprintf("❌ %s is not muted.", mention)
}

func TimedOut(mention, duration, reason string) string {
	return fmt.Sprintf("%s has been timed out for %s during %s", mention, reason, duration)
}

func Untimedout(mention, reason string) string {
	return withOptionalReason(fmt.Sprintf("%s is no longer timed out", mention), reason)
}

func NotTimedOut(mention string) string {
	return fmt.Sprintf("❌ %s is not timed out.", mention)
}

func Banned(mention, reason string) string {
	return fmt.Sprintf("%s has been banned for %s", mention, reason)
}

func Unbanned(mention string) string {
	return fmt.Sprintf("%s has been unbanned", mention)
}

func Warned(mention, reason string) string {
	return fmt.Sprintf("%s has been warned for %s", mention, reason)
}

func NoSanctions(mention string) string {
	return fmt.Sprintf("ℹ️ %s has no recorded sanctions.", mention)
}

func PlatformRefused(action, mention string) string {
	return fmt.Sprintf("❌ Permission denied to %s %s.", action, mention)
}

func PlatformFailed(err error) string {
	return fmt.Sprintf("❌ Error: %v", err)
}

func EraseConfirmScreen(target model.User, total int, sessionID string, now time.Time) Screen {
	return Screen{
		Description:  fmt.Sprintf("Delete the sanctions of %s?\nTotal: %d sanction(s)", target.Mention, total),
		ThumbnailURL: target.AvatarURL,
		Timestamp:    now,
		Rows: [][]Button{{{
			Label: "🗑️ Delete all sanctions",
			ID:    ComponentID(ComponentPrefixErase, sessionID, ActionConfirm),
			Style: ButtonDanger,
		}}},
	}
}

func ErasedScreen(target model.User, removed int, now time.Time) Screen {
	return Screen{
		Description:  fmt.Sprintf("✅ %d sanction(s) deleted for %s", removed, target.Mention),
		ThumbnailURL: target.AvatarURL,
		Timestamp:    now,
	}
}

func withOptionalReason(text, reason string) string {
	if reason == "" {
		return text
	}
	return fmt.Sprintf("%s for %s", text, reason)
}
