package ui

import (
	"strings"
	"time"
)

// EmbedColor is the white accent used on every reply.
const EmbedColor = 0xFFFFFF

type ButtonStyle int

const (
	ButtonSecondary ButtonStyle = iota
	ButtonPrimary
	ButtonDanger
)

type Button struct {
	Label    string
	ID       string
	Style    ButtonStyle
	Disabled bool
}

type Field struct {
	Name  string
	Value string
}

// Screen is a transport-neutral rendering of one message: an embed plus rows of buttons.
type Screen struct {
	Title        string
	Description  string
	Fields       []Field
	Footer       string
	ThumbnailURL string
	Timestamp    time.Time
	Rows         [][]Button
}

const (
	ComponentPrefixHistory = "hist"
	ComponentPrefixErase   = "erase"
)

const (
	ActionPrevious = "prev"
	ActionNext     = "next"
	ActionCategory = "cat"
	ActionConfirm  = "confirm"
)

// ComponentID builds "prefix:session:action[:arg]" custom ids for buttons.
func ComponentID(prefix, sessionID, action string, args ...string) string {
	parts := append([]string{prefix, sessionID, action}, args...)
	return strings.Join(parts, ":")
}

type ComponentRef struct {
	Prefix    string
	SessionID string
	Action    string
	Arg       string
}

func ParseComponentID(raw string) (ComponentRef, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return ComponentRef{}, false
	}
	ref := ComponentRef{Prefix: parts[0], SessionID: parts[1], Action: parts[2]}
	if len(parts) == 4 {
		ref.Arg = parts[3]
	}
	if ref.Prefix == "" || ref.SessionID == "" || ref.Action == "" {
		return ComponentRef{}, false
	}
	return ref, true
}
