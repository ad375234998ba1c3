package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

type InteractionKind int

const (
	KindUnknown InteractionKind = iota
	KindCommand
	KindComponent
)

// Interaction is the platform-neutral view of a slash command or button press.
type Interaction struct {
	Kind        InteractionKind
	GuildID     string
	User        model.User
	Permissions int64
	Command     string
	Options     map[string]string
	Resolved    map[string]model.User
	CustomID    string

	raw *discordgo.Interaction
}

func (in Interaction) Option(name string) string {
	return in.Options[name]
}

// OptionUser resolves a user option, falling back to a bare id when the payload carried no user data.
func (in Interaction) OptionUser(name string) (model.User, bool) {
	id, ok := in.Options[name]
	if !ok || id == "" {
		return model.User{}, false
	}
	if user, ok := in.Resolved[id]; ok {
		return user, true
	}
	return model.User{ID: id, Username: id, Mention: "<@" + id + ">"}, true
}

func (in Interaction) Has(permission int64) bool {
	return in.Permissions&permission == permission
}

func newInteraction(raw *discordgo.Interaction) Interaction {
	in := Interaction{
		GuildID:  raw.GuildID,
		Options:  map[string]string{},
		Resolved: map[string]model.User{},
		raw:      raw,
	}
	if raw.Member != nil {
		in.User = convertUser(raw.Member.User)
		in.Permissions = raw.Member.Permissions
	} else {
		in.User = convertUser(raw.User)
	}

	switch raw.Type {
	case discordgo.InteractionApplicationCommand:
		data := raw.ApplicationCommandData()
		in.Kind = KindCommand
		in.Command = data.Name
		for _, option := range data.Options {
			if option == nil || option.Value == nil {
				continue
			}
			in.Options[option.Name] = fmt.Sprint(option.Value)
		}
		if data.Resolved != nil {
			for id, user := range data.Resolved.Users {
				in.Resolved[id] = convertUser(user)
			}
		}
	case discordgo.InteractionMessageComponent:
		in.Kind = KindComponent
		in.CustomID = raw.MessageComponentData().CustomID
	}
	return in
}
