package moderation

// Actor is the moderator invoking a command, with the platform permissions resolved for the current guild.
type Actor struct {
	ID            string
	Name          string
	CanModerate   bool
	CanBan        bool
	Administrator bool
}

type Requirement int

const (
	RequireModerate Requirement = iota
	RequireBan
	RequireAdministrator
)

func Authorize(actor Actor, requirement Requirement) error {
	allowed := false
	switch requirement {
	case RequireModerate:
		allowed = actor.CanModerate || actor.Administrator
	case RequireBan:
		allowed = actor.CanBan || actor.Administrator
	case RequireAdministrator:
		allowed = actor.Administrator
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return nil
}
