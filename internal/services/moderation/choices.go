package moderation

type DurationChoice struct {
	Label   string
	Seconds int64
}

var TempMuteDurations = []DurationChoice{
	{Label: "5m", Seconds: 300},
	{Label: "15m", Seconds: 900},
	{Label: "1h", Seconds: 3600},
	{Label: "6h", Seconds: 21600},
	{Label: "1d", Seconds: 86400},
	{Label: "3d", Seconds: 259200},
	{Label: "7d", Seconds: 604800},
}

var TimeoutDurations = []DurationChoice{
	{Label: "5m", Seconds: 300},
	{Label: "1h", Seconds: 3600},
	{Label: "1d", Seconds: 86400},
	{Label: "3d", Seconds: 259200},
	{Label: "1w", Seconds: 604800},
}

var TempMuteReasons = []string{
	"Spam",
	"Inappropriate language",
	"Unauthorized advertising",
	"Harassment",
	"NSFW content",
}

var TimeoutReasons = []string{
	"Toxic behavior",
	"Deliberate disruption",
	"Rule violation",
	"Repeated insults",
}

func LookupDuration(choices []DurationChoice, label string) (DurationChoice, bool) {
	for _, choice := range choices {
		if choice.Label == label {
			return choice, true
		}
	}
	return DurationChoice{}, false
}

func validReason(choices []string, reason string) bool {
	for _, choice := range choices {
		if choice == reason {
			return true
		}
	}
	return false
}
