package enums

type HistoryCategory string

const (
	HistoryCategoryMutes    HistoryCategory = "mutes"
	HistoryCategoryTimeouts HistoryCategory = "timeouts"
	HistoryCategoryBans     HistoryCategory = "bans"
)

var HistoryCategories = []HistoryCategory{
	HistoryCategoryMutes,
	HistoryCategoryTimeouts,
	HistoryCategoryBans,
}

func ParseHistoryCategory(raw string) (HistoryCategory, bool) {
	for _, category := range HistoryCategories {
		if string(category) == raw {
			return category, true
		}
	}
	return "", false
}
