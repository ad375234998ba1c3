package ui

type commandHelp struct {
	Name  string
	Args  string
	About string
}

var helpEntries = []commandHelp{
	{Name: "🔇 **/tempmute**", Args: "`user` `duration` `reason`", About: "Temporarily mutes a user"},
	{Name: "🔊 **/unmute**", Args: "`user` `[reason]`", About: "Removes a user's mute"},
	{Name: "⏰ **/timeout**", Args: "`user` `duration` `reason`", About: "Puts a user in timeout"},
	{Name: "✅ **/untimeout**", Args: "`user` `[reason]`", About: "Removes a user's timeout"},
	{Name: "🔨 **/ban**", Args: "`user` `reason`", About: "Bans a user"},
	{Name: "🔄 **/unban**", Args: "`userid`", About: "Unbans a user"},
	{Name: "⚠️ **/warn**", Args: "`user` `reason`", About: "Warns a user"},
	{Name: "📋 **/sanctions**", Args: "`user`", About: "Shows a user's sanctions"},
	{Name: "🗑️ **/delsanction**", Args: "`user`", About: "Deletes all of a user's sanctions"},
}

func HelpScreen() Screen {
	fields := make([]Field, 0, len(helpEntries))
	for _, entry := range helpEntries {
		fields = append(fields, Field{Name: entry.Name, Value: entry.Args + "\n" + entry.About})
	}
	return Screen{
		Title:       "📚 Moderation commands",
		Description: "Every available command:",
		Fields:      fields,
	}
}
