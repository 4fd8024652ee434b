package moderation

// AliasCommands lists the verbs a user may bind an alias to. The allow-list
// is deliberately narrow: aliases trigger enforcement actions.
var AliasCommands = []string{"ban", "unban", "mute", "unmute", "kick", "warn", "unwarn"}

// IsAliasCommand reports whether name may be used as an alias value.
func IsAliasCommand(name string) bool {
	for _, command := range AliasCommands {
		if command == name {
			return true
		}
	}
	return false
}

// IsModerationCommand reports whether name is an enforcement verb the bot
// executes directly.
func IsModerationCommand(name string) bool {
	return IsAliasCommand(name)
}
