package rank

import "github.com/bastiangx/typeahead/pkg/match"

type commandEntry struct {
	command SlashCommand
	matched bool
}

var compareCommands = Chain(
	By(func(e commandEntry) bool { return e.matched }, PreferTrue),
	By(func(e commandEntry) string { return e.command.Name }, match.CompareFold),
)

// SortSlashCommands returns every command with those starting with query
// first, each group in alphabetical order. It needs no signals.
func SortSlashCommands(commands []SlashCommand, query string) []SlashCommand {
	return sortStable(commands, func(_ int, c SlashCommand) commandEntry {
		return commandEntry{command: c, matched: match.HasPrefixFold(c.Name, query)}
	}, compareCommands, func(entry commandEntry) SlashCommand { return entry.command })
}
