package rank_test

import (
	"testing"

	"github.com/bastiangx/typeahead/pkg/rank"
	"github.com/stretchr/testify/assert"
)

func TestSortSlashCommands(t *testing.T) {
	commands := []rank.SlashCommand{
		{Name: "my"},
		{Name: "poll"},
		{Name: "me"},
		{Name: "mine"},
		{Name: "test"},
		{Name: "ping"},
	}

	assert.Equal(t, []rank.SlashCommand{
		{Name: "me"},
		{Name: "mine"},
		{Name: "my"},
		{Name: "ping"},
		{Name: "poll"},
		{Name: "test"},
	}, rank.SortSlashCommands(commands, "m"))

	assert.Equal(t, []rank.SlashCommand{
		{Name: "ping"},
		{Name: "poll"},
		{Name: "me"},
		{Name: "mine"},
		{Name: "my"},
		{Name: "test"},
	}, rank.SortSlashCommands(commands, "P"))
}
