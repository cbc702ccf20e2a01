package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/typeahead/pkg/rank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const realmFile = "testdata/realm.toml"

func TestLoadTOML(t *testing.T) {
	s, err := Load(realmFile)
	require.NoError(t, err)

	p, ok := s.PersonByEmail("b_user_3@zulip.net")
	require.True(t, ok)
	assert.Equal(t, 5, p.UserID)

	dev, ok := s.StreamByName("Dev")
	require.True(t, ok)
	require.NotNil(t, dev.WeeklyTraffic)
	assert.Equal(t, 12, *dev.WeeklyTraffic)
	assert.True(t, s.IsSubscribed(1, 5))
	assert.False(t, s.IsActive(2))

	id, ok := s.TopicMessageID(1, "Dev Topic", 5)
	require.True(t, ok)
	assert.Equal(t, 10, id)

	assert.True(t, s.IsPartner(2))
	assert.Equal(t, 4, s.RecipientCount(2))

	priority, ok := s.Priority("javascript")
	require.True(t, ok)
	assert.Equal(t, 50, priority)

	assert.True(t, s.IsRealmEmoji("realm_emoji"))
	assert.Equal(t, []rank.SlashCommand{{Name: "me"}, {Name: "poll"}}, s.Commands())
}

func TestWriteRoundTrip(t *testing.T) {
	snap, err := Read(realmFile)
	require.NoError(t, err)

	for _, name := range []string{"realm.msgpack", "realm.bin", "realm.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Write(path, snap))

			got, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, snap.People, got.People)
			assert.Equal(t, snap.Streams, got.Streams)
			assert.Equal(t, snap.Languages, got.Languages)
		})
	}

	assert.Error(t, Write(filepath.Join(t.TempDir(), "realm.json"), snap))
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()

	format, err := DetectFileFormat(realmFile)
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, format)

	bogus := filepath.Join(dir, "bogus.msgpack")
	require.NoError(t, os.WriteFile(bogus, []byte{0x01, 0x02}, 0644))
	_, err = DetectFileFormat(bogus)
	assert.ErrorContains(t, err, "not a msgpack map")

	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = DetectFileFormat(empty)
	assert.ErrorContains(t, err, "too small")

	_, err = DetectFileFormat(filepath.Join(dir, "realm.json"))
	assert.Error(t, err)

	assert.Equal(t, FormatMsgpack, FormatForPath("x.BIN"))
	assert.Equal(t, FormatUnknown, FormatForPath("x"))
}

func TestListSupportedFormats(t *testing.T) {
	formats := ListSupportedFormats()
	require.Len(t, formats, 2)
	assert.Equal(t, FormatTOML, formats[0].Format)
	assert.Equal(t, []string{".msgpack", ".bin"}, formats[1].Extensions)
	assert.Equal(t, "Msgpack Snapshot", FormatMsgpack.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  string
	}{
		{"empty", ``, ""},
		{"duplicate user", "[[people]]\nuser_id = 1\n[[people]]\nuser_id = 1\n", "duplicate user id 1"},
		{"unnamed stream", "[[streams]]\nstream_id = 3\n", "stream 3 has no name"},
		{"unknown subscriber", "[[streams]]\nstream_id = 1\nname = \"Dev\"\nsubscribers = [9]\n", "unknown subscriber 9"},
		{"unknown sender", "[[streams]]\nstream_id = 1\nname = \"Dev\"\n[[messages]]\nid = 1\nsender_id = 4\nstream_id = 1\n", "unknown sender 4"},
		{"unknown partner", "pm_partners = [3]\n", "unknown pm partner 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Decode(tt.doc)
			require.NoError(t, err)
			err = snap.Validate()
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realm.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[commands]]\nname = \"me\"\n"), 0644))

	r, err := NewReloader(path)
	require.NoError(t, err)
	first := r.Store()
	assert.Len(t, first.Commands(), 1)

	require.NoError(t, os.WriteFile(path, []byte("[[commands]]\nname = \"me\"\n[[commands]]\nname = \"poll\"\n"), 0644))
	require.NoError(t, r.Reload())
	assert.Len(t, r.Store().Commands(), 2)
	assert.Len(t, first.Commands(), 1)

	require.NoError(t, os.WriteFile(path, []byte("pm_partners = [1]\n"), 0644))
	assert.Error(t, r.Reload())
	assert.Len(t, r.Store().Commands(), 2)
}
