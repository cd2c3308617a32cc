package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydiy/mcsm/api"
)

func TestDirName(t *testing.T) {
	cases := []struct {
		channel api.Channel
		game    string
		loader  string
		want    string
	}{
		{api.Vanilla, "1.20.1", "", "1.20.1"},
		{api.Fabric, "1.20.1", "0.15.7", "1.20.1-fabric-0.15.7"},
		// Forge build ids embed the game version; only the suffix lands
		// in the directory name.
		{api.Forge, "1.20.1", "1.20.1-47.2.0", "1.20.1-forge-47.2.0"},
		{api.NeoForge, "1.21.1", "21.1.77", "1.21.1-neoforge-21.1.77"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DirName(c.channel, c.game, c.loader))
	}
}

func TestInferRoundTrip(t *testing.T) {
	// The channel encoded at install time must come back out of the name.
	cases := []struct {
		channel api.Channel
		game    string
		loader  string
	}{
		{api.Vanilla, "1.20.1", ""},
		{api.Forge, "1.20.1", "1.20.1-47.2.0"},
		{api.Fabric, "1.20.4", "0.15.7"},
		{api.NeoForge, "1.21.1", "21.1.77"},
	}
	for _, c := range cases {
		name := DirName(c.channel, c.game, c.loader)
		assert.Equal(t, c.channel, InferChannel(name), "dir %q", name)
		assert.Equal(t, c.game, InferVersion(name), "dir %q", name)
	}
}

func TestInferChannelIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, api.Forge, InferChannel("1.20.1-Forge-47.2.0"))
}

func markInstalled(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eula.txt"), []byte("eula=true\n"), 0644))
}

func TestListInstalled(t *testing.T) {
	root := t.TempDir()
	markInstalled(t, root, "1.19.4")
	markInstalled(t, root, "1.20.1-forge-47.2.0")
	markInstalled(t, root, "1.20.1")

	// No acceptance marker, not installed.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "1.21.1-fabric-0.15.7"), 0755))
	// A stray file is not a server directory.
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))

	got := ListInstalled(root)
	require.Len(t, got, 3)

	// Newest base version first.
	assert.Equal(t, "1.20.1-forge-47.2.0", got[0].DirName)
	assert.Equal(t, "1.20.1", got[1].DirName)
	assert.Equal(t, "1.19.4", got[2].DirName)

	assert.Equal(t, api.Forge, got[0].Channel)
	assert.Equal(t, "47.2.0", got[0].LoaderVersion)
	assert.Equal(t, api.Vanilla, got[1].Channel)
}

func TestListInstalledMissingRoot(t *testing.T) {
	assert.Empty(t, ListInstalled(filepath.Join(t.TempDir(), "nope")))
}
