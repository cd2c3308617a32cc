package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEula(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, EulaAccepted(dir))
	require.NoError(t, AcceptEula(dir))
	assert.True(t, EulaAccepted(dir))

	// Accepting again leaves the marker alone.
	require.NoError(t, AcceptEula(dir))
	content, err := os.ReadFile(filepath.Join(dir, EulaFile))
	require.NoError(t, err)
	assert.Equal(t, "eula=true\n", string(content))
}

func TestEulaNotAcceptedWhenFalse(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EulaFile), []byte("eula=false\n"), 0644))
	assert.False(t, EulaAccepted(dir))
}

func TestJavaPathRoundTrip(t *testing.T) {
	dir := t.TempDir()

	assert.Empty(t, LoadJavaPath(dir))
	require.NoError(t, SaveJavaPath(dir, "/usr/lib/jvm/temurin-17"))
	assert.Equal(t, "/usr/lib/jvm/temurin-17", LoadJavaPath(dir))

	// Saving again replaces, not appends.
	require.NoError(t, SaveJavaPath(dir, "/opt/zulu21"))
	assert.Equal(t, "/opt/zulu21", LoadJavaPath(dir))
}

func TestLoadJavaPathMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, JavaPathFile), []byte("not-json"), 0644))
	assert.Empty(t, LoadJavaPath(dir))
}

func TestServerRootFallsBack(t *testing.T) {
	// Without a keyring entry (or backend), the default applies.
	assert.NotEmpty(t, ServerRoot())
}

func TestDownloadFile(t *testing.T) {
	// Covered indirectly by services install tests; here just the error path.
	err := DownloadFile("http://127.0.0.1:1/nope", filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err)
}
