package java

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydiy/mcsm/tasks"
)

func TestParseMajor(t *testing.T) {
	cases := []struct {
		version string
		major   int
	}{
		{"1.8.0_291", 8},
		{"17.0.2", 17},
		{"11", 11},
		{"1", 8},
		{"21.0.1+12", 21},
		{"", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.major, ParseMajor(c.version), "version %q", c.version)
	}
}

func TestParseVendor(t *testing.T) {
	cases := []struct {
		output string
		vendor string
	}{
		{`openjdk version "17.0.2"` + "\nOpenJDK Runtime Environment Temurin-17.0.2+8", "Eclipse Temurin"},
		{`openjdk version "11.0.15"` + "\nZulu11.56+19-CA", "Zulu"},
		{`openjdk version "21"` + "\nOpenJDK 64-Bit Server VM GraalVM CE", "GraalVM"},
		{`java version "1.8.0_291"` + "\nJava(TM) SE Runtime Environment", "Oracle"},
		{`openjdk version "17.0.2"` + "\nOpenJDK Runtime Environment", "OpenJDK"},
		{"something else entirely", "Unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.vendor, parseVendor(c.output))
	}
}

func TestRank(t *testing.T) {
	t.Run("alias collision keeps the shallowest", func(t *testing.T) {
		deep := Installation{Home: "/opt/java/deeply/nested/jdk17", Alias: "temurin17", Major: 17, Depth: 5}
		shallow := Installation{Home: "/usr/lib/jvm/jdk17", Alias: "temurin17", Major: 17, Depth: 4}

		got := rank([]Installation{deep, shallow})
		require.Len(t, got, 1)
		assert.Equal(t, shallow.Home, got[0].Home)

		// Order of arrival must not matter.
		got = rank([]Installation{shallow, deep})
		require.Len(t, got, 1)
		assert.Equal(t, shallow.Home, got[0].Home)
	})

	t.Run("same home is one installation", func(t *testing.T) {
		a := Installation{Home: "/usr/lib/jvm/jdk17", Alias: "temurin17", Major: 17, Depth: 4}
		got := rank([]Installation{a, a})
		assert.Len(t, got, 1)
	})

	t.Run("sorted by major descending", func(t *testing.T) {
		got := rank([]Installation{
			{Home: "/a", Alias: "openjdk8", Major: 8, Depth: 2},
			{Home: "/b", Alias: "temurin21", Major: 21, Depth: 2},
			{Home: "/c", Alias: "zulu17", Major: 17, Depth: 2},
		})
		require.Len(t, got, 3)
		assert.Equal(t, []int{21, 17, 8}, []int{got[0].Major, got[1].Major, got[2].Major})
	})
}

// fakeRuntime writes a shell script that answers -version like a JDK does.
func fakeRuntime(t *testing.T, root, name, banner string, withCompiler bool) string {
	t.Helper()
	bin := filepath.Join(root, name, "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))

	exe := filepath.Join(bin, "java")
	script := "#!/bin/sh\ncat >&2 <<'EOF'\n" + banner + "\nEOF\n"
	require.NoError(t, os.WriteFile(exe, []byte(script), 0755))

	if withCompiler {
		require.NoError(t, os.WriteFile(filepath.Join(bin, "javac"), []byte("#!/bin/sh\n"), 0755))
	}
	return exe
}

func TestProbe(t *testing.T) {
	root := t.TempDir()

	t.Run("parses a full installation", func(t *testing.T) {
		banner := `openjdk version "17.0.2" 2022-01-18
OpenJDK Runtime Environment Temurin-17.0.2+8 (build 17.0.2+8)`
		exe := fakeRuntime(t, root, "jdk17", banner, true)

		inst, err := Probe(exe)
		require.NoError(t, err)
		assert.Equal(t, "17.0.2", inst.Version)
		assert.Equal(t, 17, inst.Major)
		assert.Equal(t, "Eclipse Temurin", inst.Vendor)
		assert.Equal(t, "temurin17", inst.Alias)
		assert.Equal(t, "JDK", inst.Kind)
		assert.Equal(t, filepath.Join(root, "jdk17"), inst.Home)
	})

	t.Run("runtime without compiler is a JRE", func(t *testing.T) {
		exe := fakeRuntime(t, root, "jre8", `openjdk version "1.8.0_291"`, false)

		inst, err := Probe(exe)
		require.NoError(t, err)
		assert.Equal(t, "JRE", inst.Kind)
		assert.Equal(t, 8, inst.Major)
		assert.Equal(t, "openjdk8", inst.Alias)
	})

	t.Run("output without version token is dropped", func(t *testing.T) {
		exe := fakeRuntime(t, root, "notjava", "command not understood", false)
		_, err := Probe(exe)
		assert.Error(t, err)
	})

	t.Run("missing binary is dropped", func(t *testing.T) {
		_, err := Probe(filepath.Join(root, "nope", "bin", "java"))
		assert.Error(t, err)
	})
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	fakeRuntime(t, root, "jdk17", `openjdk version "17.0.2"`+"\nTemurin-17.0.2+8", true)
	fakeRuntime(t, root, "jdk21", `openjdk version "21.0.1"`+"\nTemurin-21.0.1+12", true)
	fakeRuntime(t, root, "broken", "no banner here", false)

	pool := tasks.NewPool(4)
	defer pool.Shutdown()

	// Guard against host javas leaking in through the environment.
	t.Setenv("JAVA_HOME", "")
	t.Setenv("PATH", "/usr/bin:/bin")

	got := Discover(pool, []string{root, filepath.Join(root, "does-not-exist")})

	var aliases []string
	for _, inst := range got {
		aliases = append(aliases, inst.Alias)
	}
	assert.Contains(t, aliases, "temurin17")
	assert.Contains(t, aliases, "temurin21")
	assert.NotContains(t, aliases, "unknown0")

	// Descending major order.
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Major, got[i].Major)
	}
}
