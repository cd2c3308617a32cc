// Package java locates usable Java runtimes on the host by probing candidate
// executables and ranking what answers.
package java

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/happydiy/mcsm/tasks"
)

// Installation describes one Java runtime found on the host.
type Installation struct {
	Home    string // symlink-resolved install root
	Kind    string // "JDK" when a sibling javac exists, else "JRE"
	Version string // full version token, e.g. "17.0.2"
	Vendor  string
	Major   int
	Alias   string // vendor+major fingerprint, e.g. "temurin17"
	Depth   int    // path element count of the resolved executable, dedup tie-breaker only
}

func (i Installation) String() string {
	return i.Alias + " - " + i.Home + " (v: " + i.Version + ", " + i.Vendor + ")"
}

// Exec returns the path of the runtime executable under Home.
func (i Installation) Exec() string {
	return filepath.Join(i.Home, "bin", "java")
}

// DefaultSearchRoots are the usual Linux install locations.
func DefaultSearchRoots() []string {
	home, _ := os.UserHomeDir()
	return []string{"/usr/lib/jvm", filepath.Join(home, ".sdkman/candidates/java"), "/opt"}
}

// Discover probes every candidate java executable reachable from JAVA_HOME,
// PATH, and the given search roots. Probes fan out on the pool; a candidate
// that fails to answer is dropped, never an error. Results are deduplicated
// and sorted by major version descending.
func Discover(pool *tasks.Pool, searchRoots []string) []Installation {
	candidates := make(map[string]struct{})

	if javaHome := os.Getenv("JAVA_HOME"); javaHome != "" {
		candidates[filepath.Join(javaHome, "bin", "java")] = struct{}{}
	}
	if fromPath, err := exec.LookPath("java"); err == nil {
		candidates[fromPath] = struct{}{}
	}
	for _, root := range searchRoots {
		for _, exe := range scanRoot(root) {
			candidates[exe] = struct{}{}
		}
	}

	futures := make([]*tasks.Future[*Installation], 0, len(candidates))
	for exe := range candidates {
		exe := exe
		futures = append(futures, tasks.Submit(pool, func() (*Installation, error) {
			return Probe(exe)
		}))
	}

	var found []Installation
	for _, f := range futures {
		if inst, err := f.Wait(); err == nil && inst != nil {
			found = append(found, *inst)
		}
	}
	return rank(found)
}

// scanRoot walks one search root for bin/java executables. Unreadable
// subtrees are skipped, not reported.
func scanRoot(root string) []string {
	var exes []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if d.IsDir() || !strings.HasSuffix(path, string(filepath.Separator)+"bin"+string(filepath.Separator)+"java") {
			return nil
		}
		if info, err := d.Info(); err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0 {
			exes = append(exes, path)
		}
		return nil
	})
	return exes
}

// rank deduplicates by resolved home, collapses equal aliases keeping the
// shallowest path, and orders by major version descending.
func rank(found []Installation) []Installation {
	seenHomes := make(map[string]struct{})
	byAlias := make(map[string]Installation)
	for _, inst := range found {
		if _, dup := seenHomes[inst.Home]; dup {
			continue
		}
		seenHomes[inst.Home] = struct{}{}

		if best, ok := byAlias[inst.Alias]; !ok || inst.Depth < best.Depth {
			byAlias[inst.Alias] = inst
		}
	}

	result := make([]Installation, 0, len(byAlias))
	for _, inst := range byAlias {
		result = append(result, inst)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Major != result[j].Major {
			return result[i].Major > result[j].Major
		}
		return result[i].Alias < result[j].Alias
	})
	return result
}
