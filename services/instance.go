package services

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/happydiy/mcsm/api"
	"github.com/happydiy/mcsm/util/fileutils"
	"golang.org/x/mod/semver"
)

// Instance is one installed server on disk. The directory name is the sole
// source of truth for resuming: "<game>" for vanilla,
// "<game>-<channel>-<loaderSuffix>" for the loader channels.
type Instance struct {
	DirName       string
	Channel       api.Channel
	Version       string // base game version
	LoaderVersion string // chosen loader build id, suffix only when inferred from disk
	Path          string
}

// NewInstance builds the on-disk identity for a chosen version combination.
func NewInstance(root string, channel api.Channel, gameVersion, loaderVersion string) Instance {
	name := DirName(channel, gameVersion, loaderVersion)
	return Instance{
		DirName:       name,
		Channel:       channel,
		Version:       gameVersion,
		LoaderVersion: loaderVersion,
		Path:          filepath.Join(root, name),
	}
}

// DirName encodes channel and versions into a directory name. Loader build
// ids like "1.20.1-47.2.0" keep only the part after the last dash.
func DirName(channel api.Channel, gameVersion, loaderVersion string) string {
	if channel == api.Vanilla {
		return gameVersion
	}
	suffix := loaderVersion
	if i := strings.LastIndex(loaderVersion, "-"); i >= 0 {
		suffix = loaderVersion[i+1:]
	}
	return gameVersion + "-" + string(channel) + "-" + suffix
}

// InferChannel decodes the channel from a directory name.
func InferChannel(dirName string) api.Channel {
	name := strings.ToLower(dirName)
	switch {
	case strings.Contains(name, "-neoforge-"):
		return api.NeoForge
	case strings.Contains(name, "-forge-"):
		return api.Forge
	case strings.Contains(name, "-fabric-"):
		return api.Fabric
	default:
		return api.Vanilla
	}
}

// InferVersion decodes the base game version from a directory name.
func InferVersion(dirName string) string {
	return strings.SplitN(dirName, "-", 2)[0]
}

func fromDir(root, dirName string) Instance {
	inst := Instance{
		DirName: dirName,
		Channel: InferChannel(dirName),
		Version: InferVersion(dirName),
		Path:    filepath.Join(root, dirName),
	}
	if parts := strings.Split(dirName, "-"); len(parts) >= 3 {
		inst.LoaderVersion = parts[len(parts)-1]
	}
	return inst
}

// ListInstalled scans root for server directories carrying the acceptance
// marker, newest base version first.
func ListInstalled(root string) []Instance {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var installed []Instance
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if fileutils.EulaAccepted(dir) {
			installed = append(installed, fromDir(root, entry.Name()))
		}
	}

	sort.Slice(installed, func(i, j int) bool {
		if c := semver.Compare("v"+installed[i].Version, "v"+installed[j].Version); c != 0 {
			return c > 0
		}
		return installed[i].DirName > installed[j].DirName
	})
	return installed
}
