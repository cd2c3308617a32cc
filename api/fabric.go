package api

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"
)

const fabricMetaBase = "https://meta.fabricmc.net/v2"

// FabricLoaderVersion is one loader build as the fabric meta API reports it.
type FabricLoaderVersion struct {
	Version string
	Stable  bool
}

type fabricLoaderEntry struct {
	Loader FabricLoaderVersion
}

// FabricCatalog lists fabric loader builds for one game version. Unlike the
// maven-backed channels, the installer URL comes from a separate index
// endpoint at resolve time.
type FabricCatalog struct {
	client   *Client
	MetaBase string
}

func NewFabricCatalog(c *Client) *FabricCatalog {
	return &FabricCatalog{client: c, MetaBase: fabricMetaBase}
}

func (f *FabricCatalog) Channel() Channel {
	return Fabric
}

func (f *FabricCatalog) ListVersions(gameVersion string) []VersionDescriptor {
	var entries []fabricLoaderEntry
	resp, err := f.client.R().SetResult(&entries).Get(f.MetaBase + "/versions/loader/" + gameVersion)
	if err != nil {
		pterm.Warning.Println("Failed to fetch Fabric versions:", err)
		return nil
	}
	// 404 means the game version has no loader builds, which is an answer,
	// not a failure.
	if resp.StatusCode() == 404 {
		return nil
	}
	if resp.IsError() {
		pterm.Warning.Println("Failed to fetch Fabric versions:", fetchProblem(resp, nil))
		return nil
	}

	descriptors := make([]VersionDescriptor, 0, len(entries))
	for _, e := range entries {
		label := e.Loader.Version
		if e.Loader.Stable {
			label += " (stable)"
		}
		descriptors = append(descriptors, VersionDescriptor{
			ID:      e.Loader.Version,
			Channel: Fabric,
			Label:   label,
		})
	}
	// Source order is kept: the meta API already returns newest first.
	return descriptors
}

// ResolveLocator returns the latest fabric installer jar URL. The loader
// version itself is handed to the installer on the command line, so every
// id resolves to the same artifact.
func (f *FabricCatalog) ResolveLocator(string) (string, error) {
	resp, err := f.client.R().Get(f.MetaBase + "/versions/installer")
	if err != nil {
		return "", fmt.Errorf("fetch fabric installer index: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch fabric installer index: HTTP %d", resp.StatusCode())
	}

	url := gjson.GetBytes(resp.Body(), "0.url").String()
	if url == "" {
		return "", fmt.Errorf("fabric installer index empty: %w", ErrNoLocator)
	}
	return url, nil
}
