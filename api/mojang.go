package api

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"
)

const mojangManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

type mojangManifest struct {
	Versions []struct {
		Id   string
		Type string
		Url  string
	}
}

// MojangCatalog lists vanilla game versions from the piston-meta manifest.
type MojangCatalog struct {
	client      *Client
	ManifestURL string
}

func NewMojangCatalog(c *Client) *MojangCatalog {
	return &MojangCatalog{client: c, ManifestURL: mojangManifestURL}
}

func (m *MojangCatalog) Channel() Channel {
	return Vanilla
}

// ListVersions returns all release-type versions, manifest order (newest
// first). The gameVersion argument is unused: vanilla is the base catalog
// the other channels key off of.
func (m *MojangCatalog) ListVersions(string) []VersionDescriptor {
	return m.list("release")
}

func (m *MojangCatalog) list(filterType string) []VersionDescriptor {
	var manifest mojangManifest
	resp, err := m.client.R().SetResult(&manifest).Get(m.ManifestURL)
	if err != nil || resp.IsError() {
		pterm.Warning.Println("Failed to fetch Minecraft versions:", fetchProblem(resp, err))
		return nil
	}

	var versions []VersionDescriptor
	for _, v := range manifest.Versions {
		if filterType == "" || v.Type == filterType {
			versions = append(versions, VersionDescriptor{
				ID:      v.Id,
				Channel: Vanilla,
				Label:   v.Id,
				Locator: v.Url,
			})
		}
	}
	return versions
}

// ResolveLocator fetches the per-version detail document and pulls the
// server jar URL out of it.
func (m *MojangCatalog) ResolveLocator(id string) (string, error) {
	var detailURL string
	for _, v := range m.list("") {
		if v.ID == id {
			detailURL = v.Locator
			break
		}
	}
	if detailURL == "" {
		return "", fmt.Errorf("minecraft %s: %w", id, ErrNoLocator)
	}

	resp, err := m.client.R().Get(detailURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s detail: %w", id, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s detail: HTTP %d", id, resp.StatusCode())
	}

	url := gjson.GetBytes(resp.Body(), "downloads.server.url").String()
	if url == "" {
		return "", fmt.Errorf("minecraft %s has no server download: %w", id, ErrNoLocator)
	}
	return url, nil
}
