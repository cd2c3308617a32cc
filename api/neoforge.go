package api

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

const (
	neoforgeMetadataURL = "https://maven.neoforged.net/releases/net/neoforged/neoforge/maven-metadata.xml"
	neoforgeMavenBase   = "https://maven.neoforged.net/releases/net/neoforged/neoforge"
)

// NeoForgeVersion is one neoforge build. NeoForge version strings do not
// embed the game version: build "21.1.77" belongs to game 1.21.x, so the
// pairing is derived from the leading series number.
type NeoForgeVersion struct {
	Full        string
	GameVersion string
}

func (v NeoForgeVersion) InstallerURL() string {
	return fmt.Sprintf("%s/%s/neoforge-%s-installer.jar", neoforgeMavenBase, v.Full, v.Full)
}

// NeoForgeCatalog lists neoforge builds for one game version from the
// neoforged maven index.
type NeoForgeCatalog struct {
	client      *Client
	MetadataURL string
}

func NewNeoForgeCatalog(c *Client) *NeoForgeCatalog {
	return &NeoForgeCatalog{client: c, MetadataURL: neoforgeMetadataURL}
}

func (n *NeoForgeCatalog) Channel() Channel {
	return NeoForge
}

func (n *NeoForgeCatalog) ListVersions(gameVersion string) []VersionDescriptor {
	// "1.21.4" -> series prefix "21."
	parts := strings.Split(gameVersion, ".")
	if len(parts) < 2 {
		return nil
	}
	seriesPrefix := parts[1] + "."

	var meta mavenMetadata
	resp, err := n.client.R().Get(n.MetadataURL)
	if err != nil || resp.IsError() {
		pterm.Warning.Println("Failed to fetch NeoForge versions:", fetchProblem(resp, err))
		return nil
	}
	if err := xml.Unmarshal(resp.Body(), &meta); err != nil {
		pterm.Warning.Println("Failed to parse NeoForge metadata:", err)
		return nil
	}

	var versions []NeoForgeVersion
	for _, full := range meta.Versions {
		if !strings.HasPrefix(full, seriesPrefix) {
			continue
		}
		versions = append(versions, NeoForgeVersion{
			Full:        full,
			GameVersion: "1." + strings.SplitN(full, ".", 2)[0],
		})
	}

	// Same raw descending order as the forge index.
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Full > versions[j].Full
	})

	descriptors := make([]VersionDescriptor, 0, len(versions))
	for _, v := range versions {
		descriptors = append(descriptors, VersionDescriptor{
			ID:      v.Full,
			Channel: NeoForge,
			Label:   v.Full,
			Locator: v.InstallerURL(),
		})
	}
	return descriptors
}

func (n *NeoForgeCatalog) ResolveLocator(id string) (string, error) {
	if id == "" {
		return "", ErrNoLocator
	}
	return NeoForgeVersion{Full: id}.InstallerURL(), nil
}
