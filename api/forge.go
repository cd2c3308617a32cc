package api

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

const (
	forgeMetadataURL = "https://maven.minecraftforge.net/net/minecraftforge/forge/maven-metadata.xml"
	forgeMavenBase   = "https://maven.minecraftforge.net/net/minecraftforge/forge"
)

type mavenMetadata struct {
	Versions []string `xml:"versioning>versions>version"`
}

// ForgeVersion pairs a game version with a forge loader version. The maven
// index stores both in one token, "<game>-<loader>".
type ForgeVersion struct {
	Full          string
	GameVersion   string
	LoaderVersion string
}

func (v ForgeVersion) InstallerURL() string {
	return fmt.Sprintf("%s/%s/forge-%s-installer.jar", forgeMavenBase, v.Full, v.Full)
}

// ForgeCatalog lists forge loader builds for one game version from the
// minecraftforge maven index.
type ForgeCatalog struct {
	client      *Client
	MetadataURL string
}

func NewForgeCatalog(c *Client) *ForgeCatalog {
	return &ForgeCatalog{client: c, MetadataURL: forgeMetadataURL}
}

func (f *ForgeCatalog) Channel() Channel {
	return Forge
}

func (f *ForgeCatalog) ListVersions(gameVersion string) []VersionDescriptor {
	var meta mavenMetadata
	resp, err := f.client.R().Get(f.MetadataURL)
	if err != nil || resp.IsError() {
		pterm.Warning.Println("Failed to fetch Forge versions:", fetchProblem(resp, err))
		return nil
	}
	if err := xml.Unmarshal(resp.Body(), &meta); err != nil {
		pterm.Warning.Println("Failed to parse Forge metadata:", err)
		return nil
	}

	var versions []ForgeVersion
	for _, full := range meta.Versions {
		if !strings.HasPrefix(full, gameVersion+"-") {
			continue
		}
		parts := strings.SplitN(full, "-", 2)
		if len(parts) != 2 {
			continue
		}
		versions = append(versions, ForgeVersion{Full: full, GameVersion: parts[0], LoaderVersion: parts[1]})
	}

	// Raw descending string order, matching the upstream maven convention.
	// Not semver: 9.x sorts above 10.x here, same as forge's own installer.
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].LoaderVersion > versions[j].LoaderVersion
	})

	descriptors := make([]VersionDescriptor, 0, len(versions))
	for _, v := range versions {
		descriptors = append(descriptors, VersionDescriptor{
			ID:      v.Full,
			Channel: Forge,
			Label:   v.LoaderVersion,
			Locator: v.InstallerURL(),
		})
	}
	return descriptors
}

// ResolveLocator derives the installer URL straight from the version token,
// no network round trip needed.
func (f *ForgeCatalog) ResolveLocator(id string) (string, error) {
	if id == "" {
		return "", ErrNoLocator
	}
	return ForgeVersion{Full: id}.InstallerURL(), nil
}
