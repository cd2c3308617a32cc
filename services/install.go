package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/happydiy/mcsm/api"
	"github.com/happydiy/mcsm/util/fileutils"
	"github.com/pterm/pterm"
)

// Install downloads and installs one server into inst.Path. Loader channels
// run their official installer with the chosen Java; any failure here is
// fatal to the attempt and leaves no acceptance marker behind.
func Install(cat api.Catalog, inst Instance, javaPath string) error {
	if err := os.MkdirAll(inst.Path, 0755); err != nil {
		return err
	}
	pterm.Info.Println("Installing server in " + inst.Path)

	switch inst.Channel {
	case api.Vanilla:
		url, err := cat.ResolveLocator(inst.Version)
		if err != nil {
			return fmt.Errorf("resolve vanilla %s: %w", inst.Version, err)
		}
		return fileutils.DownloadFile(url, filepath.Join(inst.Path, inst.DirName+".jar"))

	case api.Fabric:
		url, err := cat.ResolveLocator(inst.LoaderVersion)
		if err != nil {
			return fmt.Errorf("resolve fabric installer: %w", err)
		}
		installer := filepath.Join(inst.Path, "fabric-installer.jar")
		if err := fileutils.DownloadFile(url, installer); err != nil {
			return err
		}
		defer os.Remove(installer)
		return runInstaller(inst.Path, javaPath, "-jar", "fabric-installer.jar",
			"server", "-mcversion", inst.Version, "-loader", inst.LoaderVersion, "-downloadMinecraft")

	case api.Forge, api.NeoForge:
		url, err := cat.ResolveLocator(inst.LoaderVersion)
		if err != nil {
			return fmt.Errorf("resolve %s %s: %w", inst.Channel, inst.LoaderVersion, err)
		}
		installerName := string(inst.Channel) + "-installer.jar"
		installer := filepath.Join(inst.Path, installerName)
		if err := fileutils.DownloadFile(url, installer); err != nil {
			return err
		}
		defer os.Remove(installer)
		return runInstaller(inst.Path, javaPath, "-jar", installerName, "--installServer")

	default:
		return fmt.Errorf("unknown channel %q", inst.Channel)
	}
}

// runInstaller runs a loader installer in dir, streaming its output through.
func runInstaller(dir string, javaPath string, args ...string) error {
	pterm.Info.Println("Running installer...")
	cmd := exec.Command(javaPath, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stdout
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("installer failed: %w", err)
	}
	pterm.Success.Println("Installer finished")
	return nil
}
