package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/happydiy/mcsm/api"
)

// LaunchPlan is a fully resolved launch command. It is derived fresh for
// every launch from what is actually on disk and never persisted.
type LaunchPlan struct {
	Command []string
	Dir     string
}

const defaultMemoryArgs = "-Xmx2G -Xms1G"

// BuildLaunchPlan inspects the server directory and derives how to start it:
// modern forge/neoforge ship an @-argfile, older ones a run.sh, fabric and
// vanilla a single jar.
func BuildLaunchPlan(inst Instance, javaPath string) (LaunchPlan, error) {
	switch inst.Channel {
	case api.Forge, api.NeoForge:
		if argsFile := findArgsFile(inst.Path); argsFile != "" {
			return argFilePlan(inst, javaPath, argsFile)
		}
		return runScriptPlan(inst)
	case api.Fabric:
		return jarPlan(inst, javaPath, "fabric-server-launch.jar")
	default:
		return jarPlan(inst, javaPath, inst.DirName+".jar")
	}
}

// findArgsFile locates a unix_args.txt anywhere under the server directory.
func findArgsFile(dir string) string {
	var found string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if !d.IsDir() && d.Name() == "unix_args.txt" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

func argFilePlan(inst Instance, javaPath string, argsFile string) (LaunchPlan, error) {
	raw, err := os.ReadFile(argsFile)
	if err != nil {
		return LaunchPlan{}, fmt.Errorf("read %s: %w", argsFile, err)
	}

	jvmArgs := ""
	if content, err := os.ReadFile(filepath.Join(inst.Path, "user_jvm_args.txt")); err == nil {
		jvmArgs = strings.TrimSpace(string(content))
	}

	combined := strings.ReplaceAll(strings.TrimSpace(string(raw)), "@user_jvm_args.txt", jvmArgs)
	args, err := shlex.Split(combined)
	if err != nil {
		return LaunchPlan{}, fmt.Errorf("parse %s: %w", argsFile, err)
	}
	return LaunchPlan{Command: append([]string{javaPath}, args...), Dir: inst.Path}, nil
}

func runScriptPlan(inst Instance) (LaunchPlan, error) {
	script := filepath.Join(inst.Path, "run.sh")
	if _, err := os.Stat(script); err != nil {
		return LaunchPlan{}, fmt.Errorf("no launch convention found in %s: %w", inst.Path, err)
	}
	os.Chmod(script, 0755)
	return LaunchPlan{Command: []string{"/bin/bash", script}, Dir: inst.Path}, nil
}

func jarPlan(inst Instance, javaPath string, jarName string) (LaunchPlan, error) {
	args, _ := shlex.Split(defaultMemoryArgs)
	command := append([]string{javaPath}, args...)
	command = append(command, "-jar", jarName, "nogui")
	return LaunchPlan{Command: command, Dir: inst.Path}, nil
}
