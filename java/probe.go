package java

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

var (
	versionToken = regexp.MustCompile(`version "([^"]+)"`)
	numberRuns   = regexp.MustCompile(`\d+`)

	errNotARuntime = errors.New("no version token in probe output")
)

// vendorMarkers is checked in order; the first case-insensitive match wins.
var vendorMarkers = []struct {
	marker string
	vendor string
}{
	{"zulu", "Zulu"},
	{"temurin", "Eclipse Temurin"},
	{"graalvm", "GraalVM"},
	{"oracle corporation", "Oracle"},
	{"openjdk", "OpenJDK"},
}

// Probe runs `<exe> -version` under a short timeout and parses the combined
// output into an Installation. Any failure to execute or to find a version
// token means the candidate is not a usable runtime.
func Probe(exe string) (*Installation, error) {
	if info, err := os.Stat(exe); err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0111 == 0 {
		return nil, errors.New("not an executable file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	// Every known runtime prints the banner on stderr; capture both.
	out, _ := exec.CommandContext(ctx, exe, "-version").CombinedOutput()
	match := versionToken.FindSubmatch(out)
	if match == nil {
		return nil, errNotARuntime
	}
	version := string(match[1])

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, err
	}
	home := filepath.Dir(filepath.Dir(resolved))

	kind := "JRE"
	if _, err := os.Stat(filepath.Join(home, "bin", "javac")); err == nil {
		kind = "JDK"
	}

	major := ParseMajor(version)
	vendor := parseVendor(string(out))
	return &Installation{
		Home:    home,
		Kind:    kind,
		Version: version,
		Vendor:  vendor,
		Major:   major,
		Alias:   aliasFor(vendor, major),
		Depth:   pathDepth(resolved),
	}, nil
}

// ParseMajor maps a version token to its major number. The legacy "1.x"
// scheme means the true major is the second component ("1.8.0_291" -> 8,
// bare "1" -> 8); otherwise the first component is the major ("17.0.2" -> 17).
func ParseMajor(version string) int {
	parts := numberRuns.FindAllString(version, -1)
	if len(parts) == 0 {
		return 0
	}
	if parts[0] == "1" {
		if len(parts) > 1 {
			n, _ := strconv.Atoi(parts[1])
			return n
		}
		return 8
	}
	n, _ := strconv.Atoi(parts[0])
	return n
}

func parseVendor(output string) string {
	lower := strings.ToLower(output)
	for _, m := range vendorMarkers {
		if m.marker == "oracle corporation" {
			// Oracle's commercial build also announces itself as "Java(TM) SE".
			if strings.Contains(lower, m.marker) ||
				(strings.Contains(lower, "java(tm) se") && !strings.Contains(lower, "openjdk")) {
				return m.vendor
			}
			continue
		}
		if strings.Contains(lower, m.marker) {
			return m.vendor
		}
	}
	return "Unknown"
}

func aliasFor(vendor string, major int) string {
	sanitized := strings.ToLower(vendor)
	sanitized = strings.ReplaceAll(sanitized, " ", "")
	sanitized = strings.ReplaceAll(sanitized, "eclipse", "")
	return sanitized + strconv.Itoa(major)
}

func pathDepth(path string) int {
	return len(strings.FieldsFunc(filepath.Clean(path), func(r rune) bool {
		return r == filepath.Separator
	}))
}
