package fileutils

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/buger/jsonparser"
)

// JavaPathFile records which Java a server should launch with.
const JavaPathFile = "java-path.json"

// LoadJavaPath reads the saved Java home for a server directory. An empty
// string means none was saved (or the file is unreadable).
func LoadJavaPath(serverDir string) string {
	data, err := os.ReadFile(filepath.Join(serverDir, JavaPathFile))
	if err != nil {
		return ""
	}
	javaPath, err := jsonparser.GetString(data, "javaPath")
	if err != nil {
		return ""
	}
	return javaPath
}

// SaveJavaPath stores the Java home for a server directory.
func SaveJavaPath(serverDir string, javaHome string) error {
	if err := os.MkdirAll(serverDir, 0755); err != nil {
		return err
	}
	value, err := json.Marshal(javaHome)
	if err != nil {
		return err
	}
	doc, err := jsonparser.Set([]byte("{}"), value, "javaPath")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(serverDir, JavaPathFile), doc, 0644)
}
