package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var PrefabsFS embed.FS

// Dir is the on-disk prefab directory checked before the embedded copy, so
// edited tuning is picked up by hot reload.
const Dir = "prefabs"

// Load reads a tuning file by name ("encounter.yaml" or
// "prefabs/encounter.yaml").
func Load(name string) ([]byte, error) {
	return read(relPath(name))
}

// LoadScript reads a phase script. The "prefabs/" and "scripts/" prefixes
// are optional.
func LoadScript(name string) ([]byte, error) {
	rel := relPath(name)
	rel = strings.TrimPrefix(rel, "scripts/")
	return read(path.Join("scripts", rel))
}

func read(rel string) ([]byte, error) {
	if rel == "" || rel == "." {
		return nil, fs.ErrNotExist
	}
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(rel)
}

func relPath(name string) string {
	s := filepath.ToSlash(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "./")
	return strings.TrimPrefix(s, Dir+"/")
}
