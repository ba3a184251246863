package reference

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	Colors = "colors"
	States = "states"
)

//go:embed enums/*.yaml
var builtin embed.FS

// Catalog maps a directory name to its contents.
type Catalog map[string]EnumDirectory

// LoadEnumCatalog reads every *.yaml / *.yml file of dir.
func LoadEnumCatalog(dir string) (Catalog, error) {
	return loadFS(os.DirFS(dir), ".")
}

// Builtin returns the catalogs shipped with the binary.
func Builtin() (Catalog, error) {
	return loadFS(builtin, "enums")
}

// MustBuiltin is Builtin that panics; the embedded files are fixed at build time.
func MustBuiltin() Catalog {
	c, err := Builtin()
	if err != nil {
		panic(err)
	}
	return c
}

// Codes returns the ordered codes of the named directory, or nil when it is missing.
func (c Catalog) Codes(name string) []string {
	d, ok := c[name]
	if !ok {
		return nil
	}
	return d.Codes()
}

func loadFS(fsys fs.FS, dir string) (Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	result := make(Catalog)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, name)))
		if err != nil {
			return nil, err
		}
		var d EnumDirectory
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		// directory name comes from the file when the document omits it
		if d.Name == "" {
			d.Name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		if _, dup := result[d.Name]; dup {
			return nil, fmt.Errorf("duplicate enum directory %q (file: %s)", d.Name, name)
		}
		result[d.Name] = d
	}
	return result, nil
}
