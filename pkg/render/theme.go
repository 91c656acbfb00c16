package render

import (
	"embed"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/statsmith/statsmith/pkg/errors"
)

//go:embed templates/*.svg
var templateFS embed.FS

//go:embed themes/*.toml
var themeFS embed.FS

// LoadTheme reads one embedded theme as a flat token-to-color map.
func LoadTheme(name string) (map[string]string, error) {
	data, err := themeFS.ReadFile("themes/" + name + ".toml")
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (have: %s)", name, strings.Join(Themes(), ", "))
	}
	theme := map[string]string{}
	if err := toml.Unmarshal(data, &theme); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme %q", name)
	}
	return theme, nil
}

// Themes returns the embedded theme names in sorted order.
func Themes() []string {
	return assetNames(themeFS, "themes", ".toml")
}

// Templates returns the embedded card template names in sorted order.
func Templates() []string {
	return assetNames(templateFS, "templates", ".svg")
}

func assetNames(fsys embed.FS, dir, ext string) []string {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names
}
