package render

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/statsmith/statsmith/pkg/errors"
)

// DefaultNameTemplate names output files by card and theme.
const DefaultNameTemplate = "{{ template }}-{{ theme }}.svg"

// ValidateNameTemplate checks an output-name pattern. Both placeholders
// are required so the generated cards cannot overwrite each other, and
// the result must be an .svg file in the output directory itself.
func ValidateNameTemplate(pattern string) error {
	if !strings.Contains(pattern, "{{ template }}") || !strings.Contains(pattern, "{{ theme }}") {
		return errors.New(errors.ErrCodeInvalidConfig, "image name %q must contain {{ template }} and {{ theme }}", pattern)
	}
	if !strings.HasSuffix(pattern, ".svg") {
		return errors.New(errors.ErrCodeInvalidConfig, "image name %q must end in .svg", pattern)
	}
	if strings.ContainsAny(pattern, `/\`) {
		return errors.New(errors.ErrCodeInvalidConfig, "image name %q must not contain path separators", pattern)
	}
	return nil
}

// OutputName expands the name pattern for one card.
func OutputName(pattern, template, theme string) string {
	out := strings.ReplaceAll(pattern, "{{ template }}", template)
	return strings.ReplaceAll(out, "{{ theme }}", theme)
}

// WriteFiles writes rendered artifacts into dir, creating it when
// missing. Artifacts are keyed by file name; the returned paths are
// sorted.
func WriteFiles(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory %s", dir)
	}

	paths := make([]string, 0, len(artifacts))
	for name, data := range artifacts {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}
