package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/statsmith/statsmith/pkg/errors"
	"github.com/statsmith/statsmith/pkg/stats"
)

// maxLanguages caps how many languages the languages card shows. The
// percentages still reflect the full filtered set, so the shown
// segments don't stretch to fill the bar.
const maxLanguages = 8

// fallbackColor fills in for languages GitHub reports without a color.
const fallbackColor = "#000000"

// Render produces one SVG card from a metric set, template, and theme.
func Render(m *stats.MetricSet, template, theme string) ([]byte, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidMetrics, "nil metric set")
	}

	doc, err := loadTemplate(template)
	if err != nil {
		return nil, err
	}
	colors, err := LoadTheme(theme)
	if err != nil {
		return nil, err
	}

	tokens := tokenValues(m)
	if template == "languages" {
		tokens["progress"], tokens["lang_list"] = languageMarkup(m.Languages)
	}
	for key, value := range colors {
		tokens[key] = value
	}

	out := doc
	for key, value := range tokens {
		out = strings.ReplaceAll(out, "{{ "+key+" }}", value)
	}

	if start := strings.Index(out, "{{"); start >= 0 {
		token := out[start:]
		if end := strings.Index(token, "}}"); end >= 0 {
			token = token[:end+2]
		}
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "template %q has unresolved token %s", template, token)
	}
	return []byte(out), nil
}

func loadTemplate(name string) (string, error) {
	data, err := templateFS.ReadFile("templates/" + name + ".svg")
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q (have: %s)", name, strings.Join(Templates(), ", "))
	}
	return string(data), nil
}

// tokenValues maps every data token to its display form. Counts are
// comma-grouped; the join date renders both absolute and relative.
func tokenValues(m *stats.MetricSet) map[string]string {
	return map[string]string{
		"name":                 escapeXML(m.Name),
		"joined_formatted":     m.JoinedAt.Format("2 Jan 2006"),
		"joined_relative":      humanize.Time(m.JoinedAt),
		"followers":            humanize.Comma(int64(m.Followers)),
		"following":            humanize.Comma(int64(m.Following)),
		"sponsoring":           humanize.Comma(int64(m.Sponsoring)),
		"starred_repositories": humanize.Comma(int64(m.StarredRepos)),
		"stargazers":           humanize.Comma(int64(m.Stars)),
		"forks":                humanize.Comma(int64(m.Forks)),
		"contributions":        humanize.Comma(int64(m.Contributions)),
		"commits":              humanize.Comma(int64(m.Commits)),
		"lines_changed":        humanize.Comma(int64(m.LinesChanged)),
		"repository_count":     humanize.Comma(int64(m.RepoCount)),
	}
}

// languageMarkup builds the progress-bar segments and the legend items
// injected into the languages card.
func languageMarkup(langs []stats.LanguageStat) (progress, langList string) {
	shown := langs
	if len(shown) > maxLanguages {
		shown = shown[:maxLanguages]
	}

	var bar strings.Builder
	var list strings.Builder
	for _, lang := range shown {
		color := lang.Color
		if color == "" {
			color = fallbackColor
		}
		fmt.Fprintf(&bar, `<span style="background-color: %s; width: %0.3f%%;"></span>`, color, lang.Percent)
		fmt.Fprintf(&list,
			`<li><svg xmlns="http://www.w3.org/2000/svg" class="octicon" style="fill:%s;" viewBox="0 0 16 16" width="16" height="16"><circle cx="8" cy="8" r="5"/></svg><span class="lang">%s</span><span class="percent">%0.2f%%</span></li>`,
			color, escapeXML(lang.Name), lang.Percent)
	}
	return bar.String(), list.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
