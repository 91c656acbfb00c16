package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/statsmith/statsmith/pkg/errors"
	"github.com/statsmith/statsmith/pkg/stats"
)

func testMetrics() *stats.MetricSet {
	return &stats.MetricSet{
		Login:            "octocat",
		Name:             "The Octocat",
		JoinedAt:         time.Date(2011, 1, 25, 18, 44, 36, 0, time.UTC),
		Followers:        1234,
		Following:        9,
		Sponsoring:       2,
		StarredRepos:     567,
		Contributions:    8910,
		Stars:            4321,
		Forks:            99,
		Commits:          2048,
		LinesAdded:       60000,
		LinesDeleted:     40000,
		LinesChanged:     100000,
		OwnedRepos:       12,
		ContributedRepos: 3,
		RepoCount:        15,
		Languages: []stats.LanguageStat{
			{Name: "Go", Color: "#00ADD8", Bytes: 750, Percent: 75},
			{Name: "Ruby", Color: "#701516", Bytes: 250, Percent: 25},
		},
	}
}

func TestRenderAllCombinations(t *testing.T) {
	m := testMetrics()
	for _, template := range Templates() {
		for _, theme := range Themes() {
			t.Run(template+"-"+theme, func(t *testing.T) {
				out, err := Render(m, template, theme)
				if err != nil {
					t.Fatalf("Render failed: %v", err)
				}
				svg := string(out)
				if !strings.HasPrefix(svg, "<svg") {
					t.Error("output does not start with <svg")
				}
				if strings.Contains(svg, "{{") {
					t.Errorf("output contains unresolved tokens: %s", svg[strings.Index(svg, "{{"):])
				}
			})
		}
	}
}

func TestRenderOverviewValues(t *testing.T) {
	out, err := Render(testMetrics(), "overview", "light")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	svg := string(out)

	for _, want := range []string{
		"The Octocat's GitHub Statistics",
		">4,321<",   // stars, comma-grouped
		">2,048<",   // commits
		">8,910<",   // contributions
		">100,000<", // lines changed
		">15<",      // repository count
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("overview card missing %q", want)
		}
	}
}

func TestRenderCommunityValues(t *testing.T) {
	out, err := Render(testMetrics(), "community", "dark")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	svg := string(out)

	for _, want := range []string{
		">1,234<",       // followers
		">567<",         // starred repositories
		">25 Jan 2011<", // joined, absolute
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("community card missing %q", want)
		}
	}
}

func TestRenderLanguagesCard(t *testing.T) {
	out, err := Render(testMetrics(), "languages", "light")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	svg := string(out)

	for _, want := range []string{
		`background-color: #00ADD8; width: 75.000%;`,
		`background-color: #701516; width: 25.000%;`,
		`<span class="lang">Go</span>`,
		`<span class="percent">75.00%</span>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("languages card missing %q", want)
		}
	}
}

func TestRenderLanguagesCapped(t *testing.T) {
	m := testMetrics()
	m.Languages = nil
	for i := range 12 {
		m.Languages = append(m.Languages, stats.LanguageStat{
			Name:    fmt.Sprintf("Lang%d", i),
			Color:   "#123456",
			Bytes:   int64(100 - i),
			Percent: 5,
		})
	}

	out, err := Render(m, "languages", "light")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := strings.Count(string(out), "<li>"); got != maxLanguages {
		t.Errorf("expected %d legend entries, got %d", maxLanguages, got)
	}
}

func TestRenderLanguageColorFallback(t *testing.T) {
	m := testMetrics()
	m.Languages = []stats.LanguageStat{{Name: "Assembly", Bytes: 10, Percent: 100}}

	out, err := Render(m, "languages", "light")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(out), fallbackColor) {
		t.Errorf("expected fallback color %s for a colorless language", fallbackColor)
	}
}

func TestRenderEmptyLanguages(t *testing.T) {
	m := testMetrics()
	m.Languages = nil

	out, err := Render(m, "languages", "light")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(string(out), "{{") {
		t.Error("empty language set left unresolved tokens")
	}
}

func TestRenderEscapesName(t *testing.T) {
	m := testMetrics()
	m.Name = "Ada & Co <dev>"

	out, err := Render(m, "overview", "light")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	svg := string(out)
	if !strings.Contains(svg, "Ada &amp; Co &lt;dev&gt;") {
		t.Error("name was not XML-escaped")
	}
	if strings.Contains(svg, "Ada & Co <dev>") {
		t.Error("raw name leaked into the SVG")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(testMetrics(), "timeline", "light")
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("expected INVALID_TEMPLATE, got %v", err)
	}
}

func TestRenderUnknownTheme(t *testing.T) {
	_, err := Render(testMetrics(), "overview", "solarized")
	if err == nil {
		t.Fatal("expected error for unknown theme")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTheme) {
		t.Errorf("expected INVALID_THEME, got %v", err)
	}
}

func TestRenderNilMetrics(t *testing.T) {
	if _, err := Render(nil, "overview", "light"); err == nil {
		t.Fatal("expected error for nil metrics")
	}
}

func TestTemplatesAndThemes(t *testing.T) {
	wantTemplates := []string{"community", "languages", "overview"}
	if got := Templates(); len(got) != len(wantTemplates) {
		t.Fatalf("Templates() = %v, want %v", got, wantTemplates)
	} else {
		for i, want := range wantTemplates {
			if got[i] != want {
				t.Errorf("Templates()[%d] = %s, want %s", i, got[i], want)
			}
		}
	}

	wantThemes := []string{"dark", "light"}
	got := Themes()
	if len(got) != len(wantThemes) {
		t.Fatalf("Themes() = %v, want %v", got, wantThemes)
	}
	for i, want := range wantThemes {
		if got[i] != want {
			t.Errorf("Themes()[%d] = %s, want %s", i, got[i], want)
		}
	}
}

func TestLoadTheme(t *testing.T) {
	theme, err := LoadTheme("light")
	if err != nil {
		t.Fatalf("LoadTheme failed: %v", err)
	}
	for _, key := range []string{"background", "border", "foreground", "accent", "muted"} {
		if theme[key] == "" {
			t.Errorf("light theme missing %q", key)
		}
	}
}
