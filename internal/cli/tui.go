package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/statsmith/statsmith/pkg/stats"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RepoPickerModel - Interactive exclusion selection
// =============================================================================

// RepoPickerModel is the bubbletea model for marking repositories to
// exclude. Space toggles the row under the cursor, enter confirms the
// whole selection, q abandons it.
type RepoPickerModel struct {
	Repos     []stats.Repository
	Picked    map[string]bool
	Cursor    int
	Confirmed bool
	Height    int
	Offset    int
}

// NewRepoPickerModel creates a picker over repos. Entries already in
// excluded start out marked so repeated runs edit the existing list
// instead of starting over. Keys are exact owner/name strings, matching
// the case-sensitive comparison the exclusion filter uses.
func NewRepoPickerModel(repos []stats.Repository, excluded []string) RepoPickerModel {
	picked := make(map[string]bool, len(excluded))
	for _, key := range excluded {
		picked[key] = true
	}
	return RepoPickerModel{
		Repos:  repos,
		Picked: picked,
		Height: 15,
	}
}

func (m RepoPickerModel) Init() tea.Cmd {
	return nil
}

func (m RepoPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Repos)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			key := m.Repos[m.Cursor].FullName()
			if m.Picked[key] {
				delete(m.Picked, key)
			} else {
				m.Picked[key] = true
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RepoPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Mark Repositories to Exclude"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space mark  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Repos) {
		end = len(m.Repos)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Repos[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		mark := " "
		if m.Picked[r.FullName()] {
			mark = "✗"
		}

		lang := "—"
		if len(r.Languages) > 0 {
			lang = r.Languages[0].Name
		}

		kind := "public"
		switch {
		case r.Private:
			kind = "private"
		case r.Fork:
			kind = "fork"
		case !r.Owned:
			kind = "contrib"
		}

		rows = append(rows, []string{cursor, mark, r.FullName(), lang, humanize.Comma(int64(r.Stars)), kind})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Repository", "Lang", "Stars", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Repos) {
				return lipgloss.NewStyle()
			}
			r := m.Repos[actualIdx]
			picked := m.Picked[r.FullName()]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 4 || col == 5 {
				base = base.Foreground(colorDim)
			}
			switch {
			case isCurrent && picked:
				return base.Foreground(colorRed).Bold(true)
			case isCurrent:
				return base.Foreground(colorCyan).Bold(true)
			case picked:
				return base.Foreground(colorRed)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Repos), len(m.Picked))))

	return b.String()
}

// ExcludedKeys returns the marked owner/name keys in sorted order, ready
// for an EXCLUDED environment value.
func (m RepoPickerModel) ExcludedKeys() []string {
	keys := make([]string, 0, len(m.Picked))
	for key := range m.Picked {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
