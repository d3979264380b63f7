package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/porenet/pkg/sweep"
)

var (
	exploreCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	exploreDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	exploreTabActive   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
)

// =============================================================================
// ExploreModel - Step through a sweep
// =============================================================================

// ExploreModel is the bubbletea model of the explore command. Left/right
// switches variant, up/down moves through the water table steps.
type ExploreModel struct {
	Series  []*sweep.Series
	Variant int
	Cursor  int
	Offset  int
	Height  int
}

// NewExploreModel creates a model positioned on the first step of the
// first variant.
func NewExploreModel(series []*sweep.Series) ExploreModel {
	return ExploreModel{Series: series, Height: 15}
}

func (m ExploreModel) records() []sweep.Record {
	if len(m.Series) == 0 {
		return nil
	}
	return m.Series[m.Variant].Records
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.records())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor-1, n)
		case "down", "j":
			m.moveTo(m.Cursor+1, n)
		case "pgup":
			m.moveTo(m.Cursor-m.Height, n)
		case "pgdown", " ":
			m.moveTo(m.Cursor+m.Height, n)
		case "home", "g":
			m.moveTo(0, n)
		case "end", "G":
			m.moveTo(n-1, n)
		case "left", "h", "shift+tab":
			if len(m.Series) > 0 {
				m.Variant = (m.Variant + len(m.Series) - 1) % len(m.Series)
				m.moveTo(m.Cursor, len(m.records()))
			}
		case "right", "l", "tab":
			if len(m.Series) > 0 {
				m.Variant = (m.Variant + 1) % len(m.Series)
				m.moveTo(m.Cursor, len(m.records()))
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.moveTo(m.Cursor, len(m.records()))
	}
	return m, nil
}

// moveTo clamps the cursor to [0, n) and scrolls it into view.
func (m *ExploreModel) moveTo(cursor, n int) {
	m.Cursor = max(0, min(cursor, n-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Water table sweep"))
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render("←/→ variant  ↑/↓ step  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Series) == 0 {
		b.WriteString(exploreDimStyle.Render("no series"))
		return b.String()
	}

	tabs := make([]string, len(m.Series))
	for i, s := range m.Series {
		style := exploreDimStyle
		if i == m.Variant {
			style = exploreTabActive
		}
		tabs[i] = style.Render(s.Variant.Label())
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n")

	s := m.Series[m.Variant]
	recs := s.Records
	end := min(m.Offset+m.Height, len(recs))

	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := recs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(r.Step),
			strconv.FormatFloat(r.Level, 'f', 2, 64),
			strconv.Itoa(r.Present),
			strconv.Itoa(r.Removed),
			strconv.Itoa(r.AirFilled),
			formatFraction(r.Fraction),
			formatFraction(r.TotalFraction),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Step", "Level", "Present", "Removed", "Air", "Fraction", "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return exploreCursorStyle
			}
			return exploreNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render(fmt.Sprintf("  %s · %d pores · %d surface · seed %d · [%d/%d]",
		s.Variant.Kind, s.Final().Total, s.Surface, s.Seed, m.Cursor+1, len(recs))))

	return b.String()
}
