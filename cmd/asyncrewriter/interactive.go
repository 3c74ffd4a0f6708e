package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	asyncrewriter "github.com/tumtumtum/AsyncRewriter"
	"github.com/tumtumtum/AsyncRewriter/emit"
	"github.com/tumtumtum/AsyncRewriter/rewrite"
	"github.com/tumtumtum/AsyncRewriter/semantic"
	"github.com/tumtumtum/AsyncRewriter/syntax"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	cfg      asyncrewriter.Config
	err      error
	entries  []outputEntry
	selected int
	state    modelState
	viewport viewport.Model
	ready    bool
}

// outputEntry is one browsable result: a rewritten input file or the
// merged compilation unit.
type outputEntry struct {
	title   string
	text    string
	classes int
	methods int
}

type modelState int

const (
	stateSelect modelState = iota
	stateView
)

type rewrittenMsg struct {
	err     error
	entries []outputEntry
}

func newInteractiveModel(cfg asyncrewriter.Config) *interactiveModel {
	return &interactiveModel{cfg: cfg, state: stateSelect}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.runRewrite
}

// runRewrite drives the pipeline by hand instead of going through the
// facade, so every input file gets its own browsable output next to the
// merged one.
func (m *interactiveModel) runRewrite() tea.Msg {
	ctx := context.Background()

	units, err := loadUnits(ctx, m.cfg.Files)
	if err != nil {
		return rewrittenMsg{err: err}
	}
	refs, err := loadUnits(ctx, m.cfg.References)
	if err != nil {
		return rewrittenMsg{err: err}
	}

	sem, err := semantic.Build(units, refs)
	if err != nil {
		return rewrittenMsg{err: err}
	}
	engine, err := rewrite.New(rewrite.Config{
		Context:       sem,
		ExcludedTypes: m.cfg.ExcludedTypes,
	})
	if err != nil {
		return rewrittenMsg{err: err}
	}

	var entries []outputEntry
	var assembled []*emit.Unit
	for _, u := range units {
		res, err := engine.RewriteUnit(u)
		if err != nil {
			return rewrittenMsg{err: err}
		}
		entry := outputEntry{title: u.Path}
		if res == nil {
			entry.text = "// no marked methods in " + u.Path
		} else {
			au := emit.New(res)
			entry.text = emit.Render(au)
			entry.classes = len(res.Classes)
			for _, c := range res.Classes {
				entry.methods += len(c.Methods)
			}
			assembled = append(assembled, au)
		}
		entries = append(entries, entry)
	}

	merged := emit.Render(emit.Merge(assembled))
	if merged == "" {
		merged = "// no marked methods in any input"
	}
	entries = append(entries, outputEntry{title: "merged output", text: merged})

	return rewrittenMsg{entries: entries}
}

func loadUnits(ctx context.Context, paths []string) ([]*syntax.SourceUnit, error) {
	units := make([]*syntax.SourceUnit, 0, len(paths))
	for _, path := range paths {
		u, err := syntax.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelect && len(m.entries) > 0 {
				m.viewport.SetContent(m.entries[m.selected].text)
				m.viewport.GotoTop()
				m.state = stateView
			}

		case "esc":
			if m.state == stateView {
				m.state = stateSelect
			}
		}

	case tea.WindowSizeMsg:
		// header and footer each take two rows of the alt screen
		height := msg.Height - 4
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}

	case rewrittenMsg:
		m.err = msg.err
		m.entries = msg.entries
	}

	if m.state == stateView {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" +
			helpStyle.Render("q quit")
	}
	if len(m.entries) == 0 {
		return "Rewriting..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("AsyncRewriter"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		b.WriteString("Select an output to view:\n\n")
		for i, e := range m.entries {
			line := m.formatEntry(e)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter view • q quit"))

	case stateView:
		b.WriteString(fileStyle.Render(m.entries[m.selected].title))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatEntry(e outputEntry) string {
	if e.methods == 0 {
		return fileStyle.Render(e.title)
	}
	return fileStyle.Render(e.title) + " " +
		countStyle.Render(fmt.Sprintf("(%d classes, %d methods)", e.classes, e.methods))
}

func runInteractive(cfg asyncrewriter.Config) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
