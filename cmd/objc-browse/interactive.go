package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glyphbox/objc/inspect"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	chainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const pageSize = 20

type browseState int

const (
	stateClassList browseState = iota
	stateClassDetail
)

type browseModel struct {
	err      error
	src      inspect.Source
	classes  []string
	filtered []string
	filter   textinput.Model
	info     *inspect.ClassInfo
	selected int
	offset   int
	state    browseState
}

type classesMsg struct {
	err     error
	classes []string
}

type detailMsg struct {
	err  error
	info *inspect.ClassInfo
}

func newBrowseModel(src inspect.Source) *browseModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 32
	return &browseModel{src: src, filter: ti, state: stateClassList}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadClasses
}

func (m *browseModel) loadClasses() tea.Msg {
	classes, err := m.src.ClassNames()
	return classesMsg{classes: classes, err: err}
}

func (m *browseModel) describeSelected() tea.Cmd {
	if m.selected >= len(m.filtered) {
		return nil
	}
	name := m.filtered[m.selected]
	return func() tea.Msg {
		info, err := inspect.Describe(m.src, name)
		return detailMsg{info: info, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filter.Focused() {
			switch msg.String() {
			case "enter", "esc":
				m.filter.Blur()
			case "ctrl+c":
				return m, tea.Quit
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.applyFilter()
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "/":
			if m.state == stateClassList {
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "up", "k":
			if m.state == stateClassList && m.selected > 0 {
				m.selected--
				m.clampOffset()
			}

		case "down", "j":
			if m.state == stateClassList && m.selected < len(m.filtered)-1 {
				m.selected++
				m.clampOffset()
			}

		case "enter":
			if m.state == stateClassList && len(m.filtered) > 0 {
				return m, m.describeSelected()
			}

		case "esc":
			if m.state == stateClassDetail {
				m.state = stateClassList
				m.info = nil
				m.err = nil
			}
		}

	case classesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.classes = msg.classes
		m.applyFilter()

	case detailMsg:
		m.err = msg.err
		m.info = msg.info
		m.state = stateClassDetail
	}

	return m, nil
}

func (m *browseModel) applyFilter() {
	m.filtered = inspect.Filter(m.classes, m.filter.Value())
	if m.selected >= len(m.filtered) {
		m.selected = 0
		m.offset = 0
	}
	m.clampOffset()
}

func (m *browseModel) clampOffset() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+pageSize {
		m.offset = m.selected - pageSize + 1
	}
}

func (m *browseModel) View() string {
	if m.err != nil && m.state == stateClassList {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.classes == nil {
		return "Loading classes..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ObjC Browser"))
	b.WriteString(" ")
	b.WriteString(m.src.Label())
	b.WriteString("\n\n")

	switch m.state {
	case stateClassList:
		b.WriteString(m.filter.View())
		b.WriteString(fmt.Sprintf("  %d/%d\n\n", len(m.filtered), len(m.classes)))

		end := m.offset + pageSize
		if end > len(m.filtered) {
			end = len(m.filtered)
		}
		for i := m.offset; i < end; i++ {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.filtered[i]))
			} else {
				b.WriteString("  " + classStyle.Render(m.filtered[i]))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • / filter • q quit"))

	case stateClassDetail:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("esc back • q quit"))
			break
		}
		b.WriteString(classStyle.Render(m.info.Name))
		b.WriteString("\n")
		b.WriteString(chainStyle.Render(strings.Join(m.info.Chain, " : ")))
		b.WriteString(fmt.Sprintf("\n\nMethods (%d):\n", len(m.info.Methods)))
		shown := m.info.Methods
		if len(shown) > pageSize {
			shown = shown[:pageSize]
		}
		for _, method := range shown {
			b.WriteString("  " + method + "\n")
		}
		if len(m.info.Methods) > pageSize {
			b.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more\n", len(m.info.Methods)-pageSize)))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func runInteractive(src inspect.Source) error {
	p := tea.NewProgram(newBrowseModel(src), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
