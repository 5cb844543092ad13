package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/demodash/internal/config"
	"nathanbeddoewebdev/demodash/internal/tui/components"
	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingStoredMsg struct {
	name  string
	reset bool
}

type settingFailedMsg struct{ err error }

// settingGroup is a titled block of keys on the settings page.
type settingGroup struct {
	title string
	keys  []int
}

// groupSettings splits keys into general settings and per-category data
// files, keeping registry order inside each group.
func groupSettings(keys []config.KeySpec) []settingGroup {
	general := settingGroup{title: "Общие"}
	files := settingGroup{title: "Файлы данных"}
	for i, k := range keys {
		if strings.HasPrefix(k.Name, "file.") {
			files.keys = append(files.keys, i)
		} else {
			general.keys = append(general.keys, i)
		}
	}
	var out []settingGroup
	for _, g := range []settingGroup{general, files} {
		if len(g.keys) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// settingsModel edits the config file one key at a time. Every change is
// written through immediately.
type settingsModel struct {
	cfg    *config.Config
	keys   []config.KeySpec
	groups []settingGroup
	store  func(*config.Config) error

	selected int
	input    textinput.Model
	editing  bool

	width, height int

	note    string
	noteErr bool
}

func newSettingsModel(cfg *config.Config) settingsModel {
	return settingsModel{
		cfg:    cfg,
		keys:   config.Keys,
		groups: groupSettings(config.Keys),
		store:  (*config.Config).Save,
	}
}

// RunConfigView opens the settings page on the current config file.
func RunConfigView() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	_, err = tea.NewProgram(newSettingsModel(cfg), tea.WithAltScreen()).Run()
	return err
}

func (m settingsModel) Init() tea.Cmd { return nil }

func (m settingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateList(msg)

	case settingStoredMsg:
		m.editing = false
		m.noteErr = false
		if msg.reset {
			m.note = msg.name + ": сброшено"
		} else {
			m.note = msg.name + ": сохранено"
		}
		return m, nil

	case settingFailedMsg:
		m.note, m.noteErr = "Ошибка: "+msg.err.Error(), true
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m settingsModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.selected = max(m.selected-1, 0)
	case "down", "j":
		m.selected = min(m.selected+1, len(m.keys)-1)
	case "g":
		m.selected = 0
	case "G":
		m.selected = len(m.keys) - 1
	case "enter", "e":
		in := textinput.New()
		in.Placeholder = "пусто = по умолчанию"
		in.Width = 40
		in.SetValue(m.keys[m.selected].Get(m.cfg))
		in.Focus()
		m.input, m.editing, m.note = in, true, ""
		return m, textinput.Blink
	case "x", "backspace":
		return m.apply("")
	}
	return m, nil
}

func (m settingsModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "enter":
		return m.apply(strings.TrimSpace(m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply sets the selected key to value and persists the config. An empty
// value resets the key. A rejected value keeps the editor open.
func (m settingsModel) apply(value string) (tea.Model, tea.Cmd) {
	k := m.keys[m.selected]
	if err := k.Set(m.cfg, value); err != nil {
		m.note, m.noteErr = err.Error(), true
		return m, nil
	}
	cfg, store, name := m.cfg, m.store, k.Name
	return m, func() tea.Msg {
		if err := store(cfg); err != nil {
			return settingFailedMsg{err: err}
		}
		return settingStoredMsg{name: name, reset: value == ""}
	}
}

// problems counts keys whose Check fails.
func (m settingsModel) problems() int {
	n := 0
	for _, k := range m.keys {
		if k.Check != nil && k.Check(m.cfg) != nil {
			n++
		}
	}
	return n
}

func (m settingsModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	summary := ""
	if n := m.problems(); n > 0 {
		summary = fmt.Sprintf("нет файлов: %d", n)
	}
	header := components.Header(m.width, summary, "Настройки")

	bindings := []components.KeyBinding{
		{Key: "enter", Desc: "сохранить"},
		{Key: "esc", Desc: "отмена"},
	}
	if !m.editing {
		bindings = []components.KeyBinding{
			{Key: "j/k", Desc: "выбор"},
			{Key: "e", Desc: "изменить"},
			{Key: "x", Desc: "сбросить"},
			{Key: "q", Desc: "выход"},
		}
	}
	footer := components.Footer(m.width, bindings)

	parts := []string{header}
	chrome := lipgloss.Height(header) + lipgloss.Height(footer)
	var note string
	if m.note != "" {
		note = components.StatusBar(m.width, m.note, m.noteErr)
		chrome += lipgloss.Height(note)
	}
	parts = append(parts, m.renderGroups(max(m.height-chrome, 1)))
	if note != "" {
		parts = append(parts, note)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m settingsModel) renderGroups(height int) string {
	cardWidth := min(76, max(m.width-4, 20))
	nameWidth := 18
	textWidth := max(cardWidth-8, 8)

	var lines []string
	selectedLine := 0
	for gi, g := range m.groups {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.Subtitle.Render(g.title))
		for _, i := range g.keys {
			k := m.keys[i]
			var problem error
			if k.Check != nil {
				problem = k.Check(m.cfg)
			}
			if i == m.selected {
				selectedLine = len(lines)
			}
			lines = append(lines, m.renderSetting(k, i == m.selected, problem, nameWidth, cardWidth))
			if i != m.selected || m.editing {
				continue
			}
			lines = append(lines, "    "+styles.MutedText.Italic(true).Render(components.Truncate(k.Description, textWidth)))
			if problem != nil {
				lines = append(lines, "    "+styles.WarningText.Render(components.Truncate(problem.Error(), textWidth)))
			}
		}
	}

	// Scroll so the selected key and its description stay inside the card.
	visible := max(height-2, 1)
	first := 0
	if need := min(selectedLine+3, len(lines)); need > visible {
		first = need - visible
	}
	lines = lines[first:min(first+visible, len(lines))]

	card := styles.Card.Width(cardWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, card)
}

func (m settingsModel) renderSetting(k config.KeySpec, selected bool, problem error, nameWidth, cardWidth int) string {
	if selected && m.editing {
		return styles.Cursor.Render("> ") + styles.Label.Width(nameWidth).Render(k.Name) + m.input.View()
	}

	value := k.Get(m.cfg)
	if value == "" {
		value = "(по умолчанию)"
	}
	value = components.Truncate(value, max(cardWidth-nameWidth-8, 8))
	flag := ""
	if problem != nil {
		flag = styles.WarningText.Render(" !")
	}

	if selected {
		return styles.Cursor.Render("> ") + styles.Label.Width(nameWidth).Render(k.Name) +
			styles.Value.Bold(true).Render(value) + flag
	}
	return "  " + styles.MutedText.Width(nameWidth).Render(k.Name) + styles.MutedText.Render(value) + flag
}
