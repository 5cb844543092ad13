// Package tui implements the interactive demodash dashboard and the
// prompts used by the CLI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/export"
	"nathanbeddoewebdev/demodash/internal/report"
	"nathanbeddoewebdev/demodash/internal/tui/components"
	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sidebarWidth is the maximum width of the selection panel.
const sidebarWidth = 34

// DashboardOptions configures RunDashboard.
type DashboardOptions struct {
	// Catalog is the initially loaded data. Required.
	Catalog *category.Catalog

	// Year is the initially selected year. Zero selects the first one.
	Year int

	// Reload loads a fresh catalog.
	Reload func(ctx context.Context) (*category.Catalog, error)

	// Invalidate drops a cached dataset so the next Reload reads it again.
	Invalidate func(path string)

	// Exporter writes the selected categories. Nil disables export.
	Exporter *export.Exporter

	// Changes delivers paths of data files modified on disk. May be nil.
	Changes <-chan string
}

// --- Messages ---

type catalogLoadedMsg struct {
	catalog *category.Catalog
	err     error
}

type fileChangedMsg struct {
	path string
}

type exportDoneMsg struct {
	results []export.Result
	err     error
}

type pngSavedMsg struct {
	path string
	err  error
}

// --- Dashboard model ---

type dashboardModel struct {
	opts DashboardOptions

	catalog   *category.Catalog
	sel       report.Selection
	locations []string
	cursor    int

	// offset is the first visible line of the main pane.
	offset int

	width  int
	height int

	loading bool
	pending bool
	busy    string
	spinner spinner.Model

	status        string
	statusIsError bool
}

func newDashboardModel(opts DashboardOptions) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	m := dashboardModel{
		opts:    opts,
		catalog: opts.Catalog,
		spinner: s,
	}
	m.sel = report.Default(opts.Catalog, opts.Year)
	m.locations = opts.Catalog.Locations()
	return m
}

// RunDashboard starts the dashboard and blocks until the user quits.
func RunDashboard(opts DashboardOptions) error {
	if opts.Catalog == nil {
		return errors.New("tui: dashboard requires a loaded catalog")
	}

	p := tea.NewProgram(newDashboardModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func (m dashboardModel) Init() tea.Cmd {
	return waitForChange(m.opts.Changes)
}

// waitForChange blocks on the next file change. It returns nil once the
// channel is closed so the watch loop ends.
func waitForChange(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return fileChangedMsg{path: path}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.offset = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fileChangedMsg:
		if m.opts.Invalidate != nil {
			m.opts.Invalidate(msg.path)
		}
		m.status = "Файл изменён: " + msg.path
		m.statusIsError = false
		next, cmd := m.startReload()
		return next, tea.Batch(cmd, waitForChange(m.opts.Changes))

	case catalogLoadedMsg:
		return m.handleCatalog(msg)

	case exportDoneMsg:
		m.busy = ""
		m.status, m.statusIsError = exportStatus(msg.results, msg.err)
		return m, nil

	case pngSavedMsg:
		m.busy = ""
		if msg.err != nil {
			m.status = "Не удалось сохранить график: " + msg.err.Error()
			m.statusIsError = true
		} else {
			m.status = "График сохранён: " + msg.path
			m.statusIsError = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.busy != "" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m = m.selectLocation()
		}
	case "down", "j":
		if m.cursor < len(m.locations)-1 {
			m.cursor++
			m = m.selectLocation()
		}
	case "home", "g":
		m.cursor = 0
		m = m.selectLocation()
	case "end", "G":
		m.cursor = max(len(m.locations)-1, 0)
		m = m.selectLocation()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if i < m.catalog.Len() {
			m.sel = m.sel.Toggle(m.catalog, m.catalog.At(i).Label)
			m.offset = 0
		}

	case "left", "h":
		m = m.shiftYear(-1)
	case "right", "l":
		m = m.shiftYear(1)

	case "ctrl+d", "pgdown":
		m.offset = min(m.offset+max(m.contentHeight()/2, 1), m.maxOffset())
	case "ctrl+u", "pgup":
		m.offset = max(m.offset-max(m.contentHeight()/2, 1), 0)

	case "r":
		if m.opts.Invalidate != nil {
			for _, p := range m.catalog.Paths() {
				m.opts.Invalidate(p)
			}
		}
		return m.startReload()

	case "e":
		return m.startExport()

	case "p":
		return m.startPNG()
	}
	return m, nil
}

func (m dashboardModel) selectLocation() dashboardModel {
	if len(m.locations) > 0 {
		m.sel.Location = m.locations[m.cursor]
	}
	m.offset = 0
	return m
}

func (m dashboardModel) shiftYear(delta int) dashboardModel {
	years := m.catalog.Reference().Data.Years
	i := slices.Index(years, m.sel.Year) + delta
	if i >= 0 && i < len(years) {
		m.sel.Year = years[i]
	}
	return m
}

// --- Reload ---

func (m dashboardModel) startReload() (dashboardModel, tea.Cmd) {
	if m.opts.Reload == nil {
		return m, nil
	}
	if m.loading {
		m.pending = true
		return m, nil
	}
	m.loading = true
	reload := m.opts.Reload
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		cat, err := reload(context.Background())
		return catalogLoadedMsg{catalog: cat, err: err}
	})
}

// handleCatalog swaps in a reloaded catalog, keeping the selection where it
// still applies. A failed reload leaves the previous data on screen.
func (m dashboardModel) handleCatalog(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.status = "Ошибка загрузки данных: " + msg.err.Error()
		m.statusIsError = true
	} else {
		m.catalog = msg.catalog
		m.locations = msg.catalog.Locations()

		m.cursor = max(slices.Index(m.locations, m.sel.Location), 0)
		if len(m.locations) > 0 {
			m.sel.Location = m.locations[m.cursor]
		}
		if !m.catalog.Reference().Data.HasYear(m.sel.Year) {
			m.sel.Year = report.Default(m.catalog, 0).Year
		}
		m.status = fmt.Sprintf("Данные обновлены: %d населённых пунктов", len(m.locations))
		m.statusIsError = false
	}

	if m.pending {
		m.pending = false
		return m.startReload()
	}
	return m, nil
}

// --- Export ---

func (m dashboardModel) selectedItems() []export.Item {
	var items []export.Item
	for _, e := range m.catalog.Entries() {
		if m.sel.Has(e.Label) {
			items = append(items, export.Item{Label: e.Label, Data: e.Data})
		}
	}
	return items
}

func (m dashboardModel) startExport() (tea.Model, tea.Cmd) {
	if m.opts.Exporter == nil || m.busy != "" {
		return m, nil
	}
	items := m.selectedItems()
	if len(items) == 0 {
		m.status = "Нечего экспортировать: категории не выбраны"
		m.statusIsError = true
		return m, nil
	}

	m.busy = "Экспорт..."
	exp := m.opts.Exporter
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		results, err := exp.Export(items)
		return exportDoneMsg{results: results, err: err}
	})
}

func exportStatus(results []export.Result, err error) (string, bool) {
	if err != nil {
		return "Ошибка экспорта: " + err.Error(), true
	}
	files := 0
	var warnings []string
	for _, r := range results {
		files += len(r.Files)
		for _, w := range r.Warnings {
			warnings = append(warnings, w.Error())
		}
	}
	msg := fmt.Sprintf("Экспортировано файлов: %d", files)
	if len(warnings) > 0 {
		msg += " (пропущено: " + strings.Join(warnings, "; ") + ")"
	}
	return msg, false
}

func (m dashboardModel) startPNG() (tea.Model, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	lines, err := report.Trend(m.catalog, m.sel)
	if err != nil {
		m.status = err.Error()
		m.statusIsError = true
		return m, nil
	}

	path := TrendFile(m.exportDir(), m.sel.Location)
	title := Title(m.sel.Location)
	years := m.catalog.Reference().Data.Years
	series := TrendSeries(lines)

	m.busy = "Сохранение графика..."
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return pngSavedMsg{path: path, err: export.SaveTrendPNG(path, title, years, series)}
	})
}

// --- View ---

func (m dashboardModel) View() string {
	summary := ""
	if m.catalog != nil {
		summary = fmt.Sprintf("%d из %d · %d год", len(m.sel.Labels), m.catalog.Len(), m.sel.Year)
	}
	header := components.Header(m.width, summary, m.sel.Location)
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "j/k", Desc: "район"},
		{Key: "1-5", Desc: "категория"},
		{Key: "h/l", Desc: "год"},
		{Key: "ctrl+d/u", Desc: "прокрутка"},
		{Key: "e", Desc: "экспорт"},
		{Key: "p", Desc: "график"},
		{Key: "r", Desc: "обновить"},
		{Key: "q", Desc: "выход"},
	})

	status, isError := m.status, m.statusIsError
	switch {
	case m.loading:
		status, isError = m.spinner.View()+" Обновление данных...", false
	case m.busy != "":
		status, isError = m.spinner.View()+" "+m.busy, false
	}
	statusBar := components.StatusBar(m.width, status, isError)

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	sideW, mainW := m.paneWidths()
	sidebar := lipgloss.NewStyle().Width(sideW).Height(contentH).Render(m.renderSidebar(sideW, contentH))
	main := m.renderMain(mainW, contentH)

	content := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, styles.Divider.Render(" │ "), main)
	view := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
	return padToHeight(view, m.width, m.height)
}

func (m dashboardModel) contentHeight() int {
	// Header and footer take two lines each, the status bar one.
	return max(m.height-5, 1)
}

// paneWidths splits the window between the sidebar and the main pane,
// leaving three columns for the divider.
func (m dashboardModel) paneWidths() (side, main int) {
	side = min(sidebarWidth, m.width/3)
	return side, max(m.width-side-3, 20)
}

// maxOffset is the last scroll offset that still fills the main pane.
func (m dashboardModel) maxOffset() int {
	_, mainW := m.paneWidths()
	page, err := RenderPage(m.catalog, m.sel, mainW, m.exportDir())
	if err != nil {
		return 0
	}
	return max(strings.Count(page, "\n")+1-m.contentHeight(), 0)
}

func (m dashboardModel) exportDir() string {
	if m.opts.Exporter != nil && m.opts.Exporter.Dir != "" {
		return m.opts.Exporter.Dir
	}
	return "."
}

func (m dashboardModel) renderSidebar(width, height int) string {
	var cats []string
	cats = append(cats, styles.Label.Render("Категории:"))
	for i, e := range m.catalog.Entries() {
		key := styles.KeyStyle.Render(fmt.Sprintf("%d", i+1))
		label := components.Truncate(e.Label, max(width-4, 1))
		if m.sel.Has(e.Label) {
			label = styles.Value.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		cats = append(cats, key+" "+styles.Swatch(e.Color, m.sel.Has(e.Label))+" "+label)
	}

	years := m.catalog.Reference().Data.Years
	yi := slices.Index(years, m.sel.Year)
	year := []string{
		styles.Label.Render("Год для Топ-5:"),
		styles.YearPicker(m.sel.Year, yi > 0, yi < len(years)-1),
	}

	listH := max(height-len(cats)-len(year)-3, 1)
	locs := []string{styles.Label.Render("Населённый пункт:")}
	locs = append(locs, m.renderLocations(width, listH)...)

	parts := append(locs, "")
	parts = append(parts, cats...)
	parts = append(parts, "")
	parts = append(parts, year...)
	return strings.Join(parts, "\n")
}

// renderLocations returns the visible window of the location list.
func (m dashboardModel) renderLocations(width, height int) []string {
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.locations))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		name := components.Truncate(m.locations[i], max(width-2, 1))
		if i == m.cursor {
			rows = append(rows, styles.Cursor.Render("> "+name))
			continue
		}
		rows = append(rows, "  "+styles.Value.Render(name))
	}
	return rows
}

// renderMain renders the page and clamps the scroll offset to it.
func (m dashboardModel) renderMain(width, height int) string {
	page, err := RenderPage(m.catalog, m.sel, width, m.exportDir())
	if err != nil {
		return styles.ErrorText.Render(err.Error())
	}

	lines := strings.Split(page, "\n")
	offset := min(m.offset, max(len(lines)-height, 0))
	end := min(offset+height, len(lines))
	return strings.Join(lines[offset:end], "\n")
}

// padToHeight appends blank lines so the alt screen is fully repainted.
func padToHeight(view string, width, height int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
