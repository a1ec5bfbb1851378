package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pgsentry/pgsentry/internal/config"
	"github.com/pgsentry/pgsentry/internal/db/connection"
	"github.com/pgsentry/pgsentry/internal/db/credentials"
	"github.com/pgsentry/pgsentry/internal/db/stats"
	"github.com/pgsentry/pgsentry/internal/export"
	"github.com/pgsentry/pgsentry/internal/models"
	"github.com/pgsentry/pgsentry/internal/presets"
	"github.com/pgsentry/pgsentry/internal/statcache"
	"github.com/pgsentry/pgsentry/internal/ui/components"
	"github.com/pgsentry/pgsentry/internal/ui/help"
	"github.com/pgsentry/pgsentry/internal/ui/theme"
	"github.com/pgsentry/pgsentry/internal/view"
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme

	connectionManager *connection.Manager
	credStore         *credentials.Store
	cache             *statcache.Store
	presets           *presets.Manager
	samplerCancel     context.CancelFunc

	controllers map[models.ViewID]*view.Controller
	grids       map[models.ViewID]*components.GridView
	windowHours map[models.ViewID]int

	chart *components.Chart

	showFilterEditor bool
	filterEditor     *components.FilterEditor

	showError    bool
	errorOverlay *components.ErrorOverlay

	panel components.Panel

	// Transient status line content (export/copy results)
	statusMsg string

	connected bool
}

// ConnectedMsg reports the outcome of the initial connection attempt
type ConnectedMsg struct {
	Err error
}

// ViewDataMsg carries the result of one view's load
type ViewDataMsg struct {
	View       models.ViewID
	Generation uint64
	Grid       models.Grid
	Err        error
}

// ExportDoneMsg reports a finished export
type ExportDoneMsg struct {
	Path string
	Err  error
}

// CopyDoneMsg reports a finished clipboard copy
type CopyDoneMsg struct {
	What string
	Err  error
}

// SeriesMsg carries chart data for the history view
type SeriesMsg struct {
	QueryID string
	Points  []statcache.Point
	Err     error
}

// New creates the application model. The stats cache is opened by the
// caller so it can also be closed there after the program exits.
func New(cfg *config.Config, cache *statcache.Store, credStore *credentials.Store, presetMgr *presets.Manager) *App {
	th := theme.GetTheme(cfg.UI.Theme)

	controllers := map[models.ViewID]*view.Controller{
		models.ViewCriticalIssues:   view.NewController(models.ViewCriticalIssues, view.ParseReloadPolicy(cfg.Views.CriticalIssues.OnReload)),
		models.ViewDailySummary:     view.NewController(models.ViewDailySummary, view.ParseReloadPolicy(cfg.Views.DailySummary.OnReload)),
		models.ViewProcedureHistory: view.NewController(models.ViewProcedureHistory, view.ParseReloadPolicy(cfg.Views.ProcedureHistory.OnReload)),
	}

	grids := make(map[models.ViewID]*components.GridView, len(controllers))
	for id := range controllers {
		grids[id] = components.NewGridView(th)
	}

	windowHours := map[models.ViewID]int{
		models.ViewCriticalIssues:   cfg.Views.CriticalIssues.WindowHours,
		models.ViewDailySummary:     cfg.Views.DailySummary.WindowHours,
		models.ViewProcedureHistory: cfg.Views.ProcedureHistory.WindowHours,
	}
	for id, h := range windowHours {
		if h <= 0 {
			windowHours[id] = 1
		}
	}

	app := &App{
		state:             models.NewAppState(),
		config:            cfg,
		theme:             th,
		connectionManager: connection.NewManager(),
		credStore:         credStore,
		cache:             cache,
		presets:           presetMgr,
		controllers:       controllers,
		grids:             grids,
		windowHours:       windowHours,
		chart:             components.NewChart(th),
		filterEditor:      components.NewFilterEditor(th),
		errorOverlay:      components.NewErrorOverlay(th),
		panel: components.Panel{
			Style:      lipgloss.NewStyle().BorderForeground(th.BorderFocused),
			BadgeStyle: lipgloss.NewStyle().Foreground(th.FilterBadge),
		},
	}
	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.connect
}

// connect establishes the server connection and reports back
func (a *App) connect() tea.Msg {
	cfg := a.config.Connection
	connCfg := models.ConnectionConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Database: cfg.Database,
		User:     cfg.User,
		SSLMode:  cfg.SSLMode,
		Password: a.lookupPassword(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.connectionManager.Connect(ctx, connCfg); err != nil {
		return ConnectedMsg{Err: err}
	}
	return ConnectedMsg{}
}

// lookupPassword checks the environment first, then the OS keyring
func (a *App) lookupPassword() string {
	if pw := os.Getenv("PGSENTRY_PASSWORD"); pw != "" {
		return pw
	}
	if a.credStore == nil {
		return ""
	}
	cfg := a.config.Connection
	pw, err := a.credStore.Get(cfg.Host, cfg.Port, cfg.Database, cfg.User)
	if err != nil {
		return ""
	}
	return pw
}

// bindSources wires the data sources once the pool is up
func (a *App) bindSources() error {
	conn, err := a.connectionManager.Active()
	if err != nil {
		return err
	}

	alerts := a.config.Alerts
	a.controllers[models.ViewCriticalIssues].Bind(stats.NewCriticalIssues(
		conn.Pool,
		time.Duration(alerts.LongQuerySeconds)*time.Second,
		time.Duration(alerts.IdleInTxSeconds)*time.Second,
	))
	a.controllers[models.ViewDailySummary].Bind(stats.NewDailySummary(conn.Pool))
	a.controllers[models.ViewProcedureHistory].Bind(stats.NewProcedureHistory(a.cache))

	a.startSampler(conn.Pool)
	return nil
}

// startSampler launches the background statement sampler
func (a *App) startSampler(pool *connection.Pool) {
	if !a.config.Sampler.Enabled || a.samplerCancel != nil {
		return
	}

	source := stats.NewStatementStats(pool, a.config.Sampler.TopStatements)
	sampler := statcache.NewSampler(
		source,
		a.cache,
		time.Duration(a.config.Sampler.IntervalSeconds)*time.Second,
		time.Duration(a.config.Sampler.RetentionDays)*24*time.Hour,
	)

	ctx, cancel := context.WithCancel(context.Background())
	a.samplerCancel = cancel
	go sampler.Run(ctx)
}

// Shutdown releases background resources; called after the program exits
func (a *App) Shutdown() {
	if a.samplerCancel != nil {
		a.samplerCancel()
	}
	a.connectionManager.Disconnect()
}

// refreshView slides the view's time window up to now and starts a load
func (a *App) refreshView(id models.ViewID) tea.Cmd {
	c := a.controllers[id]
	c.SetTimeRange(models.LastHours(a.windowHours[id]))

	load, err := c.BeginLoad()
	if err != nil {
		a.ShowError("Load Failed", fmt.Sprintf("Cannot load %s:\n\n%v", id, err))
		return nil
	}

	// The load carries its own source and time range so the command
	// goroutine never reads controller state
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		grid, fetchErr := load.Fetch(ctx)
		return ViewDataMsg{View: id, Generation: load.Generation, Grid: grid, Err: fetchErr}
	}
}

// refreshAll refreshes every view
func (a *App) refreshAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(models.AllViews))
	for _, id := range models.AllViews {
		if cmd := a.refreshView(id); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ConnectedMsg:
		if msg.Err != nil {
			a.ShowError("Connection Failed", fmt.Sprintf("Could not connect to %s:%d\n\nError: %v",
				a.config.Connection.Host, a.config.Connection.Port, msg.Err))
			return a, nil
		}
		a.connected = true
		if err := a.bindSources(); err != nil {
			a.ShowError("Connection Failed", err.Error())
			return a, nil
		}
		return a, a.refreshAll()

	case ViewDataMsg:
		return a.handleViewData(msg)

	case components.ApplyFilterMsg:
		a.showFilterEditor = false
		c := a.activeController()
		c.SetFilter(msg.State)
		a.syncGrid(a.state.ActiveView)
		return a, a.refreshChart()

	case components.CloseFilterEditorMsg:
		a.showFilterEditor = false
		return a, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			a.ShowError("Export Failed", msg.Err.Error())
		} else {
			a.statusMsg = "Exported to " + msg.Path
		}
		return a, nil

	case CopyDoneMsg:
		if msg.Err != nil {
			a.ShowError("Copy Failed", msg.Err.Error())
		} else {
			a.statusMsg = "Copied " + msg.What + " to clipboard"
		}
		return a, nil

	case SeriesMsg:
		if msg.Err == nil {
			title := fmt.Sprintf("Mean exec time (ms) — query %s", msg.QueryID)
			a.chart.SetSeries(title, msg.Points)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		return a, nil
	}
	return a, nil
}

// handleViewData completes a load and updates the bound grid
func (a *App) handleViewData(msg ViewDataMsg) (tea.Model, tea.Cmd) {
	c := a.controllers[msg.View]
	err := c.CompleteLoad(msg.Generation, msg.Grid, msg.Err)
	if err != nil {
		if errors.Is(err, view.ErrStaleLoad) {
			return a, nil
		}
		a.ShowError("Load Failed", fmt.Sprintf("Failed to load %s:\n\n%v", msg.View, err))
		return a, nil
	}

	a.syncGrid(msg.View)
	if msg.View == models.ViewProcedureHistory {
		return a, a.refreshChart()
	}
	return a, nil
}

// syncGrid pushes a controller's filtered view and badges into its grid
func (a *App) syncGrid(id models.ViewID) {
	c := a.controllers[id]
	grid := a.grids[id]

	grid.SetData(c.Columns(), c.Rows(), c.SnapshotLen())
	grid.ClearFilterBadges()
	for _, st := range c.Filters().Active() {
		grid.SetFilterActive(st.Column, true)
	}
}

// refreshChart reloads the sparkline for the history view's selected row
func (a *App) refreshChart() tea.Cmd {
	if a.state.ActiveView != models.ViewProcedureHistory {
		return nil
	}

	grid := a.grids[models.ViewProcedureHistory]
	row, ok := grid.SelectedRowData()
	if !ok {
		a.chart.Clear()
		return nil
	}

	c := a.controllers[models.ViewProcedureHistory]
	idx := models.Grid{Columns: c.Columns()}.ColumnIndex("Query ID")
	if idx < 0 || idx >= len(row) {
		a.chart.Clear()
		return nil
	}
	queryID := row[idx]
	tr := c.TimeRange()

	return func() tea.Msg {
		points, err := a.cache.Series(queryID, "mean_time_ms", tr.From, tr.To)
		return SeriesMsg{QueryID: queryID, Points: points, Err: err}
	}
}

// handleKey routes keyboard input
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Error overlay swallows everything except quit
	if a.showError {
		switch key {
		case "esc", "enter":
			a.DismissError()
		case "q", "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	if a.showFilterEditor {
		var cmd tea.Cmd
		a.filterEditor, cmd = a.filterEditor.Update(msg)
		return a, cmd
	}

	if a.state.ViewMode == models.HelpMode {
		switch key {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	a.statusMsg = ""

	switch key {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil

	case "1":
		return a.switchView(models.ViewCriticalIssues)
	case "2":
		return a.switchView(models.ViewDailySummary)
	case "3":
		return a.switchView(models.ViewProcedureHistory)
	case "tab":
		next := (int(a.state.ActiveView) + 1) % len(models.AllViews)
		return a.switchView(models.ViewID(next))

	case "r", "f5":
		return a, a.refreshView(a.state.ActiveView)

	case "up", "k":
		a.activeGrid().MoveSelection(-1)
		return a, a.refreshChart()
	case "down", "j":
		a.activeGrid().MoveSelection(1)
		return a, a.refreshChart()
	case "left", "h":
		a.activeGrid().MoveColumn(-1)
		return a, nil
	case "right", "l":
		a.activeGrid().MoveColumn(1)
		return a, nil
	case "ctrl+u":
		a.activeGrid().PageUp()
		return a, a.refreshChart()
	case "ctrl+d":
		a.activeGrid().PageDown()
		return a, a.refreshChart()

	case "f":
		return a.openFilterEditor()
	case "F":
		c := a.activeController()
		c.ClearFilters()
		a.syncGrid(a.state.ActiveView)
		return a, a.refreshChart()

	case "-":
		return a.adjustWindow(false)
	case "+", "=":
		return a.adjustWindow(true)

	case "s":
		a.savePreset()
		return a, nil
	case "p":
		return a.applyPreset()

	case "e":
		return a, a.exportView()
	case "y":
		return a, a.copyRow()
	case "Y":
		return a, a.copyView()
	}
	return a, nil
}

func (a *App) switchView(id models.ViewID) (tea.Model, tea.Cmd) {
	a.state.ActiveView = id
	return a, a.refreshChart()
}

func (a *App) activeController() *view.Controller {
	return a.controllers[a.state.ActiveView]
}

func (a *App) activeGrid() *components.GridView {
	return a.grids[a.state.ActiveView]
}

// openFilterEditor opens the overlay seeded with the column's prior state
func (a *App) openFilterEditor() (tea.Model, tea.Cmd) {
	grid := a.activeGrid()
	column, ok := grid.SelectedColumn()
	if !ok {
		return a, nil
	}

	prior, hadPrior := a.activeController().Filters().Get(column.Name)
	a.filterEditor.Open(column, prior, hadPrior)
	a.showFilterEditor = true
	return a, nil
}

// adjustWindow halves or doubles the active view's time window
func (a *App) adjustWindow(grow bool) (tea.Model, tea.Cmd) {
	id := a.state.ActiveView
	hours := a.windowHours[id]
	if grow {
		hours *= 2
	} else {
		hours /= 2
	}
	if hours < 1 {
		hours = 1
	}
	if hours > 168 {
		hours = 168
	}
	a.windowHours[id] = hours
	return a, a.refreshView(id)
}

// savePreset stores the active filters as a named preset for this view
func (a *App) savePreset() {
	if a.presets == nil {
		a.statusMsg = "Presets unavailable"
		return
	}
	id := a.state.ActiveView
	active := a.controllers[id].Filters().Active()
	if len(active) == 0 {
		a.statusMsg = "No active filters to save"
		return
	}

	name := fmt.Sprintf("%s %s", id, time.Now().Format("01-02 15:04"))
	if _, err := a.presets.Add(name, id.Slug(), active); err != nil {
		a.ShowError("Preset Save Failed", err.Error())
		return
	}
	a.statusMsg = "Saved preset " + name
}

// applyPreset applies the most recently used preset for this view
func (a *App) applyPreset() (tea.Model, tea.Cmd) {
	if a.presets == nil {
		a.statusMsg = "Presets unavailable"
		return a, nil
	}
	id := a.state.ActiveView
	list := a.presets.ForView(id.Slug())
	if len(list) == 0 {
		a.statusMsg = "No presets for this view"
		return a, nil
	}

	preset := list[0]
	c := a.controllers[id]
	for _, st := range preset.Filters {
		c.SetFilter(st)
	}
	if err := a.presets.Touch(preset.ID); err == nil {
		a.statusMsg = "Applied preset " + preset.Name
	}
	a.syncGrid(id)
	return a, a.refreshChart()
}

// exportView writes the current filtered view to the export directory
func (a *App) exportView() tea.Cmd {
	c := a.activeController()
	id := a.state.ActiveView
	columns := c.Columns()
	rows := c.Rows()
	dir := a.config.ExportDir()
	format := a.config.Export.Format

	return func() tea.Msg {
		path, err := export.ToFile(dir, id.Slug(), format, columns, rows)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// copyRow puts the selected row on the clipboard
func (a *App) copyRow() tea.Cmd {
	row, ok := a.activeGrid().SelectedRowData()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return CopyDoneMsg{What: "row", Err: export.CopyRow(row)}
	}
}

// copyView puts the whole filtered view on the clipboard as CSV
func (a *App) copyView() tea.Cmd {
	c := a.activeController()
	columns := c.Columns()
	rows := c.Rows()
	return func() tea.Msg {
		return CopyDoneMsg{What: "view", Err: export.CopyGrid(columns, rows)}
	}
}

// ShowError displays the error overlay
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	if a.showFilterEditor {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.filterEditor.View(),
		)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, lipgloss.NewStyle())
	}

	return a.renderNormalView()
}

func (a *App) renderNormalView() string {
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar("pgsentry", a.connectionLabel()))

	tabBar := a.renderTabs()

	// Top bar, tab bar, bottom bar and panel borders
	contentHeight := a.state.Height - 4
	if contentHeight < 5 {
		contentHeight = 5
	}
	contentWidth := a.state.Width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	grid := a.activeGrid()
	grid.Width = contentWidth

	var content string
	if a.state.ActiveView == models.ViewProcedureHistory {
		// Reserve chart rows under the grid
		chartHeight := 4
		grid.Height = contentHeight - chartHeight - 1
		a.chart.Width = contentWidth
		content = grid.View() + "\n" + a.chart.View()
	} else {
		grid.Height = contentHeight
		content = grid.View()
	}

	a.panel.Title = a.state.ActiveView.String()
	a.panel.Badge = ""
	if n := len(a.activeController().Filters().Active()); n > 0 {
		a.panel.Badge = fmt.Sprintf("▼ %d", n)
	}
	a.panel.Content = content
	a.panel.Width = a.state.Width - 2
	a.panel.Height = contentHeight

	bottomLeft := "[1-3] Views | [f] Filter | [r] Refresh | [e] Export | [?] Help | [q] Quit"
	if a.statusMsg != "" {
		bottomLeft = a.statusMsg
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(bottomLeft, a.windowLabel()))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		tabBar,
		a.panel.View(),
		bottomBar,
	)
}

// renderTabs draws the view switcher line
func (a *App) renderTabs() string {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.theme.BorderFocused).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(a.theme.Border).
		Padding(0, 1)

	tabs := make([]string, 0, len(models.AllViews))
	for i, id := range models.AllViews {
		label := fmt.Sprintf("%d %s", i+1, id)
		if id == a.state.ActiveView {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveStyle.Render(label))
		}
	}
	return strings.Join(tabs, "│")
}

func (a *App) connectionLabel() string {
	cfg := a.config.Connection
	label := fmt.Sprintf("%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
	if !a.connected {
		label += " (connecting…)"
	}
	return label
}

func (a *App) windowLabel() string {
	return fmt.Sprintf("window: %dh", a.windowHours[a.state.ActiveView])
}

// formatStatusBar lays out left and right aligned bar content.
// Truncation slices runes, never bytes, so multi-byte content survives
// narrow windows.
func (a *App) formatStatusBar(left, right string) string {
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftRunes := []rune(left)
	rightRunes := []rune(right)

	if len(leftRunes)+len(rightRunes) > availableWidth {
		if availableWidth > len(rightRunes) {
			return string(leftRunes[:availableWidth-len(rightRunes)]) + right
		}
		if availableWidth <= len(leftRunes) {
			return string(leftRunes[:availableWidth])
		}
		return left
	}

	spacing := availableWidth - len(leftRunes) - len(rightRunes)
	return left + strings.Repeat(" ", spacing) + right
}
