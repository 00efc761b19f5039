package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"covidash/internal/config"
	"covidash/internal/dashboard"
	"covidash/internal/playback"
	"covidash/internal/termchart"
	"covidash/internal/util"
)

// Styles.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")) // black on green
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type page int

const (
	pageTimeline page = iota
	pageAnalysis
)

func (p page) String() string {
	if p == pageAnalysis {
		return "analysis"
	}
	return "timeline"
}

// section is one collapsible block of a page.
type section struct {
	title  string
	render func(m *model, width int) string
}

var timelineSections = []section{
	{"Indicators", renderIndicators},
	{"County sentiment", func(m *model, w int) string {
		return valueStyle.Render(m.board.Text(dashboard.WidgetHeatmapTitle)) + "\n" + m.chart(dashboard.WidgetCountyChoropleth, w)
	}},
	{"Sentiment by country", chartSection(dashboard.WidgetSentimentBar)},
	{"Top emojis this week", chartSection(dashboard.WidgetEmojiBar)},
	{"Top hashtags", chartSection(dashboard.WidgetHashtagTable)},
	{"Daily news", renderNews},
	{"Cases and deaths", chartSection(dashboard.WidgetStatsGraph)},
	{"Moving-average sentiment", chartSection(dashboard.WidgetMASentGraph)},
}

var analysisSections = []section{
	{"Notable days", chartSection(dashboard.WidgetNotableDays)},
	{"Sentiment chart", func(m *model, w int) string {
		label := dashboard.ChartLabel(m.sel.AnalysisFilters().Chart)
		return labelStyle.Render(label) + "\n" + m.chart(dashboard.WidgetDropdownFigure, w)
	}},
	{"Correlation matrix", chartSection(dashboard.WidgetCorrMat)},
	{"Word clouds", func(m *model, w int) string {
		return labelStyle.Render("emoji: ") + m.board.Image(dashboard.WidgetEmojiWordcloud) + "\n" +
			labelStyle.Render("words: ") + m.board.Image(dashboard.WidgetWordcloud)
	}},
}

func chartSection(id string) func(m *model, width int) string {
	return func(m *model, width int) string { return m.chart(id, width) }
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// startedMsg reports the initial load.
type startedMsg struct{ err error }

// changedMsg signals that one or more widgets were written.
type changedMsg struct{}

// navDoneMsg signals that a navigation command finished rendering.
type navDoneMsg struct{}

// notifier coalesces widget writes into a single changedMsg until the model
// acknowledges it.
type notifier struct {
	pending atomic.Bool
	send    func(tea.Msg)
}

func (n *notifier) notify(string) {
	if n.send == nil {
		return
	}
	if n.pending.CompareAndSwap(false, true) {
		go n.send(changedMsg{})
	}
}

func (n *notifier) ack() { n.pending.Store(false) }

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	ctx    context.Context
	ctrl   *playback.Controller
	board  *dashboard.Recorder
	sel    *playback.Selections
	notify *notifier
	logger *slog.Logger

	page          page
	hidden        map[int]bool // timeline section index -> collapsed
	viewport      viewport.Model
	ready         bool
	width, height int
	started       bool
	startErr      error
}

func newModel(ctx context.Context, ctrl *playback.Controller, board *dashboard.Recorder, sel *playback.Selections, n *notifier, logger *slog.Logger) model {
	return model{
		ctx:    ctx,
		ctrl:   ctrl,
		board:  board,
		sel:    sel,
		notify: n,
		logger: logger,
		hidden: make(map[int]bool),
	}
}

func (m model) Init() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return startedMsg{err: ctrl.Start(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.ctrl.Close()
			return m, tea.Quit
		case "left", "h":
			return m, m.navigate(m.ctrl.Prev)
		case "right", "l":
			return m, m.navigate(m.ctrl.Next)
		case "home":
			return m, m.navigate(m.ctrl.First)
		case "end":
			return m, m.navigate(m.ctrl.Last)
		case " ", "p":
			state := m.ctrl.TogglePlay(m.ctx)
			m.logger.Info("playback toggled", "state", state, "date", m.ctrl.Snapshot().Date)
			m.refresh()
			return m, nil
		case "tab":
			if m.page == pageTimeline {
				m.page = pageAnalysis
			} else {
				m.page = pageTimeline
			}
			m.refresh()
			m.viewport.GotoTop()
			return m, nil
		case "s", "n", "c":
			return m, m.cycleFilter(key)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			i := int(key[0] - '1')
			if m.page == pageTimeline && i < len(timelineSections) {
				m.hidden[i] = !m.hidden[i]
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 1
		footerH := 1
		vpHeight := m.height - headerH - footerH
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case startedMsg:
		m.started = true
		m.startErr = msg.err
		if msg.err != nil {
			m.logger.Error("starting dashboard", "error", msg.err)
		} else {
			snap := m.ctrl.Snapshot()
			m.logger.Info("dashboard started", "dates", snap.Len, "date", snap.Date)
		}
		m.refresh()
		return m, nil

	case changedMsg:
		if m.notify != nil {
			m.notify.ack()
		}
		m.refresh()
		return m, nil

	case navDoneMsg:
		m.refresh()
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// navigate runs a cursor move off the event loop; the move renders through
// the board before navDoneMsg arrives.
func (m model) navigate(move func(context.Context) bool) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		move(ctx)
		return navDoneMsg{}
	}
}

// cycleFilter advances the selector bound to key on the current page and
// re-renders that page.
func (m model) cycleFilter(key string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	if m.page == pageTimeline {
		f := m.sel.TimelineFilters()
		switch key {
		case "s":
			f.Source = dashboard.CycleOption(dashboard.Sources, f.Source)
		case "n":
			f.NLP = dashboard.CycleOption(dashboard.NLPTypes, f.NLP)
		default:
			return nil
		}
		m.sel.SetTimeline(f)
		m.logger.Info("timeline filters changed", "source", f.Source, "nlp", f.NLP)
		return func() tea.Msg {
			ctrl.RefreshTimeline(ctx)
			return navDoneMsg{}
		}
	}

	f := m.sel.AnalysisFilters()
	switch key {
	case "s":
		f.Source = dashboard.CycleOption(dashboard.Sources, f.Source)
	case "n":
		f.NLP = dashboard.CycleOption(dashboard.NLPTypes, f.NLP)
	case "c":
		f.Chart = dashboard.CycleOption(dashboard.Charts, f.Chart)
	}
	m.sel.SetAnalysis(f)
	m.logger.Info("analysis filters changed", "source", f.Source, "nlp", f.NLP, "chart", f.Chart)
	return func() tea.Msg {
		ctrl.RefreshAnalysis(ctx)
		return navDoneMsg{}
	}
}

func (m *model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	snap := m.ctrl.Snapshot()
	var headerText string
	if m.page == pageTimeline {
		tf := m.sel.TimelineFilters()
		headerText = fmt.Sprintf(" %s  %s    source: %s  nlp: %s ",
			orDash(snap.Date), slider(snap.Index, snap.Len, 20), tf.Source, tf.NLP)
	} else {
		af := m.sel.AnalysisFilters()
		headerText = fmt.Sprintf(" Analysis    source: %s  nlp: %s  chart: %s ",
			af.Source, af.NLP, dashboard.ChartLabel(af.Chart))
	}
	style := headerStyle
	if snap.State == playback.Playing {
		style = playingStyle
		headerText = " ▶" + headerText
	}
	headerBar := style.Render(padOrTrunc(headerText, m.width))

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := " q quit  left/right day  home/end  space play  tab page  s source  n nlp  c chart  1-8 sections"
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - lipgloss.Width(footerLeft) - lipgloss.Width(footerRight)
	if gap < 0 {
		gap = 0
	}
	footerBar := footerStyle.Render(padOrTrunc(footerLeft+strings.Repeat(" ", gap)+footerRight, m.width))

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) renderContent() string {
	if !m.started {
		return dimStyle.Render("  loading dates...")
	}
	if m.startErr != nil {
		return errorStyle.Render("  " + m.startErr.Error())
	}

	sections := timelineSections
	if m.page == pageAnalysis {
		sections = analysisSections
	}

	width := max(m.width-2, 20)
	var b strings.Builder
	for i, s := range sections {
		title := s.title
		if m.page == pageTimeline {
			title = fmt.Sprintf("[%d] %s", i+1, s.title)
		}
		collapsed := m.page == pageTimeline && m.hidden[i]
		if collapsed {
			title += " (hidden)"
		}
		b.WriteString(sectionStyle.Render(" " + title + " "))
		b.WriteByte('\n')
		if !collapsed {
			b.WriteString(indent(s.render(&m, width), "  "))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderIndicators(m *model, _ int) string {
	row := func(label, id string) string {
		return labelStyle.Render(fmt.Sprintf("%-14s", label)) + valueStyle.Render(orDash(m.board.Text(id)))
	}
	return strings.Join([]string{
		row("Total deaths", dashboard.WidgetTotalDeaths),
		row("Total cases", dashboard.WidgetTotalCases),
		row("R number", dashboard.WidgetRNumber),
	}, "\n")
}

func renderNews(m *model, _ int) string {
	links := m.board.Links(dashboard.WidgetDailyNews)
	if len(links) == 0 {
		return dimStyle.Render("no headlines")
	}
	var lines []string
	for _, l := range links {
		lines = append(lines, "• "+l.Headline, "  "+linkStyle.Render(l.URL))
	}
	return strings.Join(lines, "\n")
}

// chart renders a widget's figure, or a placeholder before the first render.
func (m *model) chart(id string, width int) string {
	fig, ok := m.board.Chart(id)
	if !ok {
		return dimStyle.Render("loading...")
	}
	return termchart.Render(fig, width)
}

// slider draws the cursor position as a track plus "i/n".
func slider(idx, n, width int) string {
	if n == 0 {
		return "[" + strings.Repeat("─", width) + "] 0/0"
	}
	pos := 0
	if n > 1 {
		pos = idx * (width - 1) / (n - 1)
	}
	return "[" + strings.Repeat("━", pos) + "●" + strings.Repeat("─", width-1-pos) + "]" +
		fmt.Sprintf(" %d/%d", idx+1, n)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r)) > width {
			r = r[:len(r)-1]
		}
		return string(r)
	}
	return s + strings.Repeat(" ", width-n)
}

// ---------------------------------------------------------------------------
// Command
// ---------------------------------------------------------------------------

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = util.DailyLogPath("/tmp", "covidash", time.Now())
	}
	logFile, err := util.OpenLogFile(logPath)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(cfg, logFile)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	board := dashboard.NewRecorder()
	sel := initialSelections(cfg)
	ctrl := playback.NewController(newClient(cfg, logger), board, sel,
		playback.WithInterval(cfg.PlayInterval()),
		playback.WithLogger(logger),
	)
	defer ctrl.Close()

	n := &notifier{}
	board.OnChange = n.notify

	p := tea.NewProgram(
		newModel(ctx, ctrl, board, sel, n, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	n.send = p.Send

	logger.Info("starting tui", "api", cfg.API.BaseURL, "interval", cfg.PlayInterval())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

func initialSelections(cfg *config.Config) *playback.Selections {
	return playback.NewSelections(
		dashboard.TimelineFilters{Source: cfg.Filters.Source, NLP: cfg.Filters.NLP},
		dashboard.AnalysisFilters{Source: cfg.Filters.Source, NLP: cfg.Filters.NLP, Chart: cfg.Filters.Chart},
	)
}
