package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tidwall/gjson"

	"covidash/internal/config"
	"covidash/internal/dashboard"
	"covidash/internal/fakeapi"
	"covidash/internal/playback"
	"covidash/pkg/covidapi"
)

var testDates = []string{"2020-03-20", "2020-03-21", "2020-03-22"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestModel(t *testing.T) model {
	t.Helper()
	srv := fakeapi.New(testDates)
	t.Cleanup(srv.Close)

	log := quietLogger()
	board := dashboard.NewRecorder()
	sel := initialSelections(config.Default())
	ctrl := playback.NewController(
		covidapi.NewClient(srv.BaseURL(), covidapi.WithLogger(log)), board, sel,
		playback.WithInterval(time.Hour),
		playback.WithLogger(log),
	)
	t.Cleanup(ctrl.Close)

	m := newModel(context.Background(), ctrl, board, sel, nil, log)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 60})
	return update(t, m, m.Init()())
}

// update feeds msg to the model and runs any returned command to completion,
// feeding its message back in as well.
func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(model)
			}
		}
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelStartAndNavigate(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "2020-03-20") || !strings.Contains(view, "1/3") {
		t.Errorf("header should show the first date:\n%s", view)
	}
	content := m.renderContent()
	if !strings.Contains(content, "Total deaths") || !strings.Contains(content, "100") {
		t.Errorf("indicators missing:\n%s", content)
	}
	if !strings.Contains(content, "Headline for 2020-03-20") {
		t.Errorf("news missing:\n%s", content)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.ctrl.Snapshot().Index; got != 1 {
		t.Fatalf("Index = %d, want 1", got)
	}
	if view := m.View(); !strings.Contains(view, "2020-03-21") || !strings.Contains(view, "2/3") {
		t.Errorf("header should follow the cursor:\n%s", view)
	}
	if content := m.renderContent(); !strings.Contains(content, "200") {
		t.Errorf("deaths for 2020-03-21 missing:\n%s", content)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if got := m.ctrl.Snapshot().Index; got != 2 {
		t.Errorf("after end: Index = %d, want 2", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	if got := m.ctrl.Snapshot().Index; got != 0 {
		t.Errorf("after home: Index = %d, want 0", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.ctrl.Snapshot().Index; got != 0 {
		t.Errorf("left at first date: Index = %d, want 0", got)
	}
}

func TestModelSectionToggle(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyRunes("1"))
	content := m.renderContent()
	if !strings.Contains(content, "[1] Indicators (hidden)") {
		t.Errorf("section 1 should be hidden:\n%s", content)
	}
	if strings.Contains(content, "Total deaths") {
		t.Error("hidden section body should not render")
	}

	m = update(t, m, keyRunes("1"))
	if !strings.Contains(m.renderContent(), "Total deaths") {
		t.Error("section 1 should be shown again")
	}
}

func TestModelTimelineFilterCycle(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyRunes("s"))
	if got := m.sel.TimelineFilters().Source; got != "lockdown" {
		t.Fatalf("Source = %q, want lockdown", got)
	}
	fig, _ := m.board.Chart(dashboard.WidgetHashtagTable)
	if got := gjson.GetBytes(fig.Layout, "title.text").String(); !strings.Contains(got, "source=lockdown") {
		t.Errorf("hashtag table title = %q, want source=lockdown", got)
	}
	if got := m.sel.AnalysisFilters().Source; got != "covid" {
		t.Errorf("analysis Source = %q, timeline change should not touch it", got)
	}
}

func TestModelAnalysisPage(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	content := m.renderContent()
	for _, want := range []string{"Notable days", "Correlation matrix", "Sentiment comparison", dashboard.WordcloudPath("covid")} {
		if !strings.Contains(content, want) {
			t.Errorf("analysis page missing %q:\n%s", want, content)
		}
	}

	m = update(t, m, keyRunes("c"))
	if got := m.sel.AnalysisFilters().Chart; got != "show_sentiment_vs_time" {
		t.Fatalf("Chart = %q", got)
	}
	fig, _ := m.board.Chart(dashboard.WidgetDropdownFigure)
	if got := gjson.GetBytes(fig.Layout, "title.text").String(); !strings.Contains(got, "chart_value=show_sentiment_vs_time") {
		t.Errorf("dropdown title = %q", got)
	}

	// Section keys do nothing on the analysis page.
	m = update(t, m, keyRunes("1"))
	if len(m.hidden) != 0 {
		t.Errorf("hidden = %v, want none", m.hidden)
	}
}

func TestModelTogglePlay(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyRunes(" "))
	if got := m.ctrl.Snapshot().State; got != playback.Playing {
		t.Fatalf("State = %v, want playing", got)
	}
	if !strings.Contains(m.View(), "▶") {
		t.Error("header should mark playback")
	}
	m = update(t, m, keyRunes(" "))
	if got := m.ctrl.Snapshot().State; got != playback.Stopped {
		t.Errorf("State = %v, want stopped", got)
	}
}

func TestSlider(t *testing.T) {
	tests := []struct {
		idx, n, width int
		want          string
	}{
		{0, 3, 5, "[●────] 1/3"},
		{1, 3, 5, "[━━●──] 2/3"},
		{2, 3, 5, "[━━━━●] 3/3"},
		{0, 1, 5, "[●────] 1/1"},
		{0, 0, 3, "[───] 0/0"},
	}
	for _, tt := range tests {
		if got := slider(tt.idx, tt.n, tt.width); got != tt.want {
			t.Errorf("slider(%d, %d, %d) = %q, want %q", tt.idx, tt.n, tt.width, got, tt.want)
		}
	}
}

func TestPadOrTrunc(t *testing.T) {
	if got := padOrTrunc("abc", 5); got != "abc  " {
		t.Errorf("padOrTrunc pad = %q", got)
	}
	if got := padOrTrunc("abcdef", 4); got != "abcd" {
		t.Errorf("padOrTrunc trunc = %q", got)
	}
}

func TestNotifierCoalesces(t *testing.T) {
	msgs := make(chan tea.Msg, 4)
	n := &notifier{send: func(msg tea.Msg) { msgs <- msg }}

	n.notify(dashboard.WidgetTotalDeaths)
	n.notify(dashboard.WidgetTotalCases)
	select {
	case <-msgs:
	case <-time.After(time.Second):
		t.Fatal("no changedMsg sent")
	}
	select {
	case <-msgs:
		t.Fatal("second write before ack should be coalesced")
	case <-time.After(50 * time.Millisecond):
	}

	n.ack()
	n.notify(dashboard.WidgetRNumber)
	select {
	case <-msgs:
	case <-time.After(time.Second):
		t.Fatal("write after ack should notify again")
	}
}
