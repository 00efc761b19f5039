package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"covidash/internal/fakeapi"
	"covidash/pkg/covidapi"
)

var testDates = []string{"2020-03-20", "2020-03-21", "2020-03-22"}

func newTestClient(t *testing.T) (*fakeapi.Server, *covidapi.Client) {
	t.Helper()
	srv := fakeapi.New(testDates)
	t.Cleanup(srv.Close)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return srv, covidapi.NewClient(srv.BaseURL(), covidapi.WithLogger(log))
}

func chartTitle(t *testing.T, rec *Recorder, id string) string {
	t.Helper()
	fig, ok := rec.Chart(id)
	if !ok {
		t.Fatalf("chart %q was not rendered", id)
	}
	return gjson.GetBytes(fig.Layout, "title.text").String()
}

func TestRenderTimeline(t *testing.T) {
	srv, client := newTestClient(t)
	rec := NewRecorder()
	f := TimelineFilters{Source: "lockdown", NLP: "vader"}

	if err := RenderTimeline(context.Background(), client, rec, "2020-03-21", f); err != nil {
		t.Fatalf("RenderTimeline: %v", err)
	}

	if got := rec.Text(WidgetCurrentDate); got != "2020-03-21" {
		t.Errorf("date indicator = %q", got)
	}
	if got := rec.Text(WidgetTotalDeaths); got != "200" {
		t.Errorf("deaths = %q, want %q", got, "200")
	}
	if got := rec.Text(WidgetTotalCases); got != "3,000" {
		t.Errorf("cases = %q, want %q", got, "3,000")
	}
	if got := rec.Text(WidgetRNumber); got != "~1.1" {
		t.Errorf("r number = %q", got)
	}
	if got, want := rec.Text(WidgetHeatmapTitle), HeatmapTitle("lockdown", "2020-03-21"); got != want {
		t.Errorf("heatmap title = %q, want %q", got, want)
	}

	// Parameter routing follows the backend's names.
	tests := []struct {
		widget string
		want   string
	}{
		{WidgetCountyChoropleth, "county_choropleth?date=2020-03-21&nlp_type=vader&topic=lockdown"},
		{WidgetSentimentBar, "sentiment_bar_chart?date=2020-03-21&nlp_type=vader&source=lockdown"},
		{WidgetEmojiBar, "emoji_bar_chart?date=2020-03-21&topic=lockdown"},
		{WidgetHashtagTable, "hashtag_table?date=2020-03-21&source=lockdown"},
		{WidgetStatsGraph, "stats_graph?date=2020-03-21"},
		{WidgetMASentGraph, "ma_sent_graph?date=2020-03-21&sentiment_type=vader&topic=lockdown"},
	}
	for _, tt := range tests {
		if got := chartTitle(t, rec, tt.widget); got != tt.want {
			t.Errorf("%s title = %q, want %q", tt.widget, got, tt.want)
		}
	}

	links := rec.Links(WidgetDailyNews)
	if len(links) != 1 || links[0].Headline != "Headline for 2020-03-21" {
		t.Errorf("news links = %+v", links)
	}

	if srv.Total() != 9 {
		t.Errorf("requests = %d, want 9", srv.Total())
	}
}

func TestRenderTimelineAllOrNothing(t *testing.T) {
	srv, client := newTestClient(t)
	rec := NewRecorder()
	f := TimelineFilters{Source: "covid", NLP: "nn"}
	ctx := context.Background()

	srv.Fail("hashtag_table", http.StatusInternalServerError)
	err := RenderTimeline(ctx, client, rec, "2020-03-20", f)
	var reqErr *covidapi.RequestError
	if !errors.As(err, &reqErr) || reqErr.Endpoint != "hashtag_table" {
		t.Fatalf("error = %v, want hashtag_table RequestError", err)
	}

	// Only the date indicator moved; no chart or stat was applied.
	if rec.Text(WidgetCurrentDate) != "2020-03-20" {
		t.Errorf("date indicator = %q", rec.Text(WidgetCurrentDate))
	}
	if rec.Text(WidgetTotalDeaths) != "" {
		t.Error("stats applied despite failed cycle")
	}
	if _, ok := rec.Chart(WidgetStatsGraph); ok {
		t.Error("chart applied despite failed cycle")
	}

	// Successful siblings were cached: recovering only refetches the failed one.
	srv.Fail("hashtag_table", 0)
	before := srv.Total()
	if err := RenderTimeline(ctx, client, rec, "2020-03-20", f); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got := srv.Total() - before; got != 1 {
		t.Errorf("requests after recovery = %d, want 1", got)
	}
	if rec.Text(WidgetTotalDeaths) != "100" {
		t.Errorf("deaths = %q after recovery", rec.Text(WidgetTotalDeaths))
	}
}

func TestRenderAnalysis(t *testing.T) {
	_, client := newTestClient(t)
	rec := NewRecorder()
	f := AnalysisFilters{Source: "covid", NLP: "textblob", Chart: "show_sentiment_vs_time"}

	if err := RenderAnalysis(context.Background(), client, rec, f); err != nil {
		t.Fatalf("RenderAnalysis: %v", err)
	}

	if got := chartTitle(t, rec, WidgetDropdownFigure); got != "dropdown_figure?chart_value=show_sentiment_vs_time&sentiment_type=textblob&topic=covid" {
		t.Errorf("dropdown title = %q", got)
	}
	if got := chartTitle(t, rec, WidgetNotableDays); got != "notable_days?nlp_type=textblob&topic=covid" {
		t.Errorf("notable days title = %q", got)
	}
	if got := chartTitle(t, rec, WidgetCorrMat); !strings.HasPrefix(got, "corr_mat?") {
		t.Errorf("corr mat title = %q", got)
	}
	if got := rec.Image(WidgetEmojiWordcloud); got != "assets/covid_emoji_wordcloud.png" {
		t.Errorf("emoji wordcloud = %q", got)
	}
	if got := rec.Image(WidgetWordcloud); got != "assets/covid_wordcloud.png" {
		t.Errorf("wordcloud = %q", got)
	}
}

func TestRenderAnalysisFailureLeavesImages(t *testing.T) {
	srv, client := newTestClient(t)
	rec := NewRecorder()
	srv.Fail("corr_mat", http.StatusBadGateway)

	err := RenderAnalysis(context.Background(), client, rec, AnalysisFilters{Source: "covid", NLP: "nn", Chart: Charts[0]})
	if err == nil {
		t.Fatal("expected error")
	}
	if rec.Writes() != 0 {
		t.Errorf("port writes = %d, want 0", rec.Writes())
	}
}
