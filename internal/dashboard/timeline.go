package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"covidash/pkg/covidapi"
)

// TimelineData is everything one timeline render cycle fetched.
type TimelineData struct {
	Stats       covidapi.CovidStats
	RNumber     covidapi.RNumber
	Choropleth  covidapi.Figure
	SentBar     covidapi.Figure
	EmojiBar    covidapi.Figure
	Hashtags    covidapi.Figure
	News        covidapi.DailyNews
	StatsGraph  covidapi.Figure
	MASentGraph covidapi.Figure
}

// FetchTimeline issues every timeline request for date concurrently and waits
// for all of them. It fails if any request fails; requests that did succeed
// are still cached by the data layer.
func FetchTimeline(ctx context.Context, src DataSource, date string, f TimelineFilters) (TimelineData, error) {
	var (
		d TimelineData
		g errgroup.Group
	)
	// A plain Group: one failure must not cancel its siblings.
	g.Go(func() (err error) { d.Stats, err = src.CovidStats(ctx, date); return })
	g.Go(func() (err error) { d.RNumber, err = src.RNumbers(ctx, date); return })
	g.Go(func() (err error) { d.Choropleth, err = src.CountyChoropleth(ctx, date, f.NLP, f.Source); return })
	g.Go(func() (err error) { d.SentBar, err = src.SentimentBarChart(ctx, date, f.Source, f.NLP); return })
	g.Go(func() (err error) { d.EmojiBar, err = src.EmojiBarChart(ctx, date, f.Source); return })
	g.Go(func() (err error) { d.Hashtags, err = src.HashtagTable(ctx, date, f.Source); return })
	g.Go(func() (err error) { d.News, err = src.DailyNews(ctx, date); return })
	g.Go(func() (err error) { d.StatsGraph, err = src.StatsGraph(ctx, date); return })
	g.Go(func() (err error) { d.MASentGraph, err = src.MASentGraph(ctx, date, f.Source, f.NLP); return })

	if err := g.Wait(); err != nil {
		return TimelineData{}, err
	}
	return d, nil
}

// ApplyTimeline pushes a completed fetch to the port.
func ApplyTimeline(port Port, date string, f TimelineFilters, d TimelineData) {
	port.SetText(WidgetTotalDeaths, FormatInt(d.Stats.TotalDeaths))
	port.SetText(WidgetTotalCases, FormatInt(d.Stats.TotalCases))
	port.SetText(WidgetRNumber, d.RNumber.RNumber)
	port.SetText(WidgetHeatmapTitle, HeatmapTitle(f.Source, date))

	port.RenderChart(WidgetCountyChoropleth, d.Choropleth)
	port.RenderChart(WidgetSentimentBar, d.SentBar)
	port.RenderChart(WidgetEmojiBar, d.EmojiBar)
	port.RenderChart(WidgetHashtagTable, d.Hashtags)
	port.RenderChart(WidgetStatsGraph, d.StatsGraph)
	port.RenderChart(WidgetMASentGraph, d.MASentGraph)

	port.SetLinks(WidgetDailyNews, ParseNews(d.News.Content))
}

// RenderTimeline runs one timeline render cycle for date. The date indicator
// is updated first; nothing else changes unless every fetch succeeded.
func RenderTimeline(ctx context.Context, src DataSource, port Port, date string, f TimelineFilters) error {
	port.SetText(WidgetCurrentDate, date)

	d, err := FetchTimeline(ctx, src, date, f)
	if err != nil {
		return fmt.Errorf("updating timeline data for %s: %w", date, err)
	}
	ApplyTimeline(port, date, f, d)
	return nil
}
