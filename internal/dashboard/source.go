package dashboard

import (
	"context"

	"covidash/pkg/covidapi"
)

// DataSource is the subset of the data access layer a render cycle needs.
// *covidapi.Client satisfies it.
type DataSource interface {
	Dates(ctx context.Context) (covidapi.DatesResponse, error)
	CovidStats(ctx context.Context, date string) (covidapi.CovidStats, error)
	RNumbers(ctx context.Context, date string) (covidapi.RNumber, error)
	CountyChoropleth(ctx context.Context, date, nlpType, topic string) (covidapi.Figure, error)
	SentimentBarChart(ctx context.Context, date, source, nlpType string) (covidapi.Figure, error)
	EmojiBarChart(ctx context.Context, date, topic string) (covidapi.Figure, error)
	HashtagTable(ctx context.Context, date, source string) (covidapi.Figure, error)
	DailyNews(ctx context.Context, date string) (covidapi.DailyNews, error)
	StatsGraph(ctx context.Context, date string) (covidapi.Figure, error)
	MASentGraph(ctx context.Context, date, topic, sentimentType string) (covidapi.Figure, error)
	NotableDays(ctx context.Context, topic, nlpType string) (covidapi.Figure, error)
	DropdownFigure(ctx context.Context, topic, sentimentType, chartValue string) (covidapi.Figure, error)
	CorrMat(ctx context.Context, topic, sentimentType string) (covidapi.Figure, error)
}

var _ DataSource = (*covidapi.Client)(nil)
