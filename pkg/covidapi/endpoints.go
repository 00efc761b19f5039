package covidapi

import (
	"context"
	"encoding/json"
)

// Endpoint names consumed from the backend.
const (
	EndpointDates             = "dates"
	EndpointCovidStats        = "covid_stats"
	EndpointRNumbers          = "r_numbers"
	EndpointCountyChoropleth  = "county_choropleth"
	EndpointSentimentBarChart = "sentiment_bar_chart"
	EndpointEmojiBarChart     = "emoji_bar_chart"
	EndpointHashtagTable      = "hashtag_table"
	EndpointDailyNews         = "daily_news"
	EndpointStatsGraph        = "stats_graph"
	EndpointMASentGraph       = "ma_sent_graph"
	EndpointNotableDays       = "notable_days"
	EndpointDropdownFigure    = "dropdown_figure"
	EndpointCorrMat           = "corr_mat"
)

// Figure is a chart payload: plotly traces plus a layout. Traces and layout
// are kept as raw JSON; their shape is owned by the chart renderer.
type Figure struct {
	Data   []json.RawMessage `json:"data"`
	Layout json.RawMessage   `json:"layout"`
	Error  string            `json:"error,omitempty"`
}

// DatesResponse lists every date the backend has data for.
type DatesResponse struct {
	Dates     []string `json:"dates"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

// CovidStats holds cumulative UK totals for a date.
type CovidStats struct {
	Date        string `json:"date"`
	TotalDeaths int64  `json:"total_deaths"`
	TotalCases  int64  `json:"total_cases"`
}

// RNumber is the weekly reproduction-number estimate covering a date. The
// backend sends "N/A" or "~1.05" style strings.
type RNumber struct {
	Date    string `json:"date"`
	RNumber string `json:"r_number"`
}

// DailyNews carries the day's headlines as an HTML fragment.
type DailyNews struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// --- Timeline page ---

// Dates returns the ordered list of available dates.
func (c *Client) Dates(ctx context.Context) (DatesResponse, error) {
	var out DatesResponse
	err := c.FetchInto(ctx, EndpointDates, nil, &out)
	return out, err
}

// CovidStats returns total deaths and cases for date.
func (c *Client) CovidStats(ctx context.Context, date string) (CovidStats, error) {
	var out CovidStats
	err := c.FetchInto(ctx, EndpointCovidStats, Params{"date": date}, &out)
	return out, err
}

// RNumbers returns the R-number estimate for date.
func (c *Client) RNumbers(ctx context.Context, date string) (RNumber, error) {
	var out RNumber
	err := c.FetchInto(ctx, EndpointRNumbers, Params{"date": date}, &out)
	return out, err
}

// CountyChoropleth returns the county sentiment map for date.
func (c *Client) CountyChoropleth(ctx context.Context, date, nlpType, topic string) (Figure, error) {
	return c.figure(ctx, EndpointCountyChoropleth, Params{"date": date, "nlp_type": nlpType, "topic": topic})
}

// SentimentBarChart returns per-country sentiment counts for date.
func (c *Client) SentimentBarChart(ctx context.Context, date, source, nlpType string) (Figure, error) {
	return c.figure(ctx, EndpointSentimentBarChart, Params{"date": date, "source": source, "nlp_type": nlpType})
}

// EmojiBarChart returns the weekly top emojis around date.
func (c *Client) EmojiBarChart(ctx context.Context, date, topic string) (Figure, error) {
	return c.figure(ctx, EndpointEmojiBarChart, Params{"date": date, "topic": topic})
}

// HashtagTable returns the top ten hashtags for date.
func (c *Client) HashtagTable(ctx context.Context, date, source string) (Figure, error) {
	return c.figure(ctx, EndpointHashtagTable, Params{"date": date, "source": source})
}

// DailyNews returns the headlines published on date.
func (c *Client) DailyNews(ctx context.Context, date string) (DailyNews, error) {
	var out DailyNews
	err := c.FetchInto(ctx, EndpointDailyNews, Params{"date": date}, &out)
	return out, err
}

// StatsGraph returns the cases/deaths time series up to date.
func (c *Client) StatsGraph(ctx context.Context, date string) (Figure, error) {
	return c.figure(ctx, EndpointStatsGraph, Params{"date": date})
}

// MASentGraph returns the moving-average sentiment series up to date.
func (c *Client) MASentGraph(ctx context.Context, date, topic, sentimentType string) (Figure, error) {
	return c.figure(ctx, EndpointMASentGraph, Params{"date": date, "topic": topic, "sentiment_type": sentimentType})
}

// --- Analysis page ---

// NotableDays returns the most positive/negative days table.
func (c *Client) NotableDays(ctx context.Context, topic, nlpType string) (Figure, error) {
	return c.figure(ctx, EndpointNotableDays, Params{"topic": topic, "nlp_type": nlpType})
}

// DropdownFigure returns the chart selected by chartValue.
func (c *Client) DropdownFigure(ctx context.Context, topic, sentimentType, chartValue string) (Figure, error) {
	return c.figure(ctx, EndpointDropdownFigure, Params{"topic": topic, "sentiment_type": sentimentType, "chart_value": chartValue})
}

// CorrMat returns the sentiment/volume correlation matrix.
func (c *Client) CorrMat(ctx context.Context, topic, sentimentType string) (Figure, error) {
	return c.figure(ctx, EndpointCorrMat, Params{"topic": topic, "sentiment_type": sentimentType})
}

func (c *Client) figure(ctx context.Context, endpoint string, params Params) (Figure, error) {
	var out Figure
	err := c.FetchInto(ctx, endpoint, params, &out)
	return out, err
}
