// Package dashboard turns backend responses into widget updates. A render
// cycle fetches every payload a page needs in parallel and only touches the
// Port once all of them have arrived.
package dashboard

import "covidash/pkg/covidapi"

// Widget identifiers on the timeline page.
const (
	WidgetCurrentDate      = "current-date-indicator"
	WidgetTotalDeaths      = "total-deaths-indicator"
	WidgetTotalCases       = "total-cases-indicator"
	WidgetRNumber          = "r-number-indicator"
	WidgetHeatmapTitle     = "heatmap-title"
	WidgetCountyChoropleth = "county-choropleth"
	WidgetSentimentBar     = "sentiment-bar-chart"
	WidgetEmojiBar         = "emoji-bar-chart"
	WidgetHashtagTable     = "hashtag-table"
	WidgetStatsGraph       = "stats-graph"
	WidgetMASentGraph      = "ma-sent-graph"
	WidgetDailyNews        = "daily-news"
)

// Widget identifiers on the analysis page.
const (
	WidgetNotableDays    = "notable-day-table"
	WidgetDropdownFigure = "dropdown-figure"
	WidgetCorrMat        = "corr-mat"
	WidgetEmojiWordcloud = "emoji-wordcloud"
	WidgetWordcloud      = "wordcloud"
)

// Link is a single news headline. Only plain text reaches the Port; the
// backend's HTML fragment is never passed through.
type Link struct {
	Headline string
	URL      string
}

// Port is the rendering collaborator. Implementations re-render the target
// widget in place.
type Port interface {
	SetText(id, text string)
	SetImage(id, src string)
	SetLinks(id string, links []Link)
	RenderChart(id string, fig covidapi.Figure)
}
