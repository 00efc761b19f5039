package dashboard

// Selector options, in the order the UI cycles through them.
var (
	Sources  = []string{"covid", "lockdown"}
	NLPTypes = []string{"vader", "textblob", "nn", "native"}
	Charts   = []string{"show_sentiment_comparison", "show_sentiment_vs_time"}
)

// TimelineFilters are the selector values read for a timeline render.
type TimelineFilters struct {
	Source string
	NLP    string
}

// AnalysisFilters are the selector values read for an analysis render.
type AnalysisFilters struct {
	Source string
	NLP    string
	Chart  string
}

// CycleOption returns the option after cur, wrapping around. Unknown values
// restart at the first option.
func CycleOption(options []string, cur string) string {
	if len(options) == 0 {
		return cur
	}
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// ChartLabel returns the human label for an analysis chart value.
func ChartLabel(chart string) string {
	switch chart {
	case "show_sentiment_comparison":
		return "Sentiment comparison"
	case "show_sentiment_vs_time":
		return "Sentiment vs tweet volume"
	default:
		return chart
	}
}
