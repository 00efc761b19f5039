package dashboard

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// HeatmapTitle is the caption above the county map.
func HeatmapTitle(source, date string) string {
	return fmt.Sprintf("Heatmap of Sentiment Within %s Related Tweets in the UK. Date: %s", source, date)
}

// EmojiWordcloudPath is the image shown for the source's emoji wordcloud.
func EmojiWordcloudPath(source string) string {
	return "assets/" + source + "_emoji_wordcloud.png"
}

// WordcloudPath is the image shown for the source's word cloud.
func WordcloudPath(source string) string {
	return "assets/" + source + "_wordcloud.png"
}
