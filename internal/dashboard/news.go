package dashboard

import (
	"strings"

	"golang.org/x/net/html"
)

// ParseNews extracts headline links from the daily_news HTML fragment. Markup
// other than anchors is dropped; text outside an anchor is ignored.
func ParseNews(fragment string) []Link {
	var (
		links  []Link
		inLink bool
		cur    Link
		text   strings.Builder
	)
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; keep what we have.
			return links
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			inLink = true
			cur = Link{}
			text.Reset()
			for _, a := range tok.Attr {
				if a.Key == "href" {
					cur.URL = strings.TrimSpace(a.Val)
				}
			}
		case html.TextToken:
			if inLink {
				text.Write(z.Text())
			}
		case html.EndTagToken:
			if !inLink {
				continue
			}
			if name, _ := z.TagName(); string(name) != "a" {
				continue
			}
			inLink = false
			cur.Headline = strings.Join(strings.Fields(text.String()), " ")
			if cur.Headline != "" || cur.URL != "" {
				links = append(links, cur)
			}
		}
	}
}
