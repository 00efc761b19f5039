// Package fakeapi serves a deterministic stand-in for the dashboard backend
// over httptest, for tests that exercise the real HTTP client.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// Server is a fake backend rooted at URL()+"/api".
type Server struct {
	srv   *httptest.Server
	dates []string

	mu     sync.Mutex
	hits   map[string]int
	failed map[string]int
}

// New starts a fake backend that reports the given dates.
func New(dates []string) *Server {
	s := &Server{
		dates:  dates,
		hits:   make(map[string]int),
		failed: make(map[string]int),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// BaseURL is the API root to hand to the client.
func (s *Server) BaseURL() string { return s.srv.URL + "/api" }

// Fail makes the endpoint answer with status until Fail(endpoint, 0).
func (s *Server) Fail(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failed, endpoint)
		return
	}
	s.failed[endpoint] = status
}

// Hits returns how many requests reached endpoint.
func (s *Server) Hits(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[endpoint]
}

// Total returns the number of requests served.
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// DeathsFor is the total_deaths value served for date.
func (s *Server) DeathsFor(date string) int64 { return int64(100 * (s.indexOf(date) + 1)) }

// CasesFor is the total_cases value served for date.
func (s *Server) CasesFor(date string) int64 { return int64(1500 * (s.indexOf(date) + 1)) }

func (s *Server) indexOf(date string) int {
	for i, d := range s.dates {
		if d == date {
			return i
		}
	}
	return -1
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	endpoint := strings.TrimPrefix(r.URL.Path, "/api/")
	q := r.URL.Query()

	s.mu.Lock()
	s.hits[endpoint]++
	status := s.failed[endpoint]
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, "injected failure", status)
		return
	}

	date := q.Get("date")
	var resp any
	switch endpoint {
	case "dates":
		start, end := "", ""
		if len(s.dates) > 0 {
			start, end = s.dates[0], s.dates[len(s.dates)-1]
		}
		resp = map[string]any{"dates": s.dates, "start_date": start, "end_date": end}
	case "covid_stats":
		resp = map[string]any{"date": date, "total_deaths": s.DeathsFor(date), "total_cases": s.CasesFor(date)}
	case "r_numbers":
		resp = map[string]any{"date": date, "r_number": "~1.1"}
	case "daily_news":
		resp = map[string]any{"date": date, "content": fmt.Sprintf(
			`<a href="https://news.example/%s" target="_blank"><b>Headline for %s</b></a><br><br>`, date, date)}
	case "county_choropleth", "sentiment_bar_chart", "emoji_bar_chart", "hashtag_table",
		"stats_graph", "ma_sent_graph", "notable_days", "dropdown_figure", "corr_mat":
		resp = figure(endpoint, r.URL.RawQuery)
	default:
		http.NotFound(w, r)
		return
	}

	body, err := sonic.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// figure builds a small bar chart whose title echoes the request, so tests
// can tell which parameters produced a rendered chart.
func figure(endpoint, rawQuery string) map[string]any {
	return map[string]any{
		"data": []map[string]any{{
			"type": "bar",
			"name": endpoint,
			"x":    []string{"England", "Scotland", "Wales"},
			"y":    []float64{3, 2, 1},
		}},
		"layout": map[string]any{"title": map[string]any{"text": endpoint + "?" + rawQuery}},
	}
}
