package fakeapi

import (
	"io"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"
)

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, body
}

func TestServesJSON(t *testing.T) {
	s := New([]string{"2020-03-20", "2020-03-21"})
	defer s.Close()

	code, body := get(t, s.BaseURL()+"/dates")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var dates struct {
		Dates     []string `json:"dates"`
		StartDate string   `json:"start_date"`
		EndDate   string   `json:"end_date"`
	}
	if err := sonic.Unmarshal(body, &dates); err != nil {
		t.Fatalf("decoding %s: %v", body, err)
	}
	if len(dates.Dates) != 2 || dates.StartDate != "2020-03-20" || dates.EndDate != "2020-03-21" {
		t.Errorf("dates = %+v", dates)
	}

	_, body = get(t, s.BaseURL()+"/covid_stats?date=2020-03-21")
	var stats struct {
		TotalDeaths int64 `json:"total_deaths"`
	}
	if err := sonic.Unmarshal(body, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalDeaths != s.DeathsFor("2020-03-21") {
		t.Errorf("total_deaths = %d, want %d", stats.TotalDeaths, s.DeathsFor("2020-03-21"))
	}
}

func TestFailAndHits(t *testing.T) {
	s := New(nil)
	defer s.Close()

	s.Fail("r_numbers", http.StatusBadGateway)
	if code, _ := get(t, s.BaseURL()+"/r_numbers?date=2020-03-20"); code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", code)
	}
	s.Fail("r_numbers", 0)
	if code, body := get(t, s.BaseURL()+"/r_numbers?date=2020-03-20"); code != http.StatusOK || !sonic.Valid(body) {
		t.Errorf("status = %d body = %s", code, body)
	}
	if code, _ := get(t, s.BaseURL()+"/nope"); code != http.StatusNotFound {
		t.Errorf("unknown endpoint status = %d", code)
	}
	if s.Hits("r_numbers") != 2 || s.Total() != 3 {
		t.Errorf("hits = %d total = %d", s.Hits("r_numbers"), s.Total())
	}
}
