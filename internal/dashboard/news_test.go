package dashboard

import "testing"

func TestParseNews(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []Link
	}{
		{
			name:     "empty",
			fragment: "",
			want:     nil,
		},
		{
			name: "backend format",
			fragment: `<a href="https://bbc.co.uk/1" target="_blank"><b>Lockdown announced</b></a><br><br>` +
				`<a href="https://bbc.co.uk/2" target="_blank"><b>Schools   close</b></a><br><br>`,
			want: []Link{
				{Headline: "Lockdown announced", URL: "https://bbc.co.uk/1"},
				{Headline: "Schools close", URL: "https://bbc.co.uk/2"},
			},
		},
		{
			name:     "entities are decoded",
			fragment: `<a href="https://x.test/?a=1&amp;b=2"><b>Fish &amp; chips</b></a>`,
			want:     []Link{{Headline: "Fish & chips", URL: "https://x.test/?a=1&b=2"}},
		},
		{
			name:     "markup outside anchors is dropped",
			fragment: `<script>alert(1)</script><p>loose text</p><a href="u"><img src=x onerror=alert(1)>Safe</a>`,
			want:     []Link{{Headline: "Safe", URL: "u"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNews(tt.fragment)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseNews() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("link %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
