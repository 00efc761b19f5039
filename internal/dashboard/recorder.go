package dashboard

import (
	"sync"

	"covidash/pkg/covidapi"
)

// Recorder is an in-memory Port. It keeps the latest value written to every
// widget and is safe for concurrent use. OnChange, when set, is called after
// each write with the widget id.
type Recorder struct {
	OnChange func(id string)

	mu     sync.RWMutex
	texts  map[string]string
	images map[string]string
	links  map[string][]Link
	charts map[string]covidapi.Figure
	writes int
}

var _ Port = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		texts:  make(map[string]string),
		images: make(map[string]string),
		links:  make(map[string][]Link),
		charts: make(map[string]covidapi.Figure),
	}
}

func (r *Recorder) SetText(id, text string) {
	r.mu.Lock()
	r.texts[id] = text
	r.writes++
	r.mu.Unlock()
	r.changed(id)
}

func (r *Recorder) SetImage(id, src string) {
	r.mu.Lock()
	r.images[id] = src
	r.writes++
	r.mu.Unlock()
	r.changed(id)
}

func (r *Recorder) SetLinks(id string, links []Link) {
	cp := make([]Link, len(links))
	copy(cp, links)
	r.mu.Lock()
	r.links[id] = cp
	r.writes++
	r.mu.Unlock()
	r.changed(id)
}

func (r *Recorder) RenderChart(id string, fig covidapi.Figure) {
	r.mu.Lock()
	r.charts[id] = fig
	r.writes++
	r.mu.Unlock()
	r.changed(id)
}

func (r *Recorder) changed(id string) {
	if r.OnChange != nil {
		r.OnChange(id)
	}
}

// Text returns the current text of a widget.
func (r *Recorder) Text(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.texts[id]
}

// Image returns the current image source of a widget.
func (r *Recorder) Image(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.images[id]
}

// Links returns the current links of a widget.
func (r *Recorder) Links(id string) []Link {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.links[id]
}

// Chart returns the figure last rendered into a widget.
func (r *Recorder) Chart(id string) (covidapi.Figure, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fig, ok := r.charts[id]
	return fig, ok
}

// Writes returns the number of port calls received so far.
func (r *Recorder) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}
