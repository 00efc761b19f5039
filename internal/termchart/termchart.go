// Package termchart draws chart payloads as terminal text. It understands
// the handful of plotly trace types the backend produces: bar, scatter,
// table, heatmap and choropleth.
package termchart

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"covidash/internal/dashboard"
	"covidash/pkg/covidapi"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	posStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const (
	minWidth       = 20
	choroplethRows = 5
)

var (
	sparkRunes = []rune("▁▂▃▄▅▆▇█")
	shadeRunes = []rune(" ░▒▓█")
)

// Title returns the figure title. Layouts carry it either as a plain string
// or as {"text": ...}.
func Title(fig covidapi.Figure) string {
	t := gjson.GetBytes(fig.Layout, "title")
	if t.IsObject() {
		return plainText(t.Get("text").String())
	}
	return plainText(t.String())
}

// Render draws every trace of fig within width columns.
func Render(fig covidapi.Figure, width int) string {
	if width < minWidth {
		width = minWidth
	}

	var b strings.Builder
	if title := Title(fig); title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteByte('\n')
	}
	if fig.Error != "" {
		b.WriteString(errStyle.Render("error: " + fig.Error))
		return b.String()
	}
	if len(fig.Data) == 0 {
		b.WriteString(dimStyle.Render("(no data)"))
		return b.String()
	}

	for i, raw := range fig.Data {
		if i > 0 {
			b.WriteByte('\n')
		}
		tr := gjson.ParseBytes(raw)
		if name := tr.Get("name").String(); name != "" && len(fig.Data) > 1 {
			b.WriteString(nameStyle.Render(name))
			b.WriteByte('\n')
		}
		switch typ := tr.Get("type").String(); typ {
		case "bar":
			b.WriteString(renderBar(tr, width))
		case "", "scatter", "scattergl":
			b.WriteString(renderLine(tr, width))
		case "table":
			b.WriteString(renderTable(tr, width))
		case "heatmap":
			b.WriteString(renderHeatmap(tr, width))
		case "choropleth", "choroplethmapbox":
			b.WriteString(renderChoropleth(tr))
		default:
			b.WriteString(dimStyle.Render(fmt.Sprintf("(%s trace not shown)", typ)))
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Bar
// ---------------------------------------------------------------------------

func renderBar(tr gjson.Result, width int) string {
	labels, values := tr.Get("x"), tr.Get("y")
	if tr.Get("orientation").String() == "h" {
		labels, values = values, labels
	}
	ls := strs(labels)
	vs := floats(values)
	n := min(len(ls), len(vs))
	if n == 0 {
		return dimStyle.Render("(empty)")
	}

	labelW := 0
	maxAbs := 0.0
	for i := 0; i < n; i++ {
		labelW = max(labelW, lipgloss.Width(ls[i]))
		maxAbs = math.Max(maxAbs, math.Abs(vs[i]))
	}
	labelW = min(labelW, width/3)

	valueW := 0
	texts := make([]string, n)
	for i := 0; i < n; i++ {
		texts[i] = formatValue(vs[i])
		valueW = max(valueW, len(texts[i]))
	}
	barW := max(width-labelW-valueW-2, 1)

	var lines []string
	for i := 0; i < n; i++ {
		cells := 0
		if maxAbs > 0 {
			cells = int(math.Round(math.Abs(vs[i]) / maxAbs * float64(barW)))
		}
		style := posStyle
		if vs[i] < 0 {
			style = negStyle
		}
		bar := style.Render(strings.Repeat("█", cells))
		lines = append(lines, fmt.Sprintf("%s %s%s %s",
			pad(ls[i], labelW), bar, strings.Repeat(" ", barW-cells), texts[i]))
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Scatter / line
// ---------------------------------------------------------------------------

func renderLine(tr gjson.Result, width int) string {
	ys := floats(tr.Get("y"))
	if len(ys) == 0 {
		return dimStyle.Render("(empty)")
	}
	xs := strs(tr.Get("x"))

	spark := Sparkline(ys, width)
	lo, hi := minMax(ys)
	out := spark + "\n" + dimStyle.Render(fmt.Sprintf("min %s  max %s  last %s",
		formatValue(lo), formatValue(hi), formatValue(ys[len(ys)-1])))
	if len(xs) > 0 {
		out += "\n" + dimStyle.Render(xs[0]+" .. "+xs[len(xs)-1])
	}
	return out
}

// Sparkline compresses values into at most width block characters, averaging
// consecutive points into buckets.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	buckets := values
	if len(values) > width {
		buckets = make([]float64, width)
		for i := range buckets {
			from := i * len(values) / width
			to := (i + 1) * len(values) / width
			sum := 0.0
			for _, v := range values[from:to] {
				sum += v
			}
			buckets[i] = sum / float64(to-from)
		}
	}

	lo, hi := minMax(buckets)
	var b strings.Builder
	for _, v := range buckets {
		b.WriteRune(sparkRunes[scale(v, lo, hi, len(sparkRunes))])
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

func renderTable(tr gjson.Result, width int) string {
	headers := strs(tr.Get("header.values"))
	var cols [][]string
	tr.Get("cells.values").ForEach(func(_, col gjson.Result) bool {
		cols = append(cols, strs(col))
		return true
	})
	if len(cols) == 0 {
		return dimStyle.Render("(empty)")
	}

	nRows := 0
	for _, c := range cols {
		nRows = max(nRows, len(c))
	}
	rows := make([][]string, nRows)
	for r := range rows {
		rows[r] = make([]string, len(cols))
		for c, col := range cols {
			if r < len(col) {
				rows[r][c] = col[r]
			}
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Width(width).
		Rows(rows...)
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	return t.Render()
}

// ---------------------------------------------------------------------------
// Heatmap
// ---------------------------------------------------------------------------

func renderHeatmap(tr gjson.Result, width int) string {
	var z [][]float64
	tr.Get("z").ForEach(func(_, row gjson.Result) bool {
		z = append(z, floats(row))
		return true
	})
	if len(z) == 0 {
		return dimStyle.Render("(empty)")
	}
	ys := strs(tr.Get("y"))
	xs := strs(tr.Get("x"))

	var all []float64
	labelW := 0
	for i, row := range z {
		all = append(all, row...)
		if i < len(ys) {
			labelW = max(labelW, lipgloss.Width(ys[i]))
		}
	}
	labelW = min(labelW, width/3)
	lo, hi := minMax(all)

	const cellW = 2
	maxCells := max((width-labelW-1)/cellW, 1)
	var lines []string
	for i, row := range z {
		label := ""
		if i < len(ys) {
			label = ys[i]
		}
		var b strings.Builder
		b.WriteString(pad(label, labelW))
		b.WriteByte(' ')
		for _, v := range row[:min(len(row), maxCells)] {
			b.WriteString(strings.Repeat(string(shadeRunes[scale(v, lo, hi, len(shadeRunes))]), cellW))
		}
		lines = append(lines, b.String())
	}
	if len(xs) > 0 {
		lines = append(lines, dimStyle.Render("x: "+strings.Join(xs, ", ")))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("range %s .. %s", formatValue(lo), formatValue(hi))))
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Choropleth
// ---------------------------------------------------------------------------

type region struct {
	name  string
	value float64
}

func renderChoropleth(tr gjson.Result) string {
	names := strs(tr.Get("locations"))
	if texts := strs(tr.Get("text")); len(texts) == len(names) {
		names = texts
	}
	vs := floats(tr.Get("z"))
	n := min(len(names), len(vs))
	if n == 0 {
		return dimStyle.Render("(empty)")
	}

	regions := make([]region, n)
	for i := 0; i < n; i++ {
		regions[i] = region{name: names[i], value: vs[i]}
	}
	sort.SliceStable(regions, func(i, j int) bool { return regions[i].value > regions[j].value })

	var lines []string
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%d regions", n)))
	k := min(choroplethRows, n)
	lines = append(lines, "highest:")
	for _, r := range regions[:k] {
		lines = append(lines, fmt.Sprintf("  %s %s", posStyle.Render(formatValue(r.value)), r.name))
	}
	if n > choroplethRows {
		lines = append(lines, "lowest:")
		for i := n - 1; i >= n-k && i >= choroplethRows; i-- {
			lines = append(lines, fmt.Sprintf("  %s %s", negStyle.Render(formatValue(regions[i].value)), regions[i].name))
		}
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func strs(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, plainText(v.String()))
		return true
	})
	return out
}

func floats(r gjson.Result) []float64 {
	var out []float64
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.Float())
		return true
	})
	return out
}

func minMax(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// scale maps v in [lo, hi] onto 0..steps-1.
func scale(v, lo, hi float64, steps int) int {
	if hi <= lo {
		return steps - 1
	}
	i := int((v - lo) / (hi - lo) * float64(steps-1))
	return max(0, min(i, steps-1))
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return dashboard.FormatInt(int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// pad left-aligns s in exactly w display columns, truncating if needed.
func pad(s string, w int) string {
	if lipgloss.Width(s) > w {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r)) > w {
			r = r[:len(r)-1]
		}
		s = string(r)
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}

// plainText strips markup such as <b> and <br> from a label.
func plainText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte(' ')
			}
		}
	}
}
