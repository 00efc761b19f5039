package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"covidash/pkg/covidapi"
)

// AnalysisData is everything one analysis render cycle fetched.
type AnalysisData struct {
	NotableDays covidapi.Figure
	Dropdown    covidapi.Figure
	CorrMat     covidapi.Figure
}

// FetchAnalysis issues the analysis page requests concurrently.
func FetchAnalysis(ctx context.Context, src DataSource, f AnalysisFilters) (AnalysisData, error) {
	var (
		d AnalysisData
		g errgroup.Group
	)
	g.Go(func() (err error) { d.NotableDays, err = src.NotableDays(ctx, f.Source, f.NLP); return })
	g.Go(func() (err error) { d.Dropdown, err = src.DropdownFigure(ctx, f.Source, f.NLP, f.Chart); return })
	g.Go(func() (err error) { d.CorrMat, err = src.CorrMat(ctx, f.Source, f.NLP); return })

	if err := g.Wait(); err != nil {
		return AnalysisData{}, err
	}
	return d, nil
}

// ApplyAnalysis pushes a completed analysis fetch to the port.
func ApplyAnalysis(port Port, f AnalysisFilters, d AnalysisData) {
	port.RenderChart(WidgetNotableDays, d.NotableDays)
	port.RenderChart(WidgetDropdownFigure, d.Dropdown)
	port.RenderChart(WidgetCorrMat, d.CorrMat)

	port.SetImage(WidgetEmojiWordcloud, EmojiWordcloudPath(f.Source))
	port.SetImage(WidgetWordcloud, WordcloudPath(f.Source))
}

// RenderAnalysis runs one analysis render cycle.
func RenderAnalysis(ctx context.Context, src DataSource, port Port, f AnalysisFilters) error {
	d, err := FetchAnalysis(ctx, src, f)
	if err != nil {
		return fmt.Errorf("updating analysis data: %w", err)
	}
	ApplyAnalysis(port, f, d)
	return nil
}
