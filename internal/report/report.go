// Package report runs the full build pipeline: dataset -> aggregates +
// activity grid -> SVG artifacts -> README splice. The serve mode reuses
// it for scheduled rebuilds.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/takagi171832/paper-readings/internal/aggregate"
	"github.com/takagi171832/paper-readings/internal/clock"
	"github.com/takagi171832/paper-readings/internal/config"
	"github.com/takagi171832/paper-readings/internal/grid"
	appLog "github.com/takagi171832/paper-readings/internal/log"
	"github.com/takagi171832/paper-readings/internal/model"
	"github.com/takagi171832/paper-readings/internal/readme"
	"github.com/takagi171832/paper-readings/internal/render"
	"github.com/takagi171832/paper-readings/internal/store"
)

const (
	CategoryChartName = "category_stylish.svg"
	HeatmapName       = "activity_heatmap.svg"
)

// Builder runs builds against one configuration.
type Builder struct {
	Cfg *config.Config

	// Date pins the reference date (ISO YYYY-MM-DD) instead of resolving
	// "today" through the timezone chain. Empty means resolve normally.
	Date string

	Renderer render.Renderer
}

// NewBuilder returns a Builder with the default SVG renderer.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{Cfg: cfg, Renderer: render.SVGRenderer{}}
}

// Today resolves the reference date for this builder.
func (b *Builder) Today() (time.Time, error) {
	if b.Date != "" {
		t, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid reference date %q: %w", b.Date, err)
		}
		return t, nil
	}
	return clock.Today(b.Cfg.Timezone), nil
}

// Compute derives all report data from the given entries and reference
// date. It never fails: unparseable dates are excluded from the grid and
// sort oldest in the recent list.
func Compute(entries []model.Entry, today time.Time, recentLimit int) render.Report {
	window := model.NewWindow(today)
	counts := aggregate.Categorize(entries)
	return render.Report{
		Grid:   grid.Build(entries, window),
		Counts: aggregate.SortedCounts(counts),
		Total:  len(entries),
		Recent: aggregate.Recent(entries, recentLimit),
	}
}

// Load opens the configured dataset and computes the report data.
func (b *Builder) Load(ctx context.Context) (render.Report, error) {
	ds, err := store.Open(ctx, b.Cfg.Data, b.Cfg.CacheDir)
	if err != nil {
		return render.Report{}, err
	}
	today, err := b.Today()
	if err != nil {
		return render.Report{}, err
	}
	return Compute(ds.Entries, today, b.Cfg.RecentLimit), nil
}

// Run executes one full build: write both SVG artifacts and splice the
// report block into the README. Artifact writes happen before the splice
// so a failed splice never leaves the README pointing at stale charts.
func (b *Builder) Run(ctx context.Context) error {
	rep, err := b.Load(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.Cfg.Assets, 0o755); err != nil {
		return fmt.Errorf("create assets dir: %w", err)
	}

	chartPath := filepath.Join(b.Cfg.Assets, CategoryChartName)
	heatPath := filepath.Join(b.Cfg.Assets, HeatmapName)

	if err := os.WriteFile(chartPath, b.Renderer.CategoryChart(rep.Counts), 0o644); err != nil {
		return fmt.Errorf("write category chart: %w", err)
	}
	if err := os.WriteFile(heatPath, b.Renderer.Heatmap(rep.Grid), 0o644); err != nil {
		return fmt.Errorf("write heatmap: %w", err)
	}

	block := render.ReportBlock(
		relToReadme(b.Cfg.Readme, chartPath),
		relToReadme(b.Cfg.Readme, heatPath),
		rep,
	)
	if err := readme.Patch(b.Cfg.Readme, block); err != nil {
		return err
	}

	appLog.Info("report built",
		"entries", rep.Total,
		"in_window", rep.Grid.Total,
		"categories", len(rep.Counts),
		"readme", b.Cfg.Readme,
	)
	return nil
}

// relToReadme computes the image reference path relative to the README's
// directory, falling back to the asset path itself.
func relToReadme(readmePath, assetPath string) string {
	rel, err := filepath.Rel(filepath.Dir(readmePath), assetPath)
	if err != nil {
		return assetPath
	}
	return filepath.ToSlash(rel)
}
