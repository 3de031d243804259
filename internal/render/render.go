// Package render turns the plain data computed by grid and aggregate
// into artifacts: SVG charts, the markdown report block, and a terminal
// preview. Renderers are pure functions of their inputs; identical data
// yields byte-identical output.
package render

import (
	"github.com/takagi171832/paper-readings/internal/model"
)

// Report bundles everything a renderer consumes.
type Report struct {
	Grid   model.Grid
	Counts []model.CategoryCount
	Total  int
	Recent []model.Entry
}

// Renderer produces the two chart artifacts from plain data. The SVG
// implementation below is the default; anything that can draw a bar
// chart and a week/day grid satisfies it.
type Renderer interface {
	CategoryChart(counts []model.CategoryCount) []byte
	Heatmap(g model.Grid) []byte
}
