package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/takagi171832/paper-readings/internal/config"
	"github.com/takagi171832/paper-readings/internal/model"
	"github.com/takagi171832/paper-readings/internal/readme"
)

const testDataset = `
- title: "Attention Is All You Need"
  category: ml
  date: "2024-06-15"
  link: https://arxiv.org/abs/1706.03762
- title: "Raft"
  category: systems
  date: "2024-05-20"
  link: https://raft.github.io/raft.pdf
- title: "Old Paper"
  category: systems
  date: "1999-01-01"
  link: https://example.com/old
`

func testSetup(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	dataPath := filepath.Join(dir, "papers.yml")
	if err := os.WriteFile(dataPath, []byte(testDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	readmePath := filepath.Join(dir, "README.md")
	doc := "# log\n\n" + readme.MarkStart + "\nstale\n" + readme.MarkEnd + "\n"
	if err := os.WriteFile(readmePath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Data = dataPath
	cfg.Readme = readmePath
	cfg.Assets = filepath.Join(dir, "assets")
	return cfg
}

func TestComputeInvariants(t *testing.T) {
	entries := []model.Entry{
		{Title: "a", Category: "ml", Date: "2024-06-15"},
		{Title: "b", Date: "2024-05-20"},
		{Title: "c", Category: "old", Date: "1999-01-01"},
	}
	today := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)

	rep := Compute(entries, today, 10)

	if rep.Total != 3 {
		t.Errorf("total = %d, want 3", rep.Total)
	}
	// Category counts conserve the full entry count even though the
	// grid only covers two of the entries.
	sum := 0
	for _, c := range rep.Counts {
		sum += c.Count
	}
	if sum != 3 {
		t.Errorf("category sum = %d, want 3", sum)
	}
	if rep.Grid.Total != 2 {
		t.Errorf("in-window total = %d, want 2", rep.Grid.Total)
	}
	if rep.Recent[0].Title != "a" {
		t.Errorf("most recent = %q, want a", rep.Recent[0].Title)
	}
}

func TestRunWritesArtifactsAndPatchesReadme(t *testing.T) {
	cfg := testSetup(t)
	b := NewBuilder(cfg)
	b.Date = "2024-12-30"

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{CategoryChartName, HeatmapName} {
		if _, err := os.Stat(filepath.Join(cfg.Assets, name)); err != nil {
			t.Errorf("artifact %s not written: %v", name, err)
		}
	}

	md, err := os.ReadFile(cfg.Readme)
	if err != nil {
		t.Fatal(err)
	}
	s := string(md)
	if strings.Contains(s, "stale") {
		t.Error("stale generated content survived")
	}
	for _, want := range []string{
		"![By category](assets/" + CategoryChartName + ")",
		"![Activity heatmap](assets/" + HeatmapName + ")",
		"**Breakdown**",
		"| systems | 2 |",
		"| **Total** | **3** |",
		"**Recently read**",
		"[Attention Is All You Need]",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("README missing %q:\n%s", want, s)
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	cfg := testSetup(t)
	b := NewBuilder(cfg)
	b.Date = "2024-12-30"
	ctx := context.Background()

	if err := b.Run(ctx); err != nil {
		t.Fatal(err)
	}
	readFile := func(p string) string {
		t.Helper()
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	md1 := readFile(cfg.Readme)
	chart1 := readFile(filepath.Join(cfg.Assets, CategoryChartName))
	heat1 := readFile(filepath.Join(cfg.Assets, HeatmapName))

	if err := b.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if readFile(cfg.Readme) != md1 ||
		readFile(filepath.Join(cfg.Assets, CategoryChartName)) != chart1 ||
		readFile(filepath.Join(cfg.Assets, HeatmapName)) != heat1 {
		t.Fatal("second run on unchanged input produced different artifacts")
	}
}

func TestRunFailsOnMissingMarkers(t *testing.T) {
	cfg := testSetup(t)
	if err := os.WriteFile(cfg.Readme, []byte("# no markers\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewBuilder(cfg)
	b.Date = "2024-12-30"
	if err := b.Run(context.Background()); err == nil {
		t.Fatal("Run should fail when the README has no markers")
	}

	got, _ := os.ReadFile(cfg.Readme)
	if string(got) != "# no markers\n" {
		t.Fatal("README modified despite marker failure")
	}
}

func TestTodayRejectsBadPin(t *testing.T) {
	b := NewBuilder(config.DefaultConfig())
	b.Date = "30-12-2024"
	if _, err := b.Today(); err == nil {
		t.Fatal("Today should reject a non-ISO pinned date")
	}
}
