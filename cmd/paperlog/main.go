package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takagi171832/paper-readings/internal/capture"
	"github.com/takagi171832/paper-readings/internal/config"
	"github.com/takagi171832/paper-readings/internal/ical"
	appLog "github.com/takagi171832/paper-readings/internal/log"
	"github.com/takagi171832/paper-readings/internal/render"
	"github.com/takagi171832/paper-readings/internal/report"
	"github.com/takagi171832/paper-readings/internal/store"
	"github.com/takagi171832/paper-readings/internal/web"
)

// flagConfig holds CLI flag values; file config is merged on top of its
// defaults, and non-empty flags override the file.
type flagConfig struct {
	configPath string

	data   string
	readme string
	assets string
	tz     string
	date   string
	listen string
	out    string

	validate   bool
	export     bool
	ics        bool
	serve      bool
	term       bool
	capture    bool
	initConfig bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyOverrides(conf, flags)
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Debug("effective config",
		"data", conf.Data,
		"readme", conf.Readme,
		"assets", conf.Assets,
		"timezone", conf.Timezone,
		"listen", conf.Listen,
		"refresh", conf.Refresh,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	builder := report.NewBuilder(conf)
	builder.Date = flags.date

	switch {
	case flags.initConfig:
		if err := conf.Save(flags.configPath); err != nil {
			appLog.Error("failed to write config", err, "config_path", flags.configPath)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", flags.configPath)
	case flags.validate:
		os.Exit(runValidate(ctx, conf))
	case flags.export:
		os.Exit(runExport(ctx, conf, flags.out))
	case flags.ics:
		os.Exit(runICS(ctx, conf, flags.out))
	case flags.term:
		os.Exit(runTerm(ctx, builder))
	case flags.serve:
		if err := web.Serve(ctx, conf, builder); err != nil {
			appLog.Error("server failed", err)
			os.Exit(1)
		}
	case flags.capture:
		os.Exit(runCapture(ctx, conf, builder, flags.out))
	default:
		if err := builder.Run(ctx); err != nil {
			appLog.Error("build failed", err)
			os.Exit(1)
		}
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "paperlog.yaml", "Path to config file")
	flag.StringVar(&cfg.data, "data", "", "Dataset path or http(s) URL (overrides config)")
	flag.StringVar(&cfg.readme, "readme", "", "Target README path (overrides config)")
	flag.StringVar(&cfg.assets, "assets", "", "Assets output directory (overrides config)")
	flag.StringVar(&cfg.tz, "tz", "", "Explicit IANA timezone for resolving today (overrides config)")
	flag.StringVar(&cfg.date, "date", "", "Pin the reference date (YYYY-MM-DD) for reproducible builds")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config)")
	flag.StringVar(&cfg.out, "out", "", "Output path for -export / -ics / -capture")

	flag.BoolVar(&cfg.validate, "validate", false, "Validate the dataset and exit")
	flag.BoolVar(&cfg.export, "export", false, "Export the dataset as JSON and exit")
	flag.BoolVar(&cfg.ics, "ics", false, "Export the dataset as an iCalendar feed and exit")
	flag.BoolVar(&cfg.serve, "serve", false, "Run the preview HTTP server with scheduled rebuilds")
	flag.BoolVar(&cfg.term, "term", false, "Render the report to the terminal and exit")
	flag.BoolVar(&cfg.capture, "capture", false, "Build, serve briefly and screenshot the report page to PNG")
	flag.BoolVar(&cfg.initConfig, "init-config", false, "Write a starter config file to -config and exit")

	flag.Parse()

	return cfg
}

func applyOverrides(conf *config.Config, flags flagConfig) {
	if flags.data != "" {
		conf.Data = flags.data
	}
	if flags.readme != "" {
		conf.Readme = flags.readme
	}
	if flags.assets != "" {
		conf.Assets = flags.assets
	}
	if flags.tz != "" {
		conf.Timezone = flags.tz
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
}

// runValidate checks every record and reports the complete error set:
// one ERROR line per invalid field on stderr, WARN lines on stdout.
// Exit code is non-zero iff any error was found.
func runValidate(ctx context.Context, conf *config.Config) int {
	ds, err := store.Open(ctx, conf.Data, conf.CacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	res := ds.Validate()
	for _, m := range res.Messages {
		if m.Warn {
			fmt.Printf("WARN: %s\n", m.Text)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", m.Text)
		}
	}

	if !res.OK() {
		fmt.Fprintf(os.Stderr, "ERROR: validation failed with %d error(s)\n", len(res.Errors))
		return 1
	}
	fmt.Printf("Validated %d entries successfully.\n", len(ds.Items))
	return 0
}

func runExport(ctx context.Context, conf *config.Config, out string) int {
	if out == "" {
		out = "data/papers.json"
	}
	ds, err := store.Open(ctx, conf.Data, conf.CacheDir)
	if err != nil {
		appLog.Error("export failed", err)
		return 1
	}
	if err := ds.ExportJSON(out); err != nil {
		appLog.Error("export failed", err)
		return 1
	}
	fmt.Printf("Wrote %s (%d entries)\n", out, len(ds.Items))
	return 0
}

func runICS(ctx context.Context, conf *config.Config, out string) int {
	if out == "" {
		out = "data/papers.ics"
	}
	ds, err := store.Open(ctx, conf.Data, conf.CacheDir)
	if err != nil {
		appLog.Error("ics export failed", err)
		return 1
	}
	cal := ical.Export(ds.Entries)
	if err := os.WriteFile(out, ical.Serialize(cal), 0o644); err != nil {
		appLog.Error("ics export failed", err)
		return 1
	}
	fmt.Printf("Wrote %s (%d entries)\n", out, len(ds.Entries))
	return 0
}

func runTerm(ctx context.Context, builder *report.Builder) int {
	rep, err := builder.Load(ctx)
	if err != nil {
		appLog.Error("terminal report failed", err)
		return 1
	}
	fmt.Print(render.TermReport(rep))
	return 0
}

// runCapture builds the artifacts, serves them on the configured listen
// address just long enough to screenshot the report page, and exits.
func runCapture(ctx context.Context, conf *config.Config, builder *report.Builder, out string) int {
	if out == "" {
		out = "assets/report.png"
	}
	if err := builder.Run(ctx); err != nil {
		appLog.Error("build failed", err)
		return 1
	}

	// Bind before navigating so the page is reachable as soon as the
	// capture starts.
	ln, err := net.Listen("tcp", conf.Listen)
	if err != nil {
		appLog.Error("listen failed", err, "addr", conf.Listen)
		return 1
	}
	srv := &http.Server{
		Handler: web.NewServer(conf, builder).Handler(),
	}
	go func() {
		_ = srv.Serve(ln)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err = capture.CaptureReportPNG(ctx, capture.CaptureOptions{
		URL:        "http://" + ln.Addr().String() + "/",
		OutputPath: out,
	})
	if err != nil {
		appLog.Error("capture failed", err)
		return 1
	}
	appLog.Info("report captured", "out", out)
	return 0
}
