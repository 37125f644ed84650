package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/unkn0wn-root/odatacomplete/internal/config"
	"github.com/unkn0wn-root/odatacomplete/internal/fetcher"
	"github.com/unkn0wn-root/odatacomplete/internal/history"
	"github.com/unkn0wn-root/odatacomplete/internal/httpclient"
	"github.com/unkn0wn-root/odatacomplete/internal/settings"
	"github.com/unkn0wn-root/odatacomplete/internal/telemetry"
	"github.com/unkn0wn-root/odatacomplete/internal/theme"
	"github.com/unkn0wn-root/odatacomplete/internal/tlsconfig"
	"github.com/unkn0wn-root/odatacomplete/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// pairList collects repeated -set key=value flags.
type pairList []string

func (p *pairList) String() string { return strings.Join(*p, ",") }

func (p *pairList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

var usageHeader = heredoc.Doc(`
	Usage: odatacomplete [flags]

	Interactive customer lookup against an OData service. Type part of a
	contact name, title or country; the five best matches are listed as you
	type. Settings are read from settings.toml (or settings.yaml) in the
	config directory, then ODATACOMPLETE_SET_* variables, then -set and the
	flags below.

	Flags:
`)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without os.Exit, so deferred cleanup always happens before the
// process exits with the returned code.
func run(args []string, stdout, stderr io.Writer) int {
	var (
		baseURL       string
		timeout       time.Duration
		proxyURL      string
		insecure      bool
		pairs         pairList
		writeSettings bool
		showVersion   bool
	)

	fs := flag.NewFlagSet("odatacomplete", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageHeader)
		fs.PrintDefaults()
	}
	fs.StringVar(&baseURL, "base-url", "", "OData service root (overrides settings)")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	fs.StringVar(&proxyURL, "proxy", "", "HTTP proxy URL")
	fs.BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification")
	fs.Var(&pairs, "set", "Override a setting as key=value (repeatable)")
	fs.BoolVar(&writeSettings, "write-settings", false, "Write the effective settings to the settings file and exit")
	fs.BoolVar(&showVersion, "version", false, "Show odatacomplete version")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "odatacomplete %s\n", version)
		fmt.Fprintf(stdout, "  commit: %s\n", commit)
		fmt.Fprintf(stdout, "  built:  %s\n", date)
		return 0
	}

	cfg, handle, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "settings load error: %v\n", err)
		cfg = config.DefaultSettings()
	}

	overrides := settings.Merge(
		settings.FromEnviron(os.Environ(), settings.EnvPrefix),
		settings.FromPairs(pairs),
		explicitFlags(fs),
	)
	unknown, err := settings.ForSettings(&cfg).ApplyAll(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	for _, key := range sortedKeys(unknown) {
		fmt.Fprintf(stderr, "ignoring unknown setting %q\n", key)
	}
	cfg = cfg.Normalize()

	if writeSettings {
		if err := config.SaveSettings(cfg, handle); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "settings written to %s\n", handle.Path)
		return 0
	}

	logger, closeLog := openLogger(cfg.LogLevel)
	defer closeLog()

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, telemetry.ConfigFromEnv(os.Getenv).WithVersion(version))
	if err != nil {
		logger.Warn("telemetry disabled", "err", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown", "err", err)
		}
	}()

	store := history.NewStore(config.HistoryPath(), cfg.HistoryLimit)
	if err := store.Open(ctx); err != nil {
		logger.Warn("history unavailable", "path", config.HistoryPath(), "err", err)
		store = nil
	} else {
		defer func() { _ = store.Close() }()
		if age := cfg.HistoryMaxAgeDuration(); age > 0 {
			if n, err := store.PruneBefore(ctx, time.Now().Add(-age)); err != nil {
				logger.Warn("prune history", "err", err)
			} else if n > 0 {
				logger.Info("pruned history", "removed", n, "max_age", cfg.HistoryMaxAge)
			}
		}
	}

	f := fetcher.New(httpclient.NewClient(),
		fetcher.WithBaseURL(cfg.BaseURL),
		fetcher.WithEntitySet(cfg.EntitySet),
		fetcher.WithFields(cfg.Fields...),
		fetcher.WithHTTPOptions(httpclient.Options{
			Timeout:   cfg.TimeoutDuration(),
			ProxyURL:  cfg.Proxy,
			UserAgent: "odatacomplete/" + version,
			BaseDir:   config.Dir(),
			TLS: tlsconfig.Files{
				RootCAs:     cfg.RootCAs,
				ClientCert:  cfg.ClientCert,
				ClientKey:   cfg.ClientKey,
				Insecure:    cfg.Insecure,
				SystemRoots: cfg.SystemRoots,
			},
		}),
		fetcher.WithLogger(logger),
	)

	th := theme.DefaultTheme()
	model := ui.New(ui.Config{
		Fetcher:    f,
		History:    store,
		Theme:      &th,
		Logger:     logger,
		ServiceURL: serviceURL(cfg),
	})
	defer model.Close()

	logger.Info("starting", "version", version, "service", serviceURL(cfg), "settings", handle.Path)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// explicitFlags maps the flags given on the command line to setting keys so
// they win over the settings file and environment.
func explicitFlags(fs *flag.FlagSet) map[string]string {
	out := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base-url":
			out["base_url"] = f.Value.String()
		case "timeout", "proxy", "insecure":
			out[f.Name] = f.Value.String()
		}
	})
	return out
}

func openLogger(level string) (*log.Logger, func()) {
	path := config.LogPath()
	var (
		w       io.Writer = io.Discard
		closeFn           = func() {}
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = file
			closeFn = func() { _ = file.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "odatacomplete",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closeFn
}

func serviceURL(cfg config.Settings) string {
	if joined, err := url.JoinPath(cfg.BaseURL, cfg.EntitySet); err == nil {
		return joined
	}
	return cfg.BaseURL
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
