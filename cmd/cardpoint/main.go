package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/cardpoint"
	cpfs "github.com/fwojciec/cardpoint/fs"
	"github.com/fwojciec/cardpoint/gemini"
	"github.com/fwojciec/cardpoint/goquery"
	"github.com/fwojciec/cardpoint/htmltomarkdown"
	cphttp "github.com/fwojciec/cardpoint/http"
	"github.com/fwojciec/cardpoint/json5"
	"github.com/fwojciec/cardpoint/pipeline"
	"github.com/fwojciec/cardpoint/readability"
	"github.com/fwojciec/cardpoint/rod"
	cpslog "github.com/fwojciec/cardpoint/slog"
	"github.com/fwojciec/cardpoint/sqlite"
	"github.com/fwojciec/cardpoint/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv looks up environment variables. Values from the env file fill
	// in whatever it leaves empty.
	Getenv func(string) string

	// Set while a command runs.
	DB      *sqlite.DB
	Fetcher cardpoint.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv: os.Getenv,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
		m.Fetcher = nil
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("cardpoint"),
		kong.Description("Extract eligible stores from credit card reward pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'cardpoint --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	getenv, err := m.environ(cli.EnvFile)
	if err != nil {
		return err
	}

	logger, err := NewLogger(stderr, cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = logger

	cmd := kongCtx.Command()
	if strings.HasPrefix(cmd, "show") {
		return kongCtx.Run(deps)
	}

	cfg, err := LoadConfig(getenv, cli.Sources)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", cardpoint.ErrorMessage(err))
		return err
	}
	deps.Config = cfg
	logger.Debug("config loaded", "config", cfg.String())

	defer m.Close()

	switch cmd {
	case "run":
		if err := m.wireRun(ctx, deps, &cli.Run); err != nil {
			return err
		}
	case "cache":
		if err := m.wireFetch(deps, &cli.Cache.FetchFlags, cli.Cache.List); err != nil {
			return err
		}
	case "check-model":
		client, err := newClient(ctx, cfg, stderr)
		if err != nil {
			return err
		}
		deps.Models = client.Models
		deps.Generator = client.Models
	}

	return kongCtx.Run(deps)
}

// environ merges the env file, if present, under m.Getenv.
func (m *Main) environ(path string) (func(string) string, error) {
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if path == "" {
		return getenv, nil
	}

	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return getenv, nil
	}
	if err != nil {
		return nil, cardpoint.Errorf(cardpoint.ECONFIG, "read env file %s: %v", path, err)
	}

	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return vars[key]
	}, nil
}

func (m *Main) wireRun(ctx context.Context, deps *Dependencies, c *RunCmd) error {
	cfg := deps.Config
	logger := deps.Logger

	client, err := newClient(ctx, cfg, deps.Stderr)
	if err != nil {
		return err
	}

	if err := m.wireFetch(deps, &c.FetchFlags, false); err != nil {
		return err
	}

	model := gemini.ResolveModel(ctx, client.Models, cfg.ModelID)
	logger.Info("model resolved", "model", model, "configured", cfg.ModelID)

	reducerOpts := []goquery.Option{goquery.WithBudget(c.Budget)}
	switch c.Extractor {
	case "readability":
		reducerOpts = append(reducerOpts, goquery.WithExtractor(readability.NewExtractor()))
	case "trafilatura":
		reducerOpts = append(reducerOpts, goquery.WithExtractor(trafilatura.NewExtractor()))
	}

	analyzer := gemini.NewAnalyzer(client.Models, model, gemini.WithLogger(logger))

	driver := &pipeline.Driver{
		Fetcher:        deps.Fetcher,
		Cache:          deps.Cache,
		Reducer:        cpslog.NewLoggingReducer(goquery.NewReducer(reducerOpts...), logger),
		Analyzer:       cpslog.NewLoggingAnalyzer(analyzer, logger),
		Parser:         json5.NewParser(),
		Writer:         cpfs.NewResultWriter(c.Output),
		Copywriter:     gemini.NewCopywriter(client.Models, model),
		PromoExtractor: trafilatura.NewExtractor(),
		PromoConverter: htmltomarkdown.NewConverter(),
		Pacer:          pipeline.NewPacer(c.Pace),
		Logger:         logger,
		Model:          model,
	}

	if c.DebugDir != "" {
		driver.Debug = cpfs.NewDebugWriter(c.DebugDir)
	}

	if c.Tokens {
		counter, err := gemini.NewTokenCounter(gemini.TokenizerModel)
		if err != nil {
			logger.Warn("token counting disabled", "err", err)
		} else {
			driver.TokenCounter = counter
		}
	}

	deps.Driver = driver
	return nil
}

// wireFetch sets up the fetcher and the page cache. With storeOnly only
// the cache is opened.
func (m *Main) wireFetch(deps *Dependencies, flags *FetchFlags, storeOnly bool) error {
	logger := deps.Logger

	switch flags.Store {
	case "sqlite":
		m.DB = sqlite.NewDB(flags.DBPath)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", flags.DBPath, err)
		}
		snapshots := sqlite.NewSnapshotService(m.DB)
		deps.Snapshots = snapshots
		deps.Cache = cpslog.NewLoggingCache(snapshots, logger)
	default:
		deps.Cache = cpslog.NewLoggingCache(cpfs.NewCache(flags.CacheDir), logger)
	}

	if storeOnly {
		return nil
	}

	var fetcher cardpoint.Fetcher
	switch flags.Fetcher {
	case "browser":
		f, err := rod.NewFetcher(rod.WithFetchTimeout(flags.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	default:
		fetcher = cphttp.NewFetcher(cphttp.WithTimeout(flags.Timeout))
	}

	m.Fetcher = fetcher
	deps.Fetcher = cpslog.NewLoggingFetcher(fetcher, logger)
	return nil
}

func newClient(ctx context.Context, cfg *Config, stderr io.Writer) (*genai.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", cardpoint.ErrorMessage(err))
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Check your %s is valid\n", EnvAPIKey)
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

// NewLogger returns a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, cardpoint.Errorf(cardpoint.ECONFIG, "invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
