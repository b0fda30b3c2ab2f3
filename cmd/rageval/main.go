package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rageval"
	"github.com/fwojciec/rageval/fs"
	"github.com/fwojciec/rageval/gemini"
	"github.com/fwojciec/rageval/langchaingo"
	"github.com/fwojciec/rageval/lark"
	ragprom "github.com/fwojciec/rageval/prometheus"
	ragslog "github.com/fwojciec/rageval/slog"
	"github.com/fwojciec/rageval/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db / RAGEVAL_DB is not set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SourceService   rageval.SourceService
	DocumentService rageval.DocumentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rageval"),
		kong.Description("Load Lark documents and talk to model-garden backends for RAG evaluation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'rageval --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.Debug {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	var metrics *ragprom.Metrics
	if cli.MetricsFile != "" {
		metrics = ragprom.NewMetrics()
		defer func() {
			if werr := metrics.WriteToTextfile(cli.MetricsFile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	if needsDB(cmd, cli) {
		if err := m.openDB(cli.DB, stderr); err != nil {
			return err
		}
		defer m.Close()
		deps.Sources = m.SourceService
		deps.Documents = m.DocumentService
	}

	switch cmd {
	case "docs":
		deps.Exporter = func(dir string) rageval.DocumentWriter { return fs.NewWriter(dir) }
	case "load":
		if err := wireLoad(deps, cli, metrics); err != nil {
			return err
		}
	case "complete":
		llm, err := newLLM(ctx, cli.Backend)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", rageval.ErrorMessage(err))
			return err
		}
		if metrics != nil {
			llm = ragprom.NewInstrumentedLLM(llm, cli.Backend.LLMType, metrics)
		}
		if deps.Logger != nil {
			llm = ragslog.NewLoggingLLM(llm, deps.Logger)
		}
		deps.LLM = llm
	case "embed":
		embedder, err := newEmbedder(cli.Backend)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", rageval.ErrorMessage(err))
			return err
		}
		if metrics != nil {
			embedder = ragprom.NewInstrumentedEmbedder(embedder, cli.Backend.LLMType, metrics)
		}
		if deps.Logger != nil {
			embedder = ragslog.NewLoggingEmbedder(embedder, deps.Logger)
		}
		deps.Embedder = embedder
	}

	return kongCtx.Run(deps)
}

func needsDB(cmd string, cli *CLI) bool {
	switch cmd {
	case "sources", "docs":
		return true
	case "load":
		return cli.Load.Store
	}
	return false
}

func (m *Main) openDB(path string, stderr io.Writer) error {
	if path == "" {
		path = m.DBPath
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set RAGEVAL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.SourceService = sqlite.NewSourceService(m.DB)
	m.DocumentService = sqlite.NewDocumentService(m.DB)
	return nil
}

func wireLoad(deps *Dependencies, cli *CLI, metrics *ragprom.Metrics) error {
	if cli.Lark.AppID == "" || cli.Lark.AppSecret == "" {
		fmt.Fprintln(deps.Stderr, "Hint: Set LARK_APP_ID and LARK_APP_SECRET for your self-built Lark app")
		return rageval.Errorf(rageval.EINVALID, "LARK_APP_ID and LARK_APP_SECRET are required")
	}

	client := lark.NewClient(cli.Lark.AppID, cli.Lark.AppSecret,
		lark.WithBaseURL(cli.Lark.BaseURL),
		lark.WithRateLimit(cli.Load.RPS),
	)
	logger := deps.Logger
	deps.Loaders = func(kind rageval.SourceKind, token string) (rageval.DocumentLoader, error) {
		loader, err := lark.NewLoader(client, kind, token)
		if err != nil {
			return nil, err
		}
		if metrics != nil {
			loader = ragprom.NewInstrumentedLoader(loader, kind, metrics)
		}
		if logger != nil {
			loader = ragslog.NewLoggingLoader(loader, logger)
		}
		return loader, nil
	}

	if cli.Load.CountTokens {
		tc, err := newTokenCounter(cli.Load.Tokenizer, cli.Backend.LLMModel)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
			return err
		}
		deps.TokenCounter = tc
	}
	return nil
}

// newTokenCounter picks the tokenizer for --count-tokens. Tiktoken uses the
// configured chat model's encoding.
func newTokenCounter(name, model string) (rageval.TokenCounter, error) {
	switch name {
	case "", "gemini":
		return gemini.NewTokenCounter(gemini.TokenizerModel)
	case "tiktoken":
		return langchaingo.NewTokenCounter(model), nil
	}
	return nil, rageval.Errorf(rageval.EINVALID, "unsupported tokenizer %q", name)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rageval.db"
	}
	dir := filepath.Join(home, ".rageval")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "rageval.db")
}
