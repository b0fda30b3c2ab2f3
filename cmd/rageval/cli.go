package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/rageval"
)

// LoaderFunc builds the document loader for a source.
type LoaderFunc func(kind rageval.SourceKind, token string) (rageval.DocumentLoader, error)

// ExporterFunc builds the writer that exports stored documents to dir.
type ExporterFunc func(dir string) rageval.DocumentWriter

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	Logger       *slog.Logger
	Sources      rageval.SourceService
	Documents    rageval.DocumentService
	Loaders      LoaderFunc
	Exporter     ExporterFunc
	TokenCounter rageval.TokenCounter
	LLM          rageval.LLM
	Embedder     rageval.Embedder
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug       bool          `help:"Log model, embedding and loader calls to stderr"`
	DB          string        `name:"db" env:"RAGEVAL_DB" help:"SQLite database path (default ~/.rageval/rageval.db)"`
	MetricsFile string        `name:"metrics-file" env:"RAGEVAL_METRICS_FILE" help:"Write Prometheus metrics in text format to this file on exit"`
	Backend     BackendConfig `embed:"" group:"Backend"`
	Lark        LarkConfig    `embed:"" group:"Lark"`

	Load     LoadCmd     `cmd:"" help:"Load documents from a Lark doc, wiki node or wiki space"`
	Sources  SourcesCmd  `cmd:"" help:"List stored sources"`
	Docs     DocsCmd     `cmd:"" help:"List documents stored for a source"`
	Complete CompleteCmd `cmd:"" help:"Send one prompt to the configured LLM"`
	Embed    EmbedCmd    `cmd:"" help:"Embed texts with the configured embedding model"`
}

// BackendConfig selects and configures the model backend.
type BackendConfig struct {
	LLMType         string `name:"llm-type" env:"LLM_TYPE" default:"model_garden" help:"LLM backend: model_garden, ollama, gemini or anthropic"`
	LLMURL          string `name:"llm-url" env:"LLM_URL" help:"Model-garden chat completions URL (Anthropic: API base URL override)"`
	LLMModel        string `name:"llm-model" env:"LLM_MODEL" help:"Chat model name"`
	EmbeddingURL    string `name:"embedding-url" env:"EMBEDDING_URL" help:"Model-garden embeddings URL"`
	EmbeddingModel  string `name:"embedding-model" env:"EMBEDDING_MODEL" help:"Embedding model name"`
	OllamaURL       string `name:"ollama-url" env:"OLLAMA_URL" default:"http://localhost:11434" help:"Ollama server URL"`
	GeminiAPIKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	AnthropicAPIKey string `name:"anthropic-api-key" env:"ANTHROPIC_API_KEY" help:"Anthropic API key"`
}

// LarkConfig holds Lark app credentials.
type LarkConfig struct {
	AppID     string `name:"lark-app-id" env:"LARK_APP_ID" help:"Lark app ID"`
	AppSecret string `name:"lark-app-secret" env:"LARK_APP_SECRET" help:"Lark app secret"`
	BaseURL   string `name:"lark-base-url" env:"LARK_BASE_URL" default:"https://open.larksuite.com" help:"Lark Open API base URL"`
}

// LoadCmd is the "load" subcommand.
type LoadCmd struct {
	Kind        string  `arg:"" help:"Source kind: doc, wiki or space"`
	Token       string  `arg:"" help:"Document ID, wiki node token or space ID"`
	Store       bool    `short:"s" help:"Store documents in the database"`
	Force       bool    `short:"f" help:"Replace a source that was stored before"`
	Out         string  `short:"o" help:"Write markdown files to this directory"`
	CountTokens bool    `name:"count-tokens" help:"Report the token count of loaded content"`
	Tokenizer   string  `default:"gemini" enum:"gemini,tiktoken" help:"Tokenizer for --count-tokens: gemini or tiktoken"`
	RPS         float64 `name:"rps" default:"0" help:"Max Lark requests per second (0 = unlimited)"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	SourceID string `arg:"" help:"Source ID"`
	Full     bool   `help:"Show full document content"`
	Export   string `short:"o" help:"Write the stored documents as markdown files to this directory"`
}

// CompleteCmd is the "complete" subcommand.
type CompleteCmd struct {
	Prompt string `arg:"" help:"Prompt text"`
	System string `help:"System instruction sent ahead of the prompt"`
}

// EmbedCmd is the "embed" subcommand.
type EmbedCmd struct {
	Texts []string `arg:"" help:"Texts to embed"`
}
