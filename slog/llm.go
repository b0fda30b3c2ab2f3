// Package slog wraps rageval services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rageval"
)

var (
	_ rageval.LLM       = (*LoggingLLM)(nil)
	_ rageval.Generator = (*LoggingLLM)(nil)
)

// LoggingLLM wraps an LLM with debug logging.
type LoggingLLM struct {
	next   rageval.LLM
	logger *slog.Logger
}

// NewLoggingLLM creates a new LoggingLLM.
func NewLoggingLLM(next rageval.LLM, logger *slog.Logger) *LoggingLLM {
	return &LoggingLLM{next: next, logger: logger}
}

// Call delegates to the wrapped LLM and logs the exchange sizes.
func (l *LoggingLLM) Call(ctx context.Context, prompt string) (text string, err error) {
	defer func(begin time.Time) {
		l.logger.Info("llm call",
			"prompt_chars", len(prompt),
			"response_chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Call(ctx, prompt)
}

// Generate runs prompts through Call so each one is logged.
func (l *LoggingLLM) Generate(ctx context.Context, prompts []string) (*rageval.LLMResult, error) {
	return rageval.Generate(ctx, l, prompts)
}
