package main

import (
	"context"

	"github.com/fwojciec/rageval"
	"github.com/fwojciec/rageval/anthropic"
	"github.com/fwojciec/rageval/gemini"
	"github.com/fwojciec/rageval/modelgarden"
	"github.com/fwojciec/rageval/ollama"
	"google.golang.org/genai"
)

// Backend names accepted by --llm-type.
const (
	BackendModelGarden = "model_garden"
	BackendOllama      = "ollama"
	BackendGemini      = "gemini"
	BackendAnthropic   = "anthropic"
)

func newLLM(ctx context.Context, cfg BackendConfig) (rageval.LLM, error) {
	switch cfg.LLMType {
	case BackendModelGarden:
		if cfg.LLMURL == "" {
			return nil, rageval.Errorf(rageval.EINVALID, "LLM_URL is required for %s", BackendModelGarden)
		}
		return modelgarden.NewLLM(cfg.LLMURL, cfg.LLMModel), nil
	case BackendOllama:
		return ollama.NewLLM(ollama.Config{BaseURL: cfg.OllamaURL, Model: cfg.LLMModel}), nil
	case BackendGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, rageval.Errorf(rageval.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, rageval.Errorf(rageval.EUNAVAILABLE, "failed to connect to Gemini API: %v", err)
		}
		model := cfg.LLMModel
		if model == "" {
			model = gemini.DefaultModel
		}
		return gemini.NewLLM(client, model), nil
	case BackendAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, rageval.Errorf(rageval.EINVALID, "ANTHROPIC_API_KEY not set")
		}
		return anthropic.NewLLM(anthropic.Config{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.LLMURL,
			Model:   cfg.LLMModel,
		})
	}
	return nil, rageval.Errorf(rageval.EINVALID, "unsupported LLM type %q", cfg.LLMType)
}

func newEmbedder(cfg BackendConfig) (rageval.Embedder, error) {
	switch cfg.LLMType {
	case BackendModelGarden:
		if cfg.EmbeddingURL == "" {
			return nil, rageval.Errorf(rageval.EINVALID, "EMBEDDING_URL is required for %s", BackendModelGarden)
		}
		return modelgarden.NewEmbeddings(cfg.EmbeddingURL, cfg.EmbeddingModel), nil
	case BackendOllama:
		return ollama.NewEmbedder(ollama.Config{BaseURL: cfg.OllamaURL, Model: cfg.EmbeddingModel}), nil
	case BackendGemini, BackendAnthropic:
		return nil, rageval.Errorf(rageval.EINVALID, "%s has no embedding backend; use %s or %s", cfg.LLMType, BackendModelGarden, BackendOllama)
	}
	return nil, rageval.Errorf(rageval.EINVALID, "unsupported LLM type %q", cfg.LLMType)
}
