package main

import (
	"fmt"

	"github.com/fwojciec/rageval"
	"github.com/fwojciec/rageval/langchaingo"
	"github.com/tmc/langchaingo/llms"
)

// Run executes the complete command.
func (c *CompleteCmd) Run(deps *Dependencies) error {
	text, err := c.complete(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}

func (c *CompleteCmd) complete(deps *Dependencies) (string, error) {
	if c.System == "" {
		return deps.LLM.Call(deps.Ctx, c.Prompt)
	}

	resp, err := langchaingo.NewModel(deps.LLM).GenerateContent(deps.Ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, c.System),
		llms.TextParts(llms.ChatMessageTypeHuman, c.Prompt),
	})
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}
