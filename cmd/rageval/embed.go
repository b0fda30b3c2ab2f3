package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/rageval"
)

// Run executes the embed command. Vectors print one JSON array per line,
// in input order.
func (c *EmbedCmd) Run(deps *Dependencies) error {
	vecs, err := deps.Embedder.EmbedDocuments(deps.Ctx, c.Texts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	for _, v := range vecs {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
