package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/rageval"
)

// documents renders a document count, e.g. "1 document" or "3 documents".
func documents(n int) string {
	if n == 1 {
		return "1 document"
	}
	return fmt.Sprintf("%d documents", n)
}

// loadSummary is the stderr line printed after a load. tokens < 0 means
// no counter was configured.
func loadSummary(docs []*rageval.Document, tokens int) string {
	var size int
	for _, doc := range docs {
		size += len(doc.Content)
	}
	parts := []string{formatBytes(size)}
	if tokens >= 0 {
		parts = append(parts, formatTokens(tokens))
	}
	return fmt.Sprintf("Loaded %s (%s)", documents(len(docs)), strings.Join(parts, ", "))
}

// formatBytes uses binary units up to GB with one decimal.
func formatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	for _, unit := range []string{"KB", "MB"} {
		if v < 1024 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.1f GB", v)
}

// formatTokens rounds to the nearest thousand from 1000 up.
func formatTokens(n int) string {
	if n < 1000 {
		return fmt.Sprintf("~%d tokens", n)
	}
	return fmt.Sprintf("~%dk tokens", (n+500)/1000)
}
