package news

import (
	"fmt"
	"strings"

	"FinAssist/internal/domain/models"
)

func formatBlock(symbol, name string, items []models.NewsItem) string {
	var b strings.Builder

	if name != "" && !strings.EqualFold(name, symbol) {
		fmt.Fprintf(&b, "News for %s (%s):\n", name, symbol)
	} else {
		fmt.Fprintf(&b, "News for %s:\n", symbol)
	}

	noun := "articles"
	if len(items) == 1 {
		noun = "article"
	}
	fmt.Fprintf(&b, "%d recent %s:", len(items), noun)

	for i, it := range items {
		fmt.Fprintf(&b, "\n%d. %s", i+1, strings.TrimSpace(it.Title))
		if snippet := strings.TrimSpace(it.Snippet); snippet != "" {
			fmt.Fprintf(&b, "\n   %s", snippet)
		}
		source := strings.TrimSpace(it.Source)
		if source == "" {
			source = "Unknown"
		}
		if it.PublishedDate != "" {
			fmt.Fprintf(&b, "\n   Source: %s | Published: %s", source, it.PublishedDate)
		} else {
			fmt.Fprintf(&b, "\n   Source: %s", source)
		}
		if link := strings.TrimSpace(it.Link); link != "" {
			fmt.Fprintf(&b, "\n   Link: %s", link)
		}
	}
	return b.String()
}
