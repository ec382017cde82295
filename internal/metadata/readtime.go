// Package metadata derives page metadata from entities: reading time, SEO
// head fields and schema.org structured data. Everything here is a pure
// function of its input.
package metadata

import (
	"fmt"
	"strings"

	"github.com/soygarfield/go-editorial/pkg/document"
)

// WordsPerMinute is the reading speed used for estimates.
const WordsPerMinute = 200

// DefaultReadTime is returned when there is no document to measure.
const DefaultReadTime = "3 min de lectura"

const readTimeFormat = "%d min de lectura"

// CountWords counts whitespace-delimited tokens in the spans of text blocks
// and list items, nested items included. Custom types are not counted.
func CountWords(doc document.Document) int {
	words := 0
	document.Walk(doc, func(node document.Node) bool {
		if node.Kind != document.KindBlock && node.Kind != document.KindListItem {
			return true
		}
		for _, span := range node.Spans {
			if span.Text == "" {
				continue
			}
			words += len(strings.Fields(span.Text))
		}
		return node.Kind == document.KindListItem
	})
	return words
}

// EstimateReadTime returns the "<n> min de lectura" label for doc, rounding
// minutes up. A nil document yields DefaultReadTime.
func EstimateReadTime(doc document.Document) string {
	if doc == nil {
		return DefaultReadTime
	}
	words := CountWords(doc)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return fmt.Sprintf(readTimeFormat, minutes)
}

// ReadTime returns override when it is set, otherwise the estimate for doc.
func ReadTime(override string, doc document.Document) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	return EstimateReadTime(doc)
}
