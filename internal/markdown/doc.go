// Package markdown loads Markdown files with YAML front matter into content
// entities whose bodies are converted to the editorial document model.
package markdown
