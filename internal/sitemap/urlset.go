package sitemap

import (
	"strconv"
	"strings"
	"time"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	imageNamespace   = "http://www.google.com/schemas/sitemap-image/1.1"
)

// ChangeFreq is the sitemap protocol change frequency hint.
type ChangeFreq string

const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

// Entry is a single <url> element.
type Entry struct {
	Loc        string
	LastMod    string
	ChangeFreq ChangeFreq
	Priority   float64
	Image      *Image
}

// Image is the image-extension block attached to an entry.
type Image struct {
	Loc   string
	Title string
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeXML escapes &, < and > in a single pass, so ampersands introduced
// by the replacement are never escaped again.
func EscapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

// FormatDate truncates t to its UTC calendar date. A zero time yields
// fallback.
func FormatDate(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.UTC().Format(time.DateOnly)
}

// renderURLSet writes the urlset document for entries.
func renderURLSet(entries []Entry) []byte {
	var builder strings.Builder
	builder.Grow(len(entries) * 192)

	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="` + sitemapNamespace + `" xmlns:image="` + imageNamespace + `">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString("    <loc>" + EscapeXML(entry.Loc) + "</loc>\n")
		if entry.LastMod != "" {
			builder.WriteString("    <lastmod>" + entry.LastMod + "</lastmod>\n")
		}
		if entry.ChangeFreq != "" {
			builder.WriteString("    <changefreq>" + string(entry.ChangeFreq) + "</changefreq>\n")
		}
		builder.WriteString("    <priority>" + strconv.FormatFloat(entry.Priority, 'f', 1, 64) + "</priority>\n")
		if entry.Image != nil {
			builder.WriteString("    <image:image>\n")
			builder.WriteString("      <image:loc>" + EscapeXML(entry.Image.Loc) + "</image:loc>\n")
			if entry.Image.Title != "" {
				builder.WriteString("      <image:title>" + EscapeXML(entry.Image.Title) + "</image:title>\n")
			}
			builder.WriteString("    </image:image>\n")
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString("</urlset>\n")
	return []byte(builder.String())
}
