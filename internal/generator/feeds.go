package generator

import (
	"sort"
	"strings"
	"time"

	"github.com/soygarfield/go-editorial/internal/sitemap"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const (
	feedFileName        = "feed.xml"
	defaultMaxFeedItems = 20
)

type feedItem struct {
	Title       string
	Link        string
	Description string
	Category    string
	PublishedAt time.Time
}

// feedItems selects the newest articles, most recent first.
func (s *service) feedItems(articles []*interfaces.Article) []feedItem {
	sorted := append([]*interfaces.Article(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	limit := s.cfg.FeedItems
	if limit <= 0 {
		limit = defaultMaxFeedItems
	}
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	items := make([]feedItem, 0, len(sorted))
	for _, article := range sorted {
		description := strings.TrimSpace(article.SEO.Description)
		if description == "" {
			description = strings.TrimSpace(article.Excerpt)
		}
		items = append(items, feedItem{
			Title:       article.Title,
			Link:        s.absoluteURL(articleRoute(article.Slug)),
			Description: description,
			Category:    article.Category,
			PublishedAt: article.PublishedAt,
		})
	}
	return items
}

// renderFeed assembles an RSS 2.0 channel. lastBuild is used when no item
// carries a publication date.
func (s *service) renderFeed(items []feedItem, lastBuild time.Time) []byte {
	if len(items) > 0 && !items[0].PublishedAt.IsZero() {
		lastBuild = items[0].PublishedAt
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	writeElement(&b, 4, "title", s.cfg.SiteName)
	writeElement(&b, 4, "link", s.absoluteURL("/"))
	writeElement(&b, 4, "description", s.cfg.Description)
	writeElement(&b, 4, "language", s.cfg.Language)
	writeElement(&b, 4, "lastBuildDate", lastBuild.UTC().Format(time.RFC1123Z))
	b.WriteString(`    <atom:link href="` + sitemap.EscapeXML(s.absoluteURL("/"+feedFileName)) + `" rel="self" type="application/rss+xml"/>` + "\n")
	for _, item := range items {
		b.WriteString("    <item>\n")
		writeElement(&b, 6, "title", item.Title)
		writeElement(&b, 6, "link", item.Link)
		b.WriteString(`      <guid isPermaLink="true">` + sitemap.EscapeXML(item.Link) + "</guid>\n")
		writeElement(&b, 6, "description", item.Description)
		writeElement(&b, 6, "category", item.Category)
		if !item.PublishedAt.IsZero() {
			writeElement(&b, 6, "pubDate", item.PublishedAt.UTC().Format(time.RFC1123Z))
		}
		b.WriteString("    </item>\n")
	}
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return []byte(b.String())
}

func writeElement(b *strings.Builder, indent int, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString("<" + name + ">")
	b.WriteString(sitemap.EscapeXML(value))
	b.WriteString("</" + name + ">\n")
}

func (s *service) renderRobots() []byte {
	return []byte("User-agent: *\nAllow: /\n\nSitemap: " + s.absoluteURL("/sitemap.xml") + "\n")
}
