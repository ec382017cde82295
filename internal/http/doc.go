// Package http serves the preview surface: rendered article and glossary
// pages, the generated sitemap, health and metrics endpoints, and an
// authenticated hook that triggers sitemap regeneration.
//
// Routes:
//   - GET  /                  home page
//   - GET  /article/{slug}    article page
//   - GET  /glosario/{slug}   glossary term page
//   - GET  /sitemap.xml       last generated sitemap
//   - POST /hooks/sitemap     regenerate the sitemap (Bearer token)
//   - GET  /healthz, /metrics
package http
