package generator

import (
	"sort"
	"time"

	json "github.com/goccy/go-json"
)

const (
	manifestFileName    = ".editorial-manifest.json"
	manifestFileVersion = 1
)

// buildManifest records the checksum of every page written by the last
// successful build so unchanged pages can be skipped.
type buildManifest struct {
	Version     int                     `json:"version"`
	GeneratedAt time.Time               `json:"generated_at"`
	Pages       map[string]manifestPage `json:"pages"`
}

type manifestPage struct {
	Collection string    `json:"collection"`
	Slug       string    `json:"slug"`
	Output     string    `json:"output"`
	Checksum   string    `json:"checksum"`
	RenderedAt time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Pages:   map[string]manifestPage{},
	}
}

// parseManifest decodes a stored manifest. Unknown versions are discarded
// so the next build rewrites every page.
func parseManifest(data []byte) (*buildManifest, error) {
	manifest := newBuildManifest()
	if len(data) == 0 {
		return manifest, nil
	}
	if err := json.Unmarshal(data, manifest); err != nil {
		return newBuildManifest(), err
	}
	if manifest.Version != manifestFileVersion {
		return newBuildManifest(), nil
	}
	if manifest.Pages == nil {
		manifest.Pages = map[string]manifestPage{}
	}
	return manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func (m *buildManifest) unchanged(output, checksum string) bool {
	entry, ok := m.Pages[output]
	return ok && entry.Checksum == checksum
}

func (m *buildManifest) setPage(entry manifestPage) {
	m.Pages[entry.Output] = entry
}

// prune drops entries whose output was not produced by the current build
// and returns their paths, sorted.
func (m *buildManifest) prune(keep map[string]struct{}) []string {
	var stale []string
	for output := range m.Pages {
		if _, ok := keep[output]; !ok {
			stale = append(stale, output)
			delete(m.Pages, output)
		}
	}
	sort.Strings(stale)
	return stale
}
