package sanity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const defaultCDNHost = "https://cdn.sanity.io"

var (
	imageRefPattern = regexp.MustCompile(`^image-([A-Za-z0-9]+)-(\d+x\d+)-([a-z0-9]+)$`)
	fileRefPattern  = regexp.MustCompile(`^file-([A-Za-z0-9]+)-([a-z0-9]+)$`)
)

// AssetURLBuilder turns Sanity asset references into CDN URLs.
type AssetURLBuilder struct {
	ProjectID string
	Dataset   string
	CDNHost   string
}

// NewAssetURLBuilder returns a builder for the project and dataset in cfg.
func NewAssetURLBuilder(cfg Config) AssetURLBuilder {
	return AssetURLBuilder{ProjectID: cfg.ProjectID, Dataset: cfg.Dataset}
}

// ResolveAssetURL accepts image-<id>-<w>x<h>-<ext> and file-<id>-<ext>
// references. Absolute http(s) URLs are returned unchanged.
func (b AssetURLBuilder) ResolveAssetURL(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return ref, true
	}
	if b.ProjectID == "" || b.Dataset == "" {
		return "", false
	}

	host := strings.TrimRight(b.CDNHost, "/")
	if host == "" {
		host = defaultCDNHost
	}
	if m := imageRefPattern.FindStringSubmatch(ref); m != nil {
		return fmt.Sprintf("%s/images/%s/%s/%s-%s.%s", host, b.ProjectID, b.Dataset, m[1], m[2], m[3]), true
	}
	if m := fileRefPattern.FindStringSubmatch(ref); m != nil {
		return fmt.Sprintf("%s/files/%s/%s/%s.%s", host, b.ProjectID, b.Dataset, m[1], m[2]), true
	}
	return "", false
}

var _ interfaces.AssetResolver = AssetURLBuilder{}
