package editorial

import "github.com/soygarfield/go-editorial/internal/runtimeconfig"

const (
	SourceSanity = runtimeconfig.SourceSanity
	SourceSQLite = runtimeconfig.SourceSQLite
	SourceMemory = runtimeconfig.SourceMemory
)

type (
	Config        = runtimeconfig.Config
	SiteConfig    = runtimeconfig.SiteConfig
	SitemapConfig = runtimeconfig.SitemapConfig
	SourceConfig  = runtimeconfig.SourceConfig
	SanityConfig  = runtimeconfig.SanityConfig
	SQLiteConfig  = runtimeconfig.SQLiteConfig
	StaticConfig  = runtimeconfig.StaticConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	HTTPConfig    = runtimeconfig.HTTPConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file, expanding ${VAR} references.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
