package staticcmd

import (
	"github.com/soygarfield/go-editorial/internal/generator"
)

const (
	buildSiteMessageType = "editorial.static.build"
	diffSiteMessageType  = "editorial.static.diff"
)

// ResultCallback receives the build result when one is produced, including
// results of failed runs.
type ResultCallback func(*generator.BuildResult)

// BuildSiteCommand prerenders every public page into the output directory.
type BuildSiteCommand struct {
	Force          bool           `json:"force,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate is a no-op; every flag combination is valid.
func (BuildSiteCommand) Validate() error { return nil }

// DiffSiteCommand renders without writing to report which pages would change.
type DiffSiteCommand struct {
	Force          bool           `json:"force,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

func (DiffSiteCommand) Validate() error { return nil }
