package importcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const (
	importNDJSONMessageType   = "editorial.import.ndjson"
	importMarkdownMessageType = "editorial.import.markdown"
)

// ImportNDJSONCommand loads a content store export file.
type ImportNDJSONCommand struct {
	Path   string `json:"path"`
	Strict bool   `json:"strict,omitempty"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportNDJSONCommand) Type() string { return importNDJSONMessageType }

// Validate ensures a path to an .ndjson file is present.
func (cmd ImportNDJSONCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			path := strings.TrimSpace(value.(string))
			if !strings.HasSuffix(path, ".ndjson") && !strings.HasSuffix(path, ".jsonl") {
				return validation.NewError("editorial.import.ndjson.extension", "path must point to an .ndjson or .jsonl file")
			}
			return nil
		})),
	)
}

// ImportMarkdownCommand loads every Markdown entry under Directory.
type ImportMarkdownCommand struct {
	Directory     string `json:"directory"`
	Collection    string `json:"collection,omitempty"`
	IncludeDrafts bool   `json:"include_drafts,omitempty"`
	DryRun        bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportMarkdownCommand) Type() string { return importMarkdownMessageType }

// Validate ensures directory input is present and the default collection is
// publishable.
func (cmd ImportMarkdownCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("editorial.import.markdown.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Collection, validation.In(
			string(interfaces.CollectionArticle),
			string(interfaces.CollectionAuthor),
			string(interfaces.CollectionGlossary),
		)),
	)
}
