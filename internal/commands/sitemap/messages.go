package sitemapcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const generateMessageType = "editorial.sitemap.generate"

// Trigger names what started a generation run.
const (
	TriggerCLI      = "cli"
	TriggerSchedule = "schedule"
	TriggerHTTP     = "http"
	TriggerWebhook  = "webhook"
)

// GenerateCommand requests one sitemap generation run.
type GenerateCommand struct {
	Trigger string `json:"trigger"`
	// RequestID correlates the run with an upstream request, when there is one.
	RequestID string `json:"request_id,omitempty"`
}

// Type implements command.Message.
func (GenerateCommand) Type() string { return generateMessageType }

// Validate ensures the trigger is one of the known sources.
func (cmd GenerateCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Trigger, validation.Required, validation.In(TriggerCLI, TriggerSchedule, TriggerHTTP, TriggerWebhook)),
		validation.Field(&cmd.RequestID, validation.Length(0, 128)),
	)
}
