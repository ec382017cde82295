package editorial

import (
	"fmt"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	importcmd "github.com/soygarfield/go-editorial/internal/commands/importer"
	sitemapcmd "github.com/soygarfield/go-editorial/internal/commands/sitemap"
	staticcmd "github.com/soygarfield/go-editorial/internal/commands/static"
)

// CommandSubscription releases a handler registered with a dispatcher.
type CommandSubscription interface {
	Unsubscribe()
}

// CommandDispatcher receives the module's command handlers during New.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// GlobalDispatcher registers handlers with the process-wide go-command
// dispatcher so commands can be sent with dispatcher.Dispatch.
type GlobalDispatcher struct {
	// MaxRetries is applied to every subscription.
	MaxRetries int
}

// RegisterCommand subscribes one of the module's handlers.
func (d GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *sitemapcmd.GenerateHandler:
		return subscribe[sitemapcmd.GenerateCommand](h, d.MaxRetries), nil
	case *importcmd.NDJSONHandler:
		return subscribe[importcmd.ImportNDJSONCommand](h, d.MaxRetries), nil
	case *importcmd.MarkdownHandler:
		return subscribe[importcmd.ImportMarkdownCommand](h, d.MaxRetries), nil
	case *staticcmd.BuildSiteHandler:
		return subscribe[staticcmd.BuildSiteCommand](h, d.MaxRetries), nil
	default:
		return nil, fmt.Errorf("editorial: unsupported command handler %T", handler)
	}
}

func subscribe[T command.Message](handler command.Commander[T], retries int) CommandSubscription {
	if retries > 0 {
		return dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(retries))
	}
	return dispatcher.SubscribeCommand(handler)
}
