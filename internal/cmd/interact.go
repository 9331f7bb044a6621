package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuslink/campus/cli/pkg/content"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/service"
	"github.com/campuslink/campus/cli/pkg/toggle"
)

var saveCmd = toggleCommand("save", "Save or unsave a post", toggle.Saved)

var notifyCmd = toggleCommand("notify", "Turn update notifications for a post on or off", toggle.NotifySubscribed)

var witnessCmd = &cobra.Command{
	Use:   "witness [kind] <id>",
	Short: "Witness a lost-and-found report",
	Long: `Witness a lost-and-found report. Witnessing cannot be undone and is
not available for reports you filed yourself.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id := content.KindReport, args[0]
		if len(args) == 2 {
			k, err := parseKind(args[0])
			if err != nil {
				return err
			}
			kind, id = k, args[1]
		}
		return runToggle(cmd, kind, id, toggle.Witnessed)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <kind> <id>",
	Short: "Show saved, witness and notify state of a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewInteractionService(rt).Status(ctx, kind, args[1])
		})
	},
}

var witnessesCmd = &cobra.Command{
	Use:   "witnesses <reportId>",
	Short: "List who witnessed a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewInteractionService(rt).Witnesses(ctx, args[0])
		})
	},
}

func toggleCommand(use, short string, action toggle.Action) *cobra.Command {
	return &cobra.Command{
		Use:       use + " <kind> <id>",
		Short:     short,
		Args:      cobra.ExactArgs(2),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return runToggle(cmd, kind, args[1], action)
		},
	}
}

func runToggle(cmd *cobra.Command, kind content.Kind, id string, action toggle.Action) error {
	return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
		return service.NewInteractionService(rt).Toggle(ctx, kind, id, action)
	})
}

func parseKind(s string) (content.Kind, error) {
	kind, err := content.ParseKind(s)
	if err != nil {
		return "", apperrors.Validation("kind", fmt.Sprintf("%q is not a content kind", s)).
			WithSuggestion("Use one of: event, academic, report")
	}
	return kind, nil
}

func kindNames() []string {
	names := make([]string, 0, len(content.Kinds))
	for _, k := range content.Kinds {
		names = append(names, string(k))
	}
	return names
}
