package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campuslink/campus/cli/pkg/prompter"
	"github.com/campuslink/campus/cli/pkg/service"
)

var assumeYes bool

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage comments on posts",
	Long:  "Add, edit, and remove comments on events, coursework and reports",
}

var addCommentCmd = &cobra.Command{
	Use:   "add <kind> <id> [text...]",
	Short: "Add a comment",
	Long:  "Add a comment to a post. Without text the comment is read from the terminal.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		text, err := commentText(args[2:])
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewCommentService(rt).CreateComment(ctx, kind, args[1], text)
		})
	},
}

var editCommentCmd = &cobra.Command{
	Use:   "edit <kind> <id> <commentId> [text...]",
	Short: "Edit one of your comments",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		text, err := commentText(args[3:])
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewCommentService(rt).EditComment(ctx, kind, args[1], args[2], text)
		})
	},
}

var removeCommentCmd = &cobra.Command{
	Use:     "rm <kind> <id> <commentId>",
	Aliases: []string{"delete"},
	Short:   "Remove one of your comments",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		if !assumeYes {
			ok, err := prompter.Stdio().PromptConfirm("Delete this comment?")
			if err != nil || !ok {
				return err
			}
		}
		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewCommentService(rt).DeleteComment(ctx, kind, args[1], args[2])
		})
	},
}

// commentText joins the remaining args, or prompts when there are none
func commentText(words []string) (string, error) {
	if len(words) > 0 {
		return strings.Join(words, " "), nil
	}
	return prompter.Stdio().PromptString("Comment: ")
}

func init() {
	removeCommentCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	commentCmd.AddCommand(addCommentCmd)
	commentCmd.AddCommand(editCommentCmd)
	commentCmd.AddCommand(removeCommentCmd)
}
