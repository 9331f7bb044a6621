package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/campuslink/campus/cli/pkg/prompter"
	"github.com/campuslink/campus/cli/pkg/service"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Direct message inbox",
}

var inboxWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch your conversations and unread count",
	Long:  "Print your conversation list whenever it changes. Press Ctrl-C to stop.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewMessagingService(rt).WatchInbox(ctx)
		})
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <partnerId>",
	Short: "Open a conversation",
	Long: `Open a conversation with another user. New messages are printed as
they arrive and every line you type is sent. End input (Ctrl-D) or press
Ctrl-C to leave.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewMessagingService(rt).Chat(ctx, args[0], prompter.Stdio())
		})
	},
}

func init() {
	inboxCmd.AddCommand(inboxWatchCmd)
}
