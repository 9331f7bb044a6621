package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/service"
)

var (
	feedOnce  bool
	feedKinds []string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Feed commands",
	Long:  "View the combined feed of events, coursework and reports",
}

var feedWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the campus feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := make([]content.Kind, 0, len(feedKinds))
		for _, s := range feedKinds {
			k, err := parseKind(s)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}

		return withRuntime(cmd, func(ctx context.Context, rt *service.Runtime) error {
			return service.NewFeedService(rt).Watch(ctx, kinds, feedOnce)
		})
	},
}

func init() {
	feedWatchCmd.Flags().BoolVar(&feedOnce, "once", false, "Print the feed once and exit")
	feedWatchCmd.Flags().StringSliceVar(&feedKinds, "kind", nil, "Only show these kinds (event, academic, report)")

	feedCmd.AddCommand(feedWatchCmd)
}
