package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campuslink/campus/cli/pkg/auth"
	"github.com/campuslink/campus/cli/pkg/client"
	"github.com/campuslink/campus/cli/pkg/config"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/output"
	"github.com/campuslink/campus/cli/pkg/service"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "campus-cli",
	Short: "Campus CLI - events, coursework and lost & found",
	Long: `Campus CLI is a command-line client for the campus social platform.
Save and follow posts, witness lost-and-found reports, comment, and
keep an eye on your inbox directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		if outputFmt != "" {
			if !output.ValidateOutputFormat(outputFmt) {
				return apperrors.Validation("output", fmt.Sprintf("unknown format %q", outputFmt)).
					WithSuggestion("Use one of: text, json, table")
			}
			config.Set("output.format", outputFmt)
		}
		if logLevel != "" {
			config.Set("log.level", logLevel)
		}

		settings := config.Load()
		logger.Init(settings.LogLevel, settings.LogFile, verbose)
		logger.Debug("Config loaded", "base_url", settings.BaseURL, "output", settings.OutputFormat)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, apperrors.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/campus/cli/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "Output format: text, json, table")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(witnessCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(witnessesCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(inboxCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(versionCmd)
}

// signalContext is cancelled on Ctrl-C or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// withRuntime builds a signed-in runtime for one command, runs fn and
// clears the stored token when the server refuses it.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *service.Runtime) error) error {
	session := auth.NewSession()
	token, err := session.Token()
	if err != nil {
		return err
	}

	rt := service.NewRuntime(config.Load(), output.Default())
	client.SetAuthToken(token)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return session.HandleSessionError(fn(ctx, rt))
}
