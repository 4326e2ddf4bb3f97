package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"fasttravel/pkg/completions"
	"fasttravel/pkg/config"
	"fasttravel/pkg/errors"
	"fasttravel/pkg/logger"

	"github.com/spf13/cobra"
)

const (
	unknownValue = "unknown"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

var defaultTimeout = 30 * time.Second
var globalTimeout time.Duration
var outputFormat string
var dryRunFlag bool
var assumeYesFlag bool
var logLevel string
var logConsole bool
var profileFlag string

var rootCmd = &cobra.Command{
	Use:   "fasttravel",
	Short: "Clickable /travel shortcuts for map coordinates in HTML pages",
	Long: `Finds coordinate pairs such as [12,-34] in the paragraphs of an HTML page,
wraps each one in a clickable span carrying a "/travel x,y" command, and copies
that command to the clipboard with a short confirmation toast.
Selectors and toast text come from ~/.config/fasttravel/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if globalTimeout <= 0 {
			globalTimeout = defaultTimeout
		}
		// Explicit flag takes precedence over env var
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if envLevel := os.Getenv("FASTTRAVEL_LOG_LEVEL"); envLevel != "" {
				level = envLevel
			}
		}
		if logConsole {
			logger.SetConsole(cmd.ErrOrStderr())
		}
		logger.SetLevel(level)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ver := Version
		if ver == "" {
			ver = "dev"
		}
		bt := BuildTime
		if bt == "" {
			bt = unknownValue
		}
		gc := GitCommit
		if gc == "" {
			gc = unknownValue
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "fasttravel version %s\n", ver)
		fmt.Fprintf(out, "Built: %s\n", bt)
		fmt.Fprintf(out, "Git commit: %s\n", gc)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitCode := errors.HandleReturn(err)
		os.Exit(int(exitCode))
	}
}

func GetContext() (context.Context, context.CancelFunc) {
	timeout := globalTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// loadConfig reads the config file with the --profile override applied.
func loadConfig() (*config.Config, error) {
	return config.Load(profileFlag)
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().DurationVar(&globalTimeout, "timeout", defaultTimeout, "Timeout for clipboard writes (e.g., 5s, 1m)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, modern, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be done without writing files")
	rootCmd.PersistentFlags().BoolVarP(&assumeYesFlag, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Human-readable log lines instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Configuration profile to use")

	completions.RegisterCompletions(rootCmd)
}
