package cmd

import (
	"fmt"
	"os"

	"fasttravel/pkg/config"
	"fasttravel/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	configProfileName string
	configSelector    string
	configSpanClass   string
	configAttribute   string
	configPrefix      string
	configMessage     string
	configForce       bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fasttravel configuration and profiles",
	Long:  `Manage fasttravel configuration, including per-site selector profiles.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after file, environment and profile are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Current Configuration:")
		fmt.Fprintln(out, "======================")
		fmt.Fprintf(out, "Active Profile: %s\n", func() string {
			if cfg.ActiveProfile == "" {
				return "(none)"
			}
			return cfg.ActiveProfile
		}())
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Paragraph selector: %s\n", cfg.Annotator.ParagraphSelector)
		fmt.Fprintf(out, "Span class: %s\n", cfg.Annotator.SpanClass)
		fmt.Fprintf(out, "Command attribute: %s\n", cfg.Annotator.Attribute)
		fmt.Fprintf(out, "Command prefix: %s\n", cfg.Annotator.Prefix)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Toast container: .%s\n", cfg.Toast.ContainerClass)
		fmt.Fprintf(out, "Toast image: %s\n", cfg.Toast.Image)
		fmt.Fprintf(out, "Toast message: %s\n", cfg.Toast.Message)
		fmt.Fprintf(out, "Toast duration: %dms\n", cfg.Toast.DurationMS)

		if len(cfg.Profiles) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Available Profiles:")
			for _, p := range cfg.Profiles {
				active := ""
				if cfg.IsProfileActive(p.Name) {
					active = " (active)"
				}
				fmt.Fprintf(out, "  - %s%s\n", p.Name, active)
			}
		}

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return errors.NewWithSuggestion(errors.ExitCodeConfig,
				fmt.Sprintf("config file already exists at %s", path),
				"Use --force to overwrite it.")
		}
		if err := config.SaveTo(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configProfilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "Manage configuration profiles",
	Long:    `List, add, remove, and switch between per-site selector profiles.`,
}

var configProfilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		profiles := cfg.ListProfiles()
		if len(profiles) == 0 {
			fmt.Fprintln(out, "No profiles configured.")
			fmt.Fprintln(out, "Use 'fasttravel config profiles add --name <name> --selector <css>' to create one.")
			return nil
		}

		fmt.Fprintln(out, "Profiles:")
		for _, name := range profiles {
			profile, _ := cfg.GetProfile(name)
			active := ""
			if cfg.IsProfileActive(name) {
				active = " *active*"
			}
			fmt.Fprintf(out, "  %s%s\n", name, active)
			if profile.Annotator.ParagraphSelector != "" {
				fmt.Fprintf(out, "    Selector: %s\n", profile.Annotator.ParagraphSelector)
			}
			if profile.Annotator.Prefix != "" {
				fmt.Fprintf(out, "    Prefix: %s\n", profile.Annotator.Prefix)
			}
		}

		return nil
	},
}

var configProfilesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new profile",
	Long:  `Add a selector profile for a site whose markup differs from the default.`,
	Example: `  # Wiki pages keep their text in plain <p> elements
  fasttravel config profiles add --name wiki --selector ".mw-parser-output p"

  # Another game client with a different command
  fasttravel config profiles add --name retro --prefix /tp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configProfileName == "" {
			return errors.ConfigError("profile name is required (--name)")
		}

		cfg, err := config.Load()
		if err != nil {
			cfg = &config.Config{}
		}

		profile := config.Profile{
			Name: configProfileName,
			Annotator: config.AnnotatorConfig{
				ParagraphSelector: configSelector,
				SpanClass:         configSpanClass,
				Attribute:         configAttribute,
				Prefix:            configPrefix,
			},
			Toast: config.ToastConfig{
				Message: configMessage,
			},
		}

		if err := cfg.AddProfile(profile); err != nil {
			return errors.ValidationError(err.Error())
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Profile '%s' added successfully.\n", configProfileName)
		fmt.Fprintf(out, "Use 'fasttravel config profiles use --name %s' to activate it.\n", configProfileName)

		return nil
	},
}

var configProfilesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configProfileName == "" {
			return errors.ConfigError("profile name is required (--name)")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if err := cfg.RemoveProfile(configProfileName); err != nil {
			return errors.ValidationError(err.Error())
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' removed successfully.\n", configProfileName)
		return nil
	},
}

var configProfilesUseCmd = &cobra.Command{
	Use:   "use",
	Short: "Switch to a profile",
	Long:  `Set the active profile for subsequent commands. An empty name clears it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if err := cfg.SetProfile(configProfileName); err != nil {
			return errors.ValidationError(err.Error())
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		if configProfileName == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Active profile cleared.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile '%s'.\n", configProfileName)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configProfilesAddCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (required)")
	configProfilesAddCmd.Flags().StringVar(&configSelector, "selector", "", "CSS selector of the paragraphs to scan")
	configProfilesAddCmd.Flags().StringVar(&configSpanClass, "span-class", "", "Class given to travel spans")
	configProfilesAddCmd.Flags().StringVar(&configAttribute, "attribute", "", "Attribute holding the travel command")
	configProfilesAddCmd.Flags().StringVar(&configPrefix, "prefix", "", "Chat command, e.g. /travel")
	configProfilesAddCmd.Flags().StringVar(&configMessage, "message", "", "Toast confirmation text")
	if err := configProfilesAddCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	configProfilesRemoveCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (required)")
	if err := configProfilesRemoveCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	configProfilesUseCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name, empty to clear")

	configProfilesCmd.AddCommand(configProfilesListCmd)
	configProfilesCmd.AddCommand(configProfilesAddCmd)
	configProfilesCmd.AddCommand(configProfilesRemoveCmd)
	configProfilesCmd.AddCommand(configProfilesUseCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configProfilesCmd)
	configCmd.AddCommand(configPathCmd)
}
