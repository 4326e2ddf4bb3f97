package completions

import (
	"fmt"
	"strings"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/config"
	"fasttravel/pkg/page"

	"github.com/spf13/cobra"
)

type Completer struct {
	loadConfig func() (*config.Config, error)
}

func NewCompleter() *Completer {
	return &Completer{
		loadConfig: func() (*config.Config, error) { return config.Load() },
	}
}

func (c *Completer) CompleteFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := []string{
		"table\tPlain aligned columns",
		"modern\tCompact table with icons",
		"json\tJSON array of spans",
		"yaml\tYAML list of spans",
	}
	return c.filterPrefix(formats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteMode(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	modes := []string{
		"contains\tCase-insensitive substring",
		"exact\tCase-insensitive equality",
		"regex\tGo regular expression",
	}
	return c.filterPrefix(modes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteProfiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return c.filterPrefix(cfg.ListProfiles(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// CompleteSpanIndex completes the second argument of "copy <file> <index>"
// with the spans found in the file, described by their command.
func (c *Completer) CompleteSpanIndex(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	if len(args) > 1 || args[0] == "-" {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	p, err := page.Load(args[0])
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}

	spans, err := annotator.All(p, cfg.AnnotatorOptions())
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}

	items := make([]string, 0, len(spans))
	for _, s := range spans {
		items = append(items, fmt.Sprintf("%d\t%s", s.Index, s.Command))
	}
	return c.filterPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) filterPrefix(items []string, prefix string) []string {
	result := []string{}
	for _, item := range items {
		itemName := strings.Split(item, "\t")[0]
		if strings.HasPrefix(strings.ToLower(itemName), strings.ToLower(prefix)) {
			result = append(result, item)
		}
	}
	return result
}

func RegisterCompletions(rootCmd *cobra.Command) {
	completer := NewCompleter()

	rootCmd.RegisterFlagCompletionFunc("profile", completer.CompleteProfiles)

	if listCmd, _, _ := rootCmd.Find([]string{"list"}); listCmd != nil && listCmd != rootCmd {
		listCmd.RegisterFlagCompletionFunc("format", completer.CompleteFormat)
		listCmd.RegisterFlagCompletionFunc("mode", completer.CompleteMode)
	}

	if copyCmd, _, _ := rootCmd.Find([]string{"copy"}); copyCmd != nil && copyCmd != rootCmd {
		copyCmd.ValidArgsFunction = completer.CompleteSpanIndex
	}

	if useCmd, _, _ := rootCmd.Find([]string{"config", "profiles", "use"}); useCmd != nil && useCmd != rootCmd {
		useCmd.RegisterFlagCompletionFunc("name", completer.CompleteProfiles)
	}
}
