package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aleister1102/urlpurifier/internal/blocklist"
)

func newBlocklistCmd(a *app) *cobra.Command {
	var strong, amazon bool

	cmd := &cobra.Command{
		Use:   "blocklist [NAME...]",
		Short: "Print the parameter lists active for the given modes, or check parameter names against them",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := a.cfg.ModeConfig
			if cmd.Flags().Changed("strong") {
				mode.StrongBlocklist = strong
			}
			if cmd.Flags().Changed("amazon") {
				mode.AmazonMode = amazon
			}

			if len(args) > 0 {
				checkNames(a, args, blocklist.Mode{Strong: mode.StrongBlocklist, Amazon: mode.AmazonMode})
				return nil
			}

			prefixes := blocklist.CommonPrefixes()
			if mode.AmazonMode {
				prefixes = append(prefixes, blocklist.AmazonPrefix)
			}
			printSection(a, "prefixes", prefixes)
			printSection(a, "common", blocklist.CommonNames())
			if mode.StrongBlocklist {
				printSection(a, "strong", blocklist.StrongNames())
			}
			if mode.AmazonMode {
				printSection(a, "amazon", blocklist.AmazonNames())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strong, "strong", false, "Include the strong blocklist")
	cmd.Flags().BoolVar(&amazon, "amazon", false, "Include the Amazon blocklist and prefix")
	return cmd
}

func printSection(a *app, title string, names []string) {
	fmt.Fprintf(a.stdout, "# %s\n%s\n", title, strings.Join(names, "\n"))
}

// checkNames prints one "name<TAB>blocked|kept" line per parameter name
func checkNames(a *app, names []string, mode blocklist.Mode) {
	for _, name := range names {
		verdict := "kept"
		if blocklist.IsBlocked(name, mode) {
			verdict = "blocked"
		}
		fmt.Fprintf(a.stdout, "%s\t%s\n", name, verdict)
	}
}
