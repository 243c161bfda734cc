package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/plumb/internal/rules"
)

func init() {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules",
		Run:   runRules,
	}
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tCATEGORY\tDEFAULT\tTITLE")
	for _, d := range rules.All() {
		enabled := "on"
		if !d.EnabledByDefault {
			enabled = "off"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Severity, d.Category, enabled, d.Title)
	}
	w.Flush()
}
