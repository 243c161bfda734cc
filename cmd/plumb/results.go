package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/plumb/internal/store"
)

func init() {
	resultsCmd := &cobra.Command{
		Use:   "results [run-id]",
		Short: "List stored analysis runs, or show one run's verdict",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResults,
	}
	resultsCmd.Flags().StringVar(&flagOutput, "output", ".plumb/results", "Results directory")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := context.Background()
	fs := store.NewFileStore(flagOutput)

	if len(args) == 0 {
		ids, err := fs.List(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	}

	id := args[0]
	verdict, err := fs.ReadVerdict(ctx, id)
	if err != nil {
		return err
	}
	sarifLog, err := fs.ReadSARIF(ctx, id)
	if err != nil {
		return err
	}

	findings := 0
	for _, run := range sarifLog.Runs {
		findings += len(run.Results)
	}

	doc := struct {
		ID       string         `json:"id"`
		Findings int            `json:"findings"`
		Verdict  *store.Verdict `json:"verdict"`
	}{ID: id, Findings: findings, Verdict: verdict}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
