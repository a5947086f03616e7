package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"routeboard/adapters/excel"
	"routeboard/domain/delivery"
	"routeboard/internal/config"
	"routeboard/internal/report"
	"routeboard/internal/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routeboard-importer",
		Short: "Routeboard CLI for running the delivery import pipeline offline",
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var statusFile string
	var snapshotPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [import-file]",
		Short: "Import a routes or fleet sheet and optionally reconcile a status export",
		Long: `Import a route-planner or fleet-management spreadsheet, optionally
reconcile it against a status export, and print the resulting records.

Example: routeboard-importer run romaneio.xlsx --status concluidos.xlsx --snapshot data/deliveries.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], statusFile, snapshotPath, asJSON)
		},
	}

	cmd.Flags().StringVar(&statusFile, "status", "", "status export to reconcile against the imported records")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "merge into and save the snapshot file at this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON instead of the summary digest")

	return cmd
}

func runImport(ctx context.Context, importFile, statusFile, snapshotPath string, asJSON bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rules, err := cfg.LoadRules()
	if err != nil {
		return err
	}

	// The two files decode independently, so read them concurrently.
	var importRows, statusRows []excel.Row
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		importRows, err = excel.NewDataReader(importFile).ReadRows()
		return err
	})
	if statusFile != "" {
		g.Go(func() error {
			var err error
			statusRows, err = excel.NewDataReader(statusFile).ReadNamedRows()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	records := rules.ImportRows(importRows)
	if len(records) == 0 {
		return fmt.Errorf("no importable rows found in %s", importFile)
	}

	if snapshotPath != "" {
		store := session.NewSnapshotStore(snapshotPath)
		existing, err := store.LoadAll(ctx)
		if err != nil {
			return err
		}
		records = delivery.MergeBatch(existing, records)
	}

	if len(statusRows) > 0 {
		records = rules.ReconcileStatus(records, statusRows)
	}

	if snapshotPath != "" {
		store := session.NewSnapshotStore(snapshotPath)
		if err := store.SaveAll(ctx, records); err != nil {
			return err
		}
	}

	if asJSON {
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Print(report.Build(records).Markdown())
	return nil
}
