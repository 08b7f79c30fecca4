package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/pto-tracker/store/sqlite"
	"github.com/warp/pto-tracker/timeoff"
)

var (
	dbPath         string
	weekendPolicy  string
	conflictPolicy string
)

var rootCmd = &cobra.Command{
	Use:   "ptoctl",
	Short: "ptoctl: submit, edit and export sales rep PTO",
	Long: `ptoctl works on the same SQLite database as the PTO server.
Dates are YYYY-MM-DD. Weekends are never booked.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "pto.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&weekendPolicy, "weekend-policy", string(timeoff.WeekendReject), "weekend rows on save: reject | skip")
	rootCmd.PersistentFlags().StringVar(&conflictPolicy, "conflict-policy", string(timeoff.ConflictCommitValid), "date conflicts on save: commit-valid | abort")

	rootCmd.AddCommand(peopleCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(importCmd)
}

// services bundles what a command needs; close releases the database.
type services struct {
	store      *sqlite.Store
	submitter  *timeoff.Submitter
	reconciler *timeoff.Reconciler
}

func openServices() (*services, error) {
	policy, err := timeoff.ParsePolicy(weekendPolicy, conflictPolicy)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, err
	}
	return &services{
		store:      store,
		submitter:  timeoff.NewSubmitter(store, nil),
		reconciler: timeoff.NewReconciler(store, policy, nil),
	}, nil
}

func (s *services) close() { _ = s.store.Close() }
