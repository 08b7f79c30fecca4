package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/pto-tracker/export"
	"github.com/warp/pto-tracker/generic"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import PERSON",
	Short: "Add the rows of an exported xlsx file to a person's entries",
	Long: `import reads a sheet in the export layout and adds every row for PERSON
as a new entry. Existing entries are kept; dates already on file are
reported as conflicts and left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "xlsx file to import")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(importFile)
	if err != nil {
		return err
	}
	defer f.Close()

	imported, err := export.ReadXLSX(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", importFile, err)
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.close()

	ctx := cmd.Context()
	person := generic.NormalizePerson(args[0])
	entries, err := svc.store.ListEntries(ctx, person)
	if err != nil {
		return err
	}
	original := generic.EntrySet{Person: person, Entries: entries}

	rows := original.Rows()
	onFile := original.Dates()
	var conflicts []generic.Date
	for _, e := range imported {
		if e.Person != "" && e.Person != person {
			continue
		}
		if onFile[e.Date] {
			conflicts = append(conflicts, e.Date)
			continue
		}
		onFile[e.Date] = true
		rows = append(rows, generic.EditedRow{Date: e.Date, Kind: e.Kind})
	}

	result, err := svc.reconciler.Save(ctx, original, rows)
	var dup *generic.DuplicateDateError
	if err != nil && !(errors.As(err, &dup) && result != nil) {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d imported\n", len(result.Plan.Inserts))
	for _, s := range result.Plan.Skipped {
		fmt.Fprintf(out, "skipped %s: weekend\n", s.Date.Display())
	}
	if dup != nil {
		conflicts = append(conflicts, dup.Dates...)
	}
	if len(conflicts) > 0 {
		return &generic.DuplicateDateError{Person: person, Dates: generic.SortDates(conflicts)}
	}
	return nil
}
