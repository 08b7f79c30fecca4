package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/pto-tracker/export"
	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/timeoff"
)

// =============================================================================
// LIST
// =============================================================================

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list PERSON",
	Short: "List a person's PTO entries, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

// =============================================================================
// SUBMIT
// =============================================================================

var (
	submitFrom    string
	submitTo      string
	submitHalfDay bool
)

var submitCmd = &cobra.Command{
	Use:   "submit PERSON",
	Short: "Book PTO on every weekday of a date range",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

// =============================================================================
// SAVE
// =============================================================================

var saveFile string

var saveCmd = &cobra.Command{
	Use:   "save PERSON",
	Short: "Apply an edited table (JSON rows) to a person's entries",
	Long: `save reads the edited table in the format list --format json writes:

  {"original_ids": ["<id>", "<id>"],
   "rows": [{"id": "<id>", "date": "2024-01-03", "kind": "Full Day"},
            {"date": "2024-01-10", "kind": "Half Day"}]}

Rows with an id update that entry; rows without one are new. Entries listed
in original_ids but missing from rows are deleted. Entries booked after the
list was taken are never deleted; a row that collides with one is reported
as a conflict.

A bare JSON array of rows is also accepted. It deletes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

// =============================================================================
// EXPORT
// =============================================================================

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export PERSON",
	Short: "Export a person's entries to an xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json")

	submitCmd.Flags().StringVar(&submitFrom, "from", "", "first date (YYYY-MM-DD)")
	submitCmd.Flags().StringVar(&submitTo, "to", "", "last date, inclusive (YYYY-MM-DD)")
	submitCmd.Flags().BoolVar(&submitHalfDay, "half-day", false, "book half days instead of full days")
	_ = submitCmd.MarkFlagRequired("from")
	_ = submitCmd.MarkFlagRequired("to")

	saveCmd.Flags().StringVarP(&saveFile, "file", "f", "-", "JSON rows file, - for stdin")

	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default <person>_pto.xlsx)")
}

// tableJSON is the file format for list --format json and save.
type tableJSON struct {
	OriginalIDs []string  `json:"original_ids"`
	Rows        []rowJSON `json:"rows"`
}

type rowJSON struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date"`
	Kind string `json:"kind"`
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.close()

	entries, err := svc.store.ListEntries(cmd.Context(), generic.NormalizePerson(args[0]))
	if err != nil {
		return err
	}
	return printEntries(cmd.OutOrStdout(), entries, listFormat)
}

func printEntries(w io.Writer, entries []generic.Entry, format string) error {
	switch format {
	case "json":
		table := tableJSON{OriginalIDs: make([]string, len(entries)), Rows: make([]rowJSON, len(entries))}
		for i, e := range entries {
			table.OriginalIDs[i] = string(e.ID)
			table.Rows[i] = rowJSON{ID: string(e.ID), Date: e.Date.String(), Kind: e.Kind.Label()}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tDAY\tPTO\tHOURS WORKED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Date, e.Date.Weekday().String()[:3], e.Kind.Label(), e.HoursWorked())
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q (use table or json)", format)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	start, err := generic.ParseDate(submitFrom)
	if err != nil {
		return err
	}
	end, err := generic.ParseDate(submitTo)
	if err != nil {
		return err
	}
	kind := generic.KindFullDay
	if submitHalfDay {
		kind = generic.KindHalfDay
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.close()

	result, err := svc.submitter.Submit(cmd.Context(), timeoff.SubmitRequest{
		Person: args[0],
		Start:  start,
		End:    end,
		Kind:   kind,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Message())
	fmt.Fprintf(cmd.OutOrStdout(), "%d day(s) booked.\n", len(result.Inserted))
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	loaded, rows, err := readRows(cmd.InOrStdin(), saveFile)
	if err != nil {
		return err
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

	original := timeoff.LoadedSnapshot(generic.EntrySet{Person: person, Entries: entries}, loaded, rows)
	result, err := svc.reconciler.Save(ctx, original, rows)
	var dup *generic.DuplicateDateError
	if err != nil && !(errors.As(err, &dup) && result != nil) {
		return err
	}

	out := cmd.OutOrStdout()
	p := result.Plan
	fmt.Fprintf(out, "%d deleted, %d updated, %d inserted\n", len(p.Deletes), len(p.Updates), len(p.Inserts))
	for _, s := range p.Skipped {
		fmt.Fprintf(out, "skipped row %d: %s is a %s\n", s.Index+1, s.Date.Display(), s.Date.Weekday())
	}
	if dup != nil {
		return dup
	}
	return nil
}

// readRows decodes a save file. loaded is nil for a bare row array.
func readRows(stdin io.Reader, path string) ([]generic.RowID, []generic.EditedRow, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	var table tableJSON
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &table.Rows)
	} else {
		err = json.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("decode rows: %w", err)
	}

	var loaded []generic.RowID
	if table.OriginalIDs != nil {
		loaded = make([]generic.RowID, len(table.OriginalIDs))
		for i, id := range table.OriginalIDs {
			loaded[i] = generic.RowID(id)
		}
	}
	rows := make([]generic.EditedRow, len(table.Rows))
	for i, row := range table.Rows {
		date, err := generic.ParseDate(row.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		kind, err := generic.ParseKind(row.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows[i] = generic.EditedRow{Origin: generic.RowID(row.ID), Date: date, Kind: kind}
	}
	return loaded, rows, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.close()

	person := generic.NormalizePerson(args[0])
	entries, err := svc.store.ListEntries(cmd.Context(), person)
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		path = person + "_pto.xlsx"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteXLSX(f, generic.EntrySet{Person: person, Entries: entries}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", len(entries), path)
	return nil
}
