package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "pto.db")
}

// ptoctl runs the root command against db with stdin and returns its output.
func ptoctl(t *testing.T, db, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--db", db}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default; flag values are package
// globals and survive between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func listTable(t *testing.T, db, person string) tableJSON {
	t.Helper()
	out, err := ptoctl(t, db, "", "list", person, "--format", "json")
	require.NoError(t, err)

	var table tableJSON
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	return table
}

func listDates(t *testing.T, db, person string) []string {
	t.Helper()
	var dates []string
	for _, row := range listTable(t, db, person).Rows {
		dates = append(dates, row.Date+" "+row.Kind)
	}
	return dates
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
